package console

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// humanPlayer reads moves from the terminal.
type humanPlayer struct {
	server *Server
	mark   entity.Mark
}

func (that *humanPlayer) Name() string {
	return "human"
}

func (that *humanPlayer) Mark() entity.Mark {
	return that.mark
}

// NextMove asks again until the answer is an empty cell.
func (that *humanPlayer) NextMove(ctx context.Context, game *entity.Game) (int, error) {
	available := game.AvailableMoves()

	for {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("move cancelled: %w", err)
		}

		answer, err := that.server.prompt(fmt.Sprintf("Your turn (%s). Enter a position (0-8): ", that.mark))
		if err != nil {
			return 0, err
		}

		cell, err := strconv.Atoi(answer)
		if err != nil {
			that.server.println("Invalid input. Please enter a number between 0 and 8.")
			continue
		}

		if slices.Contains(available, cell) {
			return cell, nil
		}

		that.server.println("Invalid move. That position is not available.")
	}
}
