package agent

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// Agent picks moves from a precomputed score table.
type Agent struct {
	symbol entity.Mark
	table  Table
}

func New(symbol entity.Mark) *Agent {
	return &Agent{
		symbol: symbol,
		table:  Table{},
	}
}

func (that *Agent) Symbol() entity.Mark {
	return that.symbol
}

// Size returns the number of board configurations the agent knows about.
func (that *Agent) Size() int {
	return len(that.table)
}

// ChooseMove returns the empty cell with the highest score for board. Ties are
// broken uniformly at random. Boards missing from the table score zero
// everywhere, so every empty cell is equally likely.
func (that *Agent) ChooseMove(board entity.Board) (int, error) {
	scores, ok := that.table[board]
	if !ok {
		scores = make([]float64, entity.BoardSize)
	}

	validMoves := board.AvailableMoves()
	if len(validMoves) == 0 {
		return 0, apperror.ErrNoValidMoves
	}

	maxScore := scores[validMoves[0]]
	for _, cell := range validMoves[1:] {
		if scores[cell] > maxScore {
			maxScore = scores[cell]
		}
	}

	bestMoves := make([]int, 0, len(validMoves))
	for _, cell := range validMoves {
		if scores[cell] == maxScore {
			bestMoves = append(bestMoves, cell)
		}
	}

	return bestMoves[rand.Intn(len(bestMoves))], nil //nolint: gosec // tie-breaking needs no crypto
}

// Load replaces the table with the one stored in the file at path. The current
// table is kept if anything goes wrong.
func (that *Agent) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrLoadTable, err)
	}
	defer file.Close()

	return that.LoadFrom(bufio.NewReader(file))
}

// LoadFrom is Load for tables that do not live in a file.
func (that *Agent) LoadFrom(r io.Reader) error {
	table, err := DecodeTable(r)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrLoadTable, err)
	}

	that.table = table

	return nil
}
