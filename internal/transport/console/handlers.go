package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/service"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
)

const recentMatchesLimit = 5

// loadAgents asks for table sources until the user types "done".
func (that *Server) loadAgents(ctx context.Context) error {
	that.println("Load your AI agent table files.")

	for {
		source, err := that.prompt("Enter the filename of an AI agent table file (or type 'done' to finish): ")
		if err != nil {
			return err
		}

		if strings.EqualFold(source, "done") {
			return nil
		}

		symbol, err := that.prompt("Enter the symbol for this agent (X or O): ")
		if err != nil {
			return err
		}

		loaded, err := that.agents.LoadAgent(ctx, source, symbol)
		switch {
		case errors.Is(err, apperror.ErrInvalidSymbol):
			that.println("Invalid symbol. Please choose either X or O.")
		case err != nil:
			that.logger.Warn("failed to load agent", "source", source, "error", err)
			that.printf("Error loading agent: %v\n", err)
		default:
			that.printf("Loaded agent from %s with symbol %s.\n", loaded.Source, loaded.Symbol())
		}
	}
}

func (that *Server) handleAgentsGame(ctx context.Context) error {
	that.listAgents()

	first, err := that.selectAgent("Select the first agent (by number): ")
	if err != nil {
		return that.selectionFailed(err)
	}

	second, err := that.selectAgent("Select the second agent (by number): ")
	if err != nil {
		return that.selectionFailed(err)
	}

	return that.playAgain(ctx, "AI vs. AI", func() error {
		that.println("Starting a new AI vs. AI game!")

		match, err := that.matches.PlayAgents(ctx, first, second, &boardPrinter{server: that})
		if err != nil {
			return err
		}

		switch winner := match.Outcome.Winner(); winner {
		case entity.EmptyCell:
			that.println("It's a tie!")
		default:
			that.printf("Agent %s wins!\n", winner)
		}

		return nil
	})
}

func (that *Server) handleHumanGame(ctx context.Context) error {
	that.listAgents()

	opponent, err := that.selectAgent("Select an AI agent to play against (by number): ")
	if err != nil {
		return that.selectionFailed(err)
	}

	human := &humanPlayer{server: that, mark: opponent.Symbol().Opponent()}

	return that.playAgain(ctx, "Human vs. AI", func() error {
		that.println("Starting a new Human vs. AI game!")
		that.printf("%s", entity.NewGame().Render())

		match, err := that.matches.PlayHuman(ctx, human, opponent, &boardPrinter{server: that, announce: true})
		if err != nil {
			return err
		}

		switch winner := match.Outcome.Winner(); winner {
		case entity.EmptyCell:
			that.println("It's a tie!")
		case human.Mark():
			that.println("Congratulations! You win!")
		default:
			that.println("Agent wins. Better luck next time!")
		}

		return nil
	})
}

func (that *Server) handleStandings(ctx context.Context) error {
	agents := that.agents.Agents()
	names := make([]string, 0, len(agents))
	for _, loaded := range agents {
		names = append(names, loaded.Source)
	}

	standings, err := that.matches.Standings(ctx, names)
	if err != nil {
		that.logger.Error("failed to get standings", "error", err)
		that.println("Standings are not available right now.")
		return nil
	}

	that.println("\nStandings (wins/losses/ties):")
	for i, standing := range standings {
		that.printf("%d. %s: %d/%d/%d\n", i+1, standing.Agent, standing.Wins, standing.Losses, standing.Ties)
	}

	recent, err := that.matches.RecentMatches(ctx, recentMatchesLimit)
	if err != nil {
		that.logger.Error("failed to get recent matches", "error", err)
		return nil
	}

	if len(recent) > 0 {
		that.println("\nRecent games:")
	}

	for _, match := range recent {
		result := "tie"
		if name := match.WinnerName(); name != "" {
			result = name + " won"
		}

		that.printf("%s  %s  %s  %s\n", match.FinishedAt.Format("2006-01-02 15:04"), match.Mode, match.Board, result)
	}

	return nil
}

func (that *Server) handleExit(_ context.Context) error {
	that.println("Thanks for playing! Goodbye!")
	return errExit
}

func (that *Server) listAgents() {
	that.println("\nAvailable AI agents:")
	for i, loaded := range that.agents.Agents() {
		that.printf("%d. %s (%s)\n", i+1, loaded.Source, loaded.Symbol())
	}
}

// selectAgent reads a 1-based agent number.
func (that *Server) selectAgent(question string) (*service.LoadedAgent, error) {
	answer, err := that.prompt(question)
	if err != nil {
		return nil, err
	}

	number, err := strconv.Atoi(answer)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", apperror.ErrAgentNotFound, answer)
	}

	loaded, err := that.agents.AgentByIndex(number - 1)
	if err != nil {
		return nil, fmt.Errorf("failed to select agent: %w", err)
	}

	return loaded, nil
}

func (that *Server) selectionFailed(err error) error {
	if errors.Is(err, io.EOF) {
		return err
	}

	that.println("Invalid selection. Please try again.")

	return nil
}

// playAgain runs play until the user declines another round. Errors the user
// can recover from are reported and end the rounds without leaving the menu.
func (that *Server) playAgain(ctx context.Context, mode string, play func() error) error {
	for {
		err := play()
		switch {
		case errors.Is(err, apperror.ErrSameAgent):
			that.println("You must choose two different agents.")
			return nil
		case errors.Is(err, apperror.ErrSameSymbol):
			that.println("The agents play the same symbol. Choose agents with different symbols.")
			return nil
		case err != nil && (errors.Is(err, io.EOF) || ctx.Err() != nil):
			return err
		case err != nil:
			that.logger.Error("game failed", "mode", mode, "error", err)
			that.printf("The game could not be finished: %v\n", err)
			return nil
		}

		answer, err := that.prompt(fmt.Sprintf("Do you want to play another %s game? (y/n): ", mode))
		if err != nil {
			return err
		}

		if !strings.EqualFold(answer, "y") {
			return nil
		}
	}
}

// boardPrinter renders the board after every move.
type boardPrinter struct {
	server   *Server
	announce bool
}

func (that *boardPrinter) MovePlayed(game *entity.Game, player usecase.Player, cell int) {
	if that.announce {
		if _, human := player.(*humanPlayer); !human {
			that.server.printf("Agent's turn (%s): %d\n", player.Mark(), cell)
		}
	}

	that.server.printf("%s", game.Render())
}
