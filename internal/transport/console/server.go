package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/service"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
)

type agentService interface {
	LoadAgent(ctx context.Context, source, symbol string) (*service.LoadedAgent, error)
	Agents() []*service.LoadedAgent
	AgentByIndex(index int) (*service.LoadedAgent, error)
}

type matchManager interface {
	PlayAgents(ctx context.Context, first, second *service.LoadedAgent, observer usecase.Observer) (*entity.Match, error)
	PlayHuman(ctx context.Context, human usecase.Player, opponent *service.LoadedAgent, observer usecase.Observer) (*entity.Match, error)
	Standings(ctx context.Context, agents []string) ([]*entity.Standing, error)
	RecentMatches(ctx context.Context, limit int64) ([]*entity.Match, error)
}

type menuItem struct {
	key     string
	title   string
	handler func(ctx context.Context) error
}

// errExit ends the menu loop.
var errExit = errors.New("exit requested")

// Server drives the game from a text terminal.
type Server struct {
	logger  *slog.Logger
	agents  agentService
	matches matchManager

	in   *bufio.Scanner
	out  io.Writer
	menu []menuItem
}

func New(logger *slog.Logger, agents agentService, matches matchManager, in io.Reader, out io.Writer) *Server {
	server := &Server{
		logger:  logger.With("component", "console"),
		agents:  agents,
		matches: matches,
		in:      bufio.NewScanner(in),
		out:     out,
	}

	server.menu = []menuItem{
		{key: "1", title: "AI vs. AI", handler: server.handleAgentsGame},
		{key: "2", title: "Human vs. AI", handler: server.handleHumanGame},
		{key: "3", title: "Standings", handler: server.handleStandings},
		{key: "4", title: "Exit", handler: server.handleExit},
	}

	return server
}

// Run prompts for agent tables, then serves the menu until the user leaves or
// the input ends.
func (that *Server) Run(ctx context.Context) error {
	that.println("Welcome to Tic Tac Toe!")

	if err := that.loadAgents(ctx); err != nil {
		return ignoreEOF(err)
	}

	if len(that.agents.Agents()) == 0 {
		that.println("No agents loaded. Exiting.")
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("console stopped: %w", err)
		}

		err := that.serveMenu(ctx)
		if errors.Is(err, errExit) {
			return nil
		}

		if err != nil {
			return ignoreEOF(err)
		}
	}
}

func (that *Server) serveMenu(ctx context.Context) error {
	that.println("\nChoose a game mode:")
	keys := make([]string, 0, len(that.menu))
	for _, item := range that.menu {
		that.printf("%s. %s\n", item.key, item.title)
		keys = append(keys, item.key)
	}

	choice, err := that.prompt(fmt.Sprintf("Enter your choice (%s): ", strings.Join(keys, "/")))
	if err != nil {
		return err
	}

	for _, item := range that.menu {
		if item.key == choice {
			return item.handler(ctx)
		}
	}

	that.printf("Invalid choice. Please select %s, or %s.\n", strings.Join(keys[:len(keys)-1], ", "), keys[len(keys)-1])

	return nil
}

// prompt writes the question and returns the next trimmed input line.
func (that *Server) prompt(question string) (string, error) {
	that.printf("%s", question)

	if !that.in.Scan() {
		if err := that.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		return "", io.EOF
	}

	return strings.TrimSpace(that.in.Text()), nil
}

func (that *Server) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}

func (that *Server) println(text string) {
	that.printf("%s\n", text)
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
