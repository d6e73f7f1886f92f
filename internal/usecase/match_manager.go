package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/service"
)

// Player is one side of a match.
type Player interface {
	Name() string
	Mark() entity.Mark
	NextMove(ctx context.Context, game *entity.Game) (int, error)
}

// Observer is told about every move once it is on the board.
type Observer interface {
	MovePlayed(game *entity.Game, player Player, cell int)
}

type matchRepo interface {
	Create(ctx context.Context, match *entity.Match) error
	ListRecent(ctx context.Context, limit int64) ([]*entity.Match, error)
}

type standingRepo interface {
	Record(ctx context.Context, match *entity.Match) error
	GetByAgent(ctx context.Context, agent string) (*entity.Standing, error)
}

type MatchManager struct {
	logger       *slog.Logger
	matchRepo    matchRepo
	standingRepo standingRepo

	now func() time.Time
}

func NewMatchManager(logger *slog.Logger, matchRepo matchRepo, standingRepo standingRepo) *MatchManager {
	return &MatchManager{
		logger: logger.With("component", "match"),

		matchRepo:    matchRepo,
		standingRepo: standingRepo,

		now: time.Now,
	}
}

// PlayAgents plays first against second until the game ends. first moves first
// whatever its symbol is.
func (that *MatchManager) PlayAgents(ctx context.Context, first, second *service.LoadedAgent, observer Observer) (*entity.Match, error) {
	if first == second || first.Source == second.Source {
		return nil, apperror.ErrSameAgent
	}

	if first.Symbol() == second.Symbol() {
		return nil, fmt.Errorf("%w: both play %s", apperror.ErrSameSymbol, first.Symbol())
	}

	return that.play(ctx, entity.ModeAgents, []Player{NewAgentPlayer(first), NewAgentPlayer(second)}, observer)
}

// PlayHuman plays a human against an agent. X always moves first.
func (that *MatchManager) PlayHuman(ctx context.Context, human Player, opponent *service.LoadedAgent, observer Observer) (*entity.Match, error) {
	if human.Mark() == opponent.Symbol() {
		return nil, fmt.Errorf("%w: both play %s", apperror.ErrSameSymbol, human.Mark())
	}

	players := []Player{human, NewAgentPlayer(opponent)}
	if human.Mark() != entity.PlayerX {
		players[0], players[1] = players[1], players[0]
	}

	return that.play(ctx, entity.ModeHuman, players, observer)
}

func (that *MatchManager) play(ctx context.Context, mode string, players []Player, observer Observer) (*entity.Match, error) {
	log := that.logger.With("mode", mode, "first", players[0].Name(), "second", players[1].Name())

	game := entity.NewGame()
	moves := make([]int, 0, entity.BoardSize)

	for turn := 0; !game.CheckOutcome().IsTerminal(); turn++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("match interrupted: %w", err)
		}

		player := players[turn%len(players)]

		cell, err := player.NextMove(ctx, game)
		if err != nil {
			return nil, fmt.Errorf("%s failed to choose a move: %w", player.Name(), err)
		}

		if err = game.ApplyMove(cell, player.Mark()); err != nil {
			return nil, fmt.Errorf("%s failed to make move %d: %w", player.Name(), cell, err)
		}

		moves = append(moves, cell)
		log.Debug("move played", "player", player.Name(), "mark", player.Mark(), "cell", cell)

		if observer != nil {
			observer.MovePlayed(game, player, cell)
		}
	}

	match := &entity.Match{
		Mode:       mode,
		Players:    make([]entity.Participant, 0, len(players)),
		Moves:      moves,
		Board:      game.Board,
		Outcome:    game.Outcome,
		FinishedAt: that.now().UTC(),
	}
	for _, p := range players {
		match.Players = append(match.Players, entity.Participant{Name: p.Name(), Mark: p.Mark()})
	}

	that.record(ctx, match)

	log.Info("match finished", "outcome", match.Outcome, "moves", len(moves))

	return match, nil
}

// record keeps the match history. Storage problems never spoil a finished game.
func (that *MatchManager) record(ctx context.Context, match *entity.Match) {
	log := that.logger.With("method", "record")

	if err := that.matchRepo.Create(ctx, match); err != nil {
		log.Error("failed to save match", "error", err)
	}

	if err := that.standingRepo.Record(ctx, match); err != nil {
		log.Error("failed to record standing", "error", err)
	}
}

// Standings returns the tally of every named agent in the given order.
func (that *MatchManager) Standings(ctx context.Context, agents []string) ([]*entity.Standing, error) {
	standings := make([]*entity.Standing, 0, len(agents))
	for _, name := range agents {
		standing, err := that.standingRepo.GetByAgent(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to get standing of %s: %w", name, err)
		}

		standings = append(standings, standing)
	}

	return standings, nil
}

func (that *MatchManager) RecentMatches(ctx context.Context, limit int64) ([]*entity.Match, error) {
	matches, err := that.matchRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent matches: %w", err)
	}

	return matches, nil
}
