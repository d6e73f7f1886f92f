package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arena/internal/agent"
	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository"
	"github.com/rocketscienceinc/tictactoe-arena/internal/service"
	"github.com/rocketscienceinc/tictactoe-arena/testing/suite"
)

var (
	errStorageIsFull = errors.New("storage is full")
	errRedisDown     = errors.New("redis down")
)

type mockMatchRepo struct {
	mock.Mock
}

func (m *mockMatchRepo) Create(ctx context.Context, match *entity.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *mockMatchRepo) ListRecent(ctx context.Context, limit int64) ([]*entity.Match, error) {
	args := m.Called(ctx, limit)
	matches, _ := args.Get(0).([]*entity.Match)
	return matches, args.Error(1)
}

type mockStandingRepo struct {
	mock.Mock
}

func (m *mockStandingRepo) Record(ctx context.Context, match *entity.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *mockStandingRepo) GetByAgent(ctx context.Context, agent string) (*entity.Standing, error) {
	args := m.Called(ctx, agent)
	standing, _ := args.Get(0).(*entity.Standing)
	return standing, args.Error(1)
}

// scriptedPlayer plays a fixed list of cells.
type scriptedPlayer struct {
	name  string
	mark  entity.Mark
	cells []int
	err   error
}

func (that *scriptedPlayer) Name() string      { return that.name }
func (that *scriptedPlayer) Mark() entity.Mark { return that.mark }

func (that *scriptedPlayer) NextMove(_ context.Context, _ *entity.Game) (int, error) {
	if that.err != nil {
		return 0, that.err
	}

	cell := that.cells[0]
	that.cells = that.cells[1:]

	return cell, nil
}

type recordingObserver struct {
	cells  []int
	boards []entity.Board
}

func (that *recordingObserver) MovePlayed(game *entity.Game, _ Player, cell int) {
	that.cells = append(that.cells, cell)
	that.boards = append(that.boards, game.Board)
}

func loadAgent(t *testing.T, agents service.AgentService, name, symbol string, table agent.Table) *service.LoadedAgent {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, agent.EncodeTable(&buf, table))

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	loaded, err := agents.LoadAgent(context.Background(), path, symbol)
	require.NoError(t, err)

	return loaded
}

// scores returns a vector preferring the given cells in order.
func scores(preferred ...int) []float64 {
	vector := make([]float64, entity.BoardSize)
	for i, cell := range preferred {
		vector[cell] = float64(len(preferred) - i)
	}

	return vector
}

func newManager() (*MatchManager, *repository.MemoryMatchRepository, *repository.MemoryStandingRepository) {
	matchRepo := repository.NewMemoryMatchRepository()
	standingRepo := repository.NewMemoryStandingRepository()

	manager := NewMatchManager(suite.NewLogger(), matchRepo, standingRepo)
	manager.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }

	return manager, matchRepo, standingRepo
}

func TestMatchManager_PlayAgents(t *testing.T) {
	ctx := context.Background()

	t.Run("Deterministic agents play to a win", func(t *testing.T) {
		// Given: X always wants the top row and O always wants the middle row
		agents := service.NewAgentService(suite.NewLogger(), nil)
		x := loadAgent(t, agents, "x.gob", "X", agent.Table{
			{}: scores(0),
			{0: entity.PlayerX, 3: entity.PlayerO}: scores(1),
			{0: entity.PlayerX, 1: entity.PlayerX, 3: entity.PlayerO, 4: entity.PlayerO}: scores(2),
		})
		o := loadAgent(t, agents, "o.gob", "O", agent.Table{
			{0: entity.PlayerX}: scores(3),
			{0: entity.PlayerX, 1: entity.PlayerX, 3: entity.PlayerO}: scores(4),
		})
		manager, matchRepo, standingRepo := newManager()
		observer := &recordingObserver{}

		// When: X plays O
		match, err := manager.PlayAgents(ctx, x, o, observer)

		// Then: X completes the top row in five moves
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeWinX, match.Outcome)
		assert.Equal(t, []int{0, 3, 1, 4, 2}, match.Moves)
		assert.Equal(t, x.Source, match.WinnerName())
		assert.Equal(t, entity.ModeAgents, match.Mode)
		assert.Equal(t, []entity.Participant{{Name: x.Source, Mark: entity.PlayerX}, {Name: o.Source, Mark: entity.PlayerO}}, match.Players)
		assert.Equal(t, match.Moves, observer.cells)
		assert.Equal(t, match.Board, observer.boards[len(observer.boards)-1])

		// Then: the match is recorded
		recent, err := matchRepo.ListRecent(ctx, 1)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, match.ID, recent[0].ID)

		standing, err := standingRepo.GetByAgent(ctx, x.Source)
		require.NoError(t, err)
		assert.Equal(t, int64(1), standing.Wins)
	})

	t.Run("Agents without tables always finish", func(t *testing.T) {
		// Given: two agents with empty tables
		agents := service.NewAgentService(suite.NewLogger(), nil)
		x := loadAgent(t, agents, "x.gob", "X", agent.Table{})
		o := loadAgent(t, agents, "o.gob", "O", agent.Table{})
		manager, _, _ := newManager()

		for i := 0; i < 50; i++ {
			// When: they play
			match, err := manager.PlayAgents(ctx, x, o, nil)

			// Then: the game reaches a terminal outcome with legal moves
			require.NoError(t, err)
			assert.True(t, match.Outcome.IsTerminal())
			assert.Equal(t, entity.DetermineOutcome(match.Board), match.Outcome)
			assert.LessOrEqual(t, len(match.Moves), entity.BoardSize)
			assert.GreaterOrEqual(t, len(match.Moves), 5)
		}
	})

	t.Run("Second agent may move first", func(t *testing.T) {
		// Given: the O agent is picked first
		agents := service.NewAgentService(suite.NewLogger(), nil)
		x := loadAgent(t, agents, "x.gob", "X", agent.Table{})
		o := loadAgent(t, agents, "o.gob", "O", agent.Table{})
		manager, _, _ := newManager()
		observer := &recordingObserver{}

		// When: they play
		_, err := manager.PlayAgents(ctx, o, x, observer)

		// Then: the first mark on the board is O
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, observer.boards[0][observer.cells[0]])
	})

	t.Run("Rejects the same agent twice", func(t *testing.T) {
		agents := service.NewAgentService(suite.NewLogger(), nil)
		x := loadAgent(t, agents, "x.gob", "X", agent.Table{})
		manager, _, _ := newManager()

		_, err := manager.PlayAgents(ctx, x, x, nil)
		require.ErrorIs(t, err, apperror.ErrSameAgent)
	})

	t.Run("Rejects agents with the same symbol", func(t *testing.T) {
		agents := service.NewAgentService(suite.NewLogger(), nil)
		first := loadAgent(t, agents, "a.gob", "X", agent.Table{})
		second := loadAgent(t, agents, "b.gob", "X", agent.Table{})
		manager, _, _ := newManager()

		_, err := manager.PlayAgents(ctx, first, second, nil)
		require.ErrorIs(t, err, apperror.ErrSameSymbol)
	})

	t.Run("Storage failures do not spoil the match", func(t *testing.T) {
		// Given: repositories that fail
		agents := service.NewAgentService(suite.NewLogger(), nil)
		x := loadAgent(t, agents, "x.gob", "X", agent.Table{})
		o := loadAgent(t, agents, "o.gob", "O", agent.Table{})

		matchRepo := &mockMatchRepo{}
		matchRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Match")).Return(errStorageIsFull).Once()
		standingRepo := &mockStandingRepo{}
		standingRepo.On("Record", mock.Anything, mock.AnythingOfType("*entity.Match")).Return(errRedisDown).Once()
		manager := NewMatchManager(suite.NewLogger(), matchRepo, standingRepo)

		// When: a match is played
		match, err := manager.PlayAgents(ctx, x, o, nil)

		// Then: the result is still returned
		require.NoError(t, err)
		assert.True(t, match.Outcome.IsTerminal())
		matchRepo.AssertExpectations(t)
		standingRepo.AssertExpectations(t)
	})

	t.Run("Cancelled context stops the match", func(t *testing.T) {
		agents := service.NewAgentService(suite.NewLogger(), nil)
		x := loadAgent(t, agents, "x.gob", "X", agent.Table{})
		o := loadAgent(t, agents, "o.gob", "O", agent.Table{})
		manager, matchRepo, _ := newManager()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := manager.PlayAgents(cancelled, x, o, nil)
		require.ErrorIs(t, err, context.Canceled)

		recent, err := matchRepo.ListRecent(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, recent)
	})
}

func TestMatchManager_PlayHuman(t *testing.T) {
	ctx := context.Background()

	t.Run("Human playing O lets the agent open", func(t *testing.T) {
		// Given: an X agent that takes the left column and a human playing O
		agents := service.NewAgentService(suite.NewLogger(), nil)
		x := loadAgent(t, agents, "x.gob", "X", agent.Table{
			{}: scores(0),
			{0: entity.PlayerX, 4: entity.PlayerO}: scores(3),
			{0: entity.PlayerX, 3: entity.PlayerX, 4: entity.PlayerO, 8: entity.PlayerO}: scores(6),
		})
		human := &scriptedPlayer{name: "human", mark: entity.PlayerO, cells: []int{4, 8}}
		manager, _, _ := newManager()

		// When: they play
		match, err := manager.PlayHuman(ctx, human, x, nil)

		// Then: the agent moves first and wins down the left column
		require.NoError(t, err)
		assert.Equal(t, []int{0, 4, 3, 8, 6}, match.Moves)
		assert.Equal(t, entity.OutcomeWinX, match.Outcome)
		assert.Equal(t, entity.ModeHuman, match.Mode)
	})

	t.Run("Human playing X opens", func(t *testing.T) {
		// Given: an O agent answering the centre with a corner and a human playing X
		agents := service.NewAgentService(suite.NewLogger(), nil)
		o := loadAgent(t, agents, "o.gob", "O", agent.Table{
			{4: entity.PlayerX}: scores(0),
			{0: entity.PlayerO, 1: entity.PlayerX, 4: entity.PlayerX}: scores(2),
		})
		human := &scriptedPlayer{name: "human", mark: entity.PlayerX, cells: []int{4, 1, 7}}
		manager, _, _ := newManager()
		observer := &recordingObserver{}

		// When: they play
		match, err := manager.PlayHuman(ctx, human, o, observer)

		// Then: the human opens and wins down the middle column
		require.NoError(t, err)
		assert.Equal(t, []int{4, 0, 1, 2, 7}, match.Moves)
		assert.Equal(t, entity.OutcomeWinX, match.Outcome)
		assert.Equal(t, "human", match.WinnerName())
		assert.Equal(t, entity.PlayerX, observer.boards[0][4])
	})

	t.Run("Human move errors are returned", func(t *testing.T) {
		agents := service.NewAgentService(suite.NewLogger(), nil)
		o := loadAgent(t, agents, "o.gob", "O", agent.Table{})
		human := &scriptedPlayer{name: "human", mark: entity.PlayerX, err: io.EOF}
		manager, _, _ := newManager()

		_, err := manager.PlayHuman(ctx, human, o, nil)
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("Occupied cell is reported", func(t *testing.T) {
		agents := service.NewAgentService(suite.NewLogger(), nil)
		o := loadAgent(t, agents, "o.gob", "O", agent.Table{{4: entity.PlayerX}: scores(0)})
		human := &scriptedPlayer{name: "human", mark: entity.PlayerX, cells: []int{4, 0}}
		manager, _, _ := newManager()

		_, err := manager.PlayHuman(ctx, human, o, nil)
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
	})

	t.Run("Same symbol is rejected", func(t *testing.T) {
		agents := service.NewAgentService(suite.NewLogger(), nil)
		o := loadAgent(t, agents, "o.gob", "O", agent.Table{})
		human := &scriptedPlayer{name: "human", mark: entity.PlayerO}
		manager, _, _ := newManager()

		_, err := manager.PlayHuman(ctx, human, o, nil)
		require.ErrorIs(t, err, apperror.ErrSameSymbol)
	})
}

func TestMatchManager_Standings(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns standings in order", func(t *testing.T) {
		standingRepo := &mockStandingRepo{}
		standingRepo.On("GetByAgent", mock.Anything, "a.gob").Return(&entity.Standing{Agent: "a.gob", Wins: 2}, nil).Once()
		standingRepo.On("GetByAgent", mock.Anything, "b.gob").Return(&entity.Standing{Agent: "b.gob", Losses: 2}, nil).Once()
		manager := NewMatchManager(suite.NewLogger(), &mockMatchRepo{}, standingRepo)

		standings, err := manager.Standings(ctx, []string{"a.gob", "b.gob"})

		require.NoError(t, err)
		require.Len(t, standings, 2)
		assert.Equal(t, "a.gob", standings[0].Agent)
		assert.Equal(t, "b.gob", standings[1].Agent)
	})

	t.Run("Returns repository error", func(t *testing.T) {
		standingRepo := &mockStandingRepo{}
		standingRepo.On("GetByAgent", mock.Anything, "a.gob").Return(nil, errRedisDown).Once()
		manager := NewMatchManager(suite.NewLogger(), &mockMatchRepo{}, standingRepo)

		_, err := manager.Standings(ctx, []string{"a.gob"})
		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestMatchManager_RecentMatches(t *testing.T) {
	ctx := context.Background()

	matchRepo := &mockMatchRepo{}
	matchRepo.On("ListRecent", mock.Anything, int64(5)).Return([]*entity.Match{{ID: "m1"}}, nil).Once()
	matchRepo.On("ListRecent", mock.Anything, int64(1)).Return(nil, errRedisDown).Once()
	manager := NewMatchManager(suite.NewLogger(), matchRepo, &mockStandingRepo{})

	matches, err := manager.RecentMatches(ctx, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "m1", matches[0].ID)

	_, err = manager.RecentMatches(ctx, 1)
	require.ErrorIs(t, err, errRedisDown)
}
