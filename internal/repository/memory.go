package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// MemoryMatchRepository keeps the history of the current session only. It is
// used when Redis is disabled.
type MemoryMatchRepository struct {
	mu      sync.Mutex
	matches []*entity.Match
}

func NewMemoryMatchRepository() *MemoryMatchRepository {
	return &MemoryMatchRepository{}
}

func (that *MemoryMatchRepository) Create(_ context.Context, match *entity.Match) error {
	if match.ID == "" {
		match.ID = uuid.NewString()
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	stored := *match
	that.matches = append(that.matches, &stored)

	return nil
}

func (that *MemoryMatchRepository) GetByID(_ context.Context, id string) (*entity.Match, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, match := range that.matches {
		if match.ID == id {
			found := *match
			return &found, nil
		}
	}

	return nil, ErrMatchNotFound
}

func (that *MemoryMatchRepository) ListRecent(_ context.Context, limit int64) ([]*entity.Match, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	var matches []*entity.Match
	for i := len(that.matches) - 1; i >= 0 && int64(len(matches)) < limit; i-- {
		found := *that.matches[i]
		matches = append(matches, &found)
	}

	return matches, nil
}

type MemoryStandingRepository struct {
	mu        sync.Mutex
	standings map[string]entity.Standing
}

func NewMemoryStandingRepository() *MemoryStandingRepository {
	return &MemoryStandingRepository{
		standings: make(map[string]entity.Standing),
	}
}

func (that *MemoryStandingRepository) Record(_ context.Context, match *entity.Match) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	winner := match.Outcome.Winner()
	for _, p := range match.Players {
		standing := that.standings[p.Name]
		standing.Agent = p.Name

		switch {
		case winner == entity.EmptyCell:
			standing.Ties++
		case p.Mark == winner:
			standing.Wins++
		default:
			standing.Losses++
		}

		that.standings[p.Name] = standing
	}

	return nil
}

func (that *MemoryStandingRepository) GetByAgent(_ context.Context, agent string) (*entity.Standing, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	standing := that.standings[agent]
	standing.Agent = agent

	return &standing, nil
}
