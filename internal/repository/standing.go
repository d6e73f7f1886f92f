package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const (
	fieldWins   = "wins"
	fieldLosses = "losses"
	fieldTies   = "ties"
)

type StandingRepository interface {
	Record(ctx context.Context, match *entity.Match) error
	GetByAgent(ctx context.Context, agent string) (*entity.Standing, error)
}

type dbStanding struct {
	client *redis.Client
}

func NewStandingRepository(client *redis.Client) StandingRepository {
	return &dbStanding{
		client: client,
	}
}

// Record bumps the tally of every participant of a finished match.
func (that *dbStanding) Record(ctx context.Context, match *entity.Match) error {
	winner := match.Outcome.Winner()

	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range match.Players {
			field := fieldLosses
			switch {
			case winner == entity.EmptyCell:
				field = fieldTies
			case p.Mark == winner:
				field = fieldWins
			}

			pipe.HIncrBy(ctx, standingKey(p.Name), field, 1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record standing: %w", err)
	}

	return nil
}

// GetByAgent returns a zero tally for agents that never played.
func (that *dbStanding) GetByAgent(ctx context.Context, agent string) (*entity.Standing, error) {
	fields, err := that.client.HGetAll(ctx, standingKey(agent)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get standing by agent: %w", err)
	}

	standing := &entity.Standing{Agent: agent}
	for field, target := range map[string]*int64{
		fieldWins:   &standing.Wins,
		fieldLosses: &standing.Losses,
		fieldTies:   &standing.Ties,
	} {
		raw, ok := fields[field]
		if !ok {
			continue
		}

		if *target, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("failed to parse %s of %s: %w", field, agent, err)
		}
	}

	return standing, nil
}

func standingKey(agent string) string {
	return "standing:" + agent
}
