package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/rocketscienceinc/tictactoe-arena/internal/agent"
	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// RedisSourcePrefix marks a table source held in Redis instead of a file.
const RedisSourcePrefix = "redis:"

var ErrTablesUnavailable = errors.New("redis table storage is disabled")

type tableRepo interface {
	Put(ctx context.Context, name string, blob []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
}

// LoadedAgent is an agent together with the source it was loaded from.
type LoadedAgent struct {
	*agent.Agent
	Source string
}

type AgentService interface {
	LoadAgent(ctx context.Context, source, symbol string) (*LoadedAgent, error)
	PublishTable(ctx context.Context, name, path string) error

	Agents() []*LoadedAgent
	AgentByIndex(index int) (*LoadedAgent, error)
}

type agentService struct {
	logger *slog.Logger
	tables tableRepo

	agents []*LoadedAgent
}

// NewAgentService creates the registry. tables may be nil, in which case only
// file sources can be loaded.
func NewAgentService(logger *slog.Logger, tables tableRepo) AgentService {
	return &agentService{
		logger: logger.With("component", "agents"),
		tables: tables,
	}
}

// LoadAgent loads the table behind source and registers the agent. Loading the
// same source again replaces the earlier agent in place.
func (that *agentService) LoadAgent(ctx context.Context, source, symbol string) (*LoadedAgent, error) {
	mark, ok := entity.ParseMark(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidSymbol, symbol)
	}

	loaded := &LoadedAgent{
		Agent:  agent.New(mark),
		Source: source,
	}

	if err := that.load(ctx, loaded); err != nil {
		return nil, err
	}

	that.register(loaded)

	that.logger.Info("agent loaded", "source", source, "symbol", mark, "states", loaded.Size())

	return loaded, nil
}

func (that *agentService) load(ctx context.Context, loaded *LoadedAgent) error {
	name, fromRedis := strings.CutPrefix(loaded.Source, RedisSourcePrefix)
	if !fromRedis {
		if err := loaded.Load(loaded.Source); err != nil {
			return fmt.Errorf("failed to load agent from file: %w", err)
		}

		return nil
	}

	if that.tables == nil {
		return fmt.Errorf("%w: %w", apperror.ErrLoadTable, ErrTablesUnavailable)
	}

	blob, err := that.tables.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrLoadTable, err)
	}

	if err = loaded.LoadFrom(bytes.NewReader(blob)); err != nil {
		return fmt.Errorf("failed to load agent from redis: %w", err)
	}

	return nil
}

func (that *agentService) register(loaded *LoadedAgent) {
	for i, existing := range that.agents {
		if existing.Source == loaded.Source {
			that.agents[i] = loaded
			return
		}
	}

	that.agents = append(that.agents, loaded)
}

// PublishTable copies a table file into Redis under name, so it can later be
// loaded as "redis:<name>". The file must decode as a table.
func (that *agentService) PublishTable(ctx context.Context, name, path string) error {
	if that.tables == nil {
		return ErrTablesUnavailable
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read table file: %w", err)
	}

	if _, err = agent.DecodeTable(bytes.NewReader(blob)); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrLoadTable, err)
	}

	if err = that.tables.Put(ctx, name, blob); err != nil {
		return fmt.Errorf("failed to publish table: %w", err)
	}

	that.logger.Info("table published", "name", name, "path", path, "bytes", len(blob))

	return nil
}

func (that *agentService) Agents() []*LoadedAgent {
	agents := make([]*LoadedAgent, len(that.agents))
	copy(agents, that.agents)

	return agents
}

func (that *agentService) AgentByIndex(index int) (*LoadedAgent, error) {
	if len(that.agents) == 0 {
		return nil, apperror.ErrNoAgents
	}

	if index < 0 || index >= len(that.agents) {
		return nil, fmt.Errorf("%w: %d", apperror.ErrAgentNotFound, index+1)
	}

	return that.agents[index], nil
}
