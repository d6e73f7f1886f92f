package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-arena/internal/config"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-arena/internal/service"
	"github.com/rocketscienceinc/tictactoe-arena/internal/transport/console"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
)

var ErrBadPublishFlag = errors.New("publish flag must look like name=path")

// RunApp - runs the application. Every entry of publish ("name=path") is copied
// into Redis before the console starts.
func RunApp(logger *slog.Logger, conf *config.Config, publish []string) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	var (
		tableRepo    repository.TableRepository
		matchRepo    repository.MatchRepository    = repository.NewMemoryMatchRepository()
		standingRepo repository.StandingRepository = repository.NewMemoryStandingRepository()
	)

	if conf.Redis.Enabled {
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		tableRepo = repository.NewTableRepository(redisStorage.Connection)
		matchRepo = repository.NewMatchRepository(redisStorage.Connection)
		standingRepo = repository.NewStandingRepository(redisStorage.Connection)

		log.Info("Using redis storage", "addr", conf.Redis.GetRedisAddr())
	}

	agentService := service.NewAgentService(logger, tableRepo)
	matchManager := usecase.NewMatchManager(logger, matchRepo, standingRepo)

	for _, entry := range publish {
		name, path, err := parsePublishFlag(entry)
		if err != nil {
			return err
		}

		if err = agentService.PublishTable(ctx, name, path); err != nil {
			return fmt.Errorf("could not publish table %s: %w", name, err)
		}
	}

	// a table that fails to load is left out of the game, not fatal
	for _, preset := range conf.Agents {
		if _, err := agentService.LoadAgent(ctx, preset.Source, preset.Symbol); err != nil {
			log.Error("could not preload agent", "source", preset.Source, "error", err)
		}
	}

	consoleErrCh := make(chan error, 1)
	go func() {
		consoleErrCh <- console.New(logger, agentService, matchManager, os.Stdin, os.Stdout).Run(ctx)
	}()

	select {
	case err := <-consoleErrCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("console error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func parsePublishFlag(entry string) (string, string, error) {
	name, path, ok := strings.Cut(entry, "=")
	if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(path) == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadPublishFlag, entry)
	}

	return strings.TrimSpace(name), strings.TrimSpace(path), nil
}
