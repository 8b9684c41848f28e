package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/rocketscienceinc/gomoku-backend/internal/config"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository/storage"
	"github.com/rocketscienceinc/gomoku-backend/internal/service"
	"github.com/rocketscienceinc/gomoku-backend/internal/transport/rest"
	"github.com/rocketscienceinc/gomoku-backend/internal/transport/websocket"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
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

	mode, err := entity.ParseGameMode(conf.Game.Mode)
	if err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}

	difficulty, err := entity.ParseDifficulty(conf.Game.Difficulty)
	if err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}

	gameRepo, closeRepo, err := newGameRepository(ctx, log, conf.Redis)
	if err != nil {
		return err
	}
	defer closeRepo()

	clk := clock.New()
	gameID := uuid.NewString()

	gameState := usecase.NewGameState(logger, clk, service.NewBotService(), usecase.GameOptions{
		RoundDuration: conf.Game.RoundDuration,
		Mode:          mode,
		Difficulty:    difficulty,
	})
	gameManager := usecase.NewGameManager(logger, clk, gameState, gameRepo, gameID, conf.Game.TickInterval)

	managerDone := make(chan struct{})
	go func() {
		defer close(managerDone)

		if managerErr := gameManager.Run(ctx); managerErr != nil {
			log.Error("game manager error", "error", managerErr)
		}
	}()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, gameManager).Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := websocket.New(logger, gameManager).Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	log.Info("game started", "game_id", gameID, "mode", mode, "difficulty", difficulty)

	select {
	case err = <-httpErrCh:
		err = fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		err = fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	cancel()
	<-managerDone

	return err
}

// newGameRepository picks redis when enabled, otherwise keeps the game in memory.
func newGameRepository(ctx context.Context, log *slog.Logger, conf config.Redis) (repository.GameRepository, func(), error) {
	if !conf.Enabled {
		log.Info("redis is disabled, game is kept in memory")
		return repository.NewMemoryGameRepository(), func() {}, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewGameRepository(redisStorage.Connection, conf.SnapshotTTL), closeStorage, nil
}
