package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/timer"
)

const (
	subscriberBuffer = 16
	cleanupTimeout   = 5 * time.Second
)

var ErrManagerStopped = errors.New("game manager is stopped")

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, id string, game *entity.Snapshot) error
	DeleteByID(ctx context.Context, id string) error
	Publish(ctx context.Context, id string, event *entity.Event) error
}

// commandFunc mutates the game and reports whether anything changed.
type commandFunc func(state *GameState) (bool, *entity.RoundResult, error)

type command struct {
	name  string
	run   commandFunc
	reply chan commandReply
}

type commandReply struct {
	game *entity.Snapshot
	err  error
}

// GameManager owns the GameState. Every command and timer tick is handled on the Run goroutine.
type GameManager struct {
	logger       *slog.Logger
	clock        clock.Clock
	state        *GameState
	gameRepo     gameRepo
	gameID       string
	tickInterval time.Duration

	commands chan command
	done     chan struct{}

	subscribersMutex sync.Mutex
	subscribers      map[int]chan entity.Event
	nextSubscriberID int
}

func NewGameManager(
	logger *slog.Logger,
	clk clock.Clock,
	state *GameState,
	gameRepo gameRepo,
	gameID string,
	tickInterval time.Duration,
) *GameManager {
	return &GameManager{
		logger:       logger.With("component", "game_manager", "game_id", gameID),
		clock:        clk,
		state:        state,
		gameRepo:     gameRepo,
		gameID:       gameID,
		tickInterval: tickInterval,

		commands:    make(chan command),
		done:        make(chan struct{}),
		subscribers: make(map[int]chan entity.Event),
	}
}

func (that *GameManager) GameID() string {
	return that.gameID
}

// Run serves commands and ticks until ctx is canceled. The stored game is removed on exit.
func (that *GameManager) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	ticker := that.clock.Ticker(that.tickInterval)
	defer ticker.Stop()

	defer close(that.done)
	defer that.deleteGame(ctx)

	that.saveGame(ctx, that.state.Snapshot(that.clock.Now()))

	log.Info("game manager started", "tick_interval", that.tickInterval)

	for {
		select {
		case <-ctx.Done():
			log.Info("game manager stopped")
			return nil
		case cmd := <-that.commands:
			that.execute(ctx, cmd)
		case <-ticker.C:
			that.tick(ctx)
		}
	}
}

func (that *GameManager) MakeTurn(ctx context.Context, row, col int) (*entity.Snapshot, error) {
	return that.do(ctx, "make_turn", func(state *GameState) (bool, *entity.RoundResult, error) {
		result, err := state.ApplyMove(row, col)
		if err != nil {
			return len(result.Moves) > 0, nil, fmt.Errorf("failed to make turn: %w", err)
		}

		return true, result.Result, nil
	})
}

func (that *GameManager) Undo(ctx context.Context) (*entity.Snapshot, error) {
	return that.do(ctx, "undo", func(state *GameState) (bool, *entity.RoundResult, error) {
		if _, err := state.Undo(); err != nil {
			return false, nil, fmt.Errorf("failed to undo move: %w", err)
		}

		return true, nil, nil
	})
}

func (that *GameManager) Reset(ctx context.Context) (*entity.Snapshot, error) {
	return that.do(ctx, "reset", func(state *GameState) (bool, *entity.RoundResult, error) {
		state.ResetRound()

		return true, nil, nil
	})
}

func (that *GameManager) SwitchMode(ctx context.Context) (*entity.Snapshot, error) {
	return that.do(ctx, "switch_mode", func(state *GameState) (bool, *entity.RoundResult, error) {
		state.SwitchMode()

		return true, nil, nil
	})
}

func (that *GameManager) SetDifficulty(ctx context.Context, level string) (*entity.Snapshot, error) {
	return that.do(ctx, "set_difficulty", func(state *GameState) (bool, *entity.RoundResult, error) {
		difficulty, err := entity.ParseDifficulty(level)
		if err != nil {
			return false, nil, err
		}

		if err = state.SetDifficulty(difficulty); err != nil {
			return false, nil, fmt.Errorf("failed to set difficulty: %w", err)
		}

		return true, nil, nil
	})
}

func (that *GameManager) State(ctx context.Context) (*entity.Snapshot, error) {
	return that.do(ctx, "state", func(_ *GameState) (bool, *entity.RoundResult, error) {
		return false, nil, nil
	})
}

// Subscribe returns a channel of game events and a func that cancels the subscription.
// Events are dropped for subscribers that fall behind.
func (that *GameManager) Subscribe() (<-chan entity.Event, func()) {
	events := make(chan entity.Event, subscriberBuffer)

	that.subscribersMutex.Lock()
	id := that.nextSubscriberID
	that.nextSubscriberID++
	that.subscribers[id] = events
	that.subscribersMutex.Unlock()

	var once sync.Once

	return events, func() {
		once.Do(func() {
			that.subscribersMutex.Lock()
			delete(that.subscribers, id)
			close(events)
			that.subscribersMutex.Unlock()
		})
	}
}

func (that *GameManager) do(ctx context.Context, name string, run commandFunc) (*entity.Snapshot, error) {
	cmd := command{
		name:  name,
		run:   run,
		reply: make(chan commandReply, 1),
	}

	select {
	case that.commands <- cmd:
	case <-that.done:
		return nil, ErrManagerStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case reply := <-cmd.reply:
		return reply.game, reply.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (that *GameManager) execute(ctx context.Context, cmd command) {
	log := that.logger.With("method", "execute", "command", cmd.name)

	changed, result, err := cmd.run(that.state)
	if err != nil {
		log.Debug("command failed", "error", err)
	}

	game := that.state.Snapshot(that.clock.Now())

	if changed {
		that.saveGame(ctx, game)
		that.notify(ctx, &entity.Event{Type: entity.EventState, Game: game})
	}

	if result != nil {
		that.notify(ctx, &entity.Event{Type: entity.EventRoundOver, Game: game, Result: result})
	}

	cmd.reply <- commandReply{game: game, err: err}
}

func (that *GameManager) tick(ctx context.Context) {
	now := that.clock.Now()

	tick, result := that.state.Tick(now)
	if tick.State == timer.Idle {
		return
	}

	game := that.state.Snapshot(now)
	that.notify(ctx, &entity.Event{Type: entity.EventTick, Game: game})

	if result != nil {
		that.saveGame(ctx, game)
		that.notify(ctx, &entity.Event{Type: entity.EventRoundOver, Game: game, Result: result})
	}
}

func (that *GameManager) notify(ctx context.Context, event *entity.Event) {
	if err := that.gameRepo.Publish(ctx, that.gameID, event); err != nil {
		that.logger.Error("failed to publish event", "event", event.Type, "error", err)
	}

	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	for id, events := range that.subscribers {
		select {
		case events <- *event:
		default:
			that.logger.Warn("subscriber is too slow, event dropped", "subscriber", id, "event", event.Type)
		}
	}
}

func (that *GameManager) saveGame(ctx context.Context, game *entity.Snapshot) {
	if err := that.gameRepo.CreateOrUpdate(ctx, that.gameID, game); err != nil {
		that.logger.Error("failed to save game", "error", err)
	}
}

func (that *GameManager) deleteGame(ctx context.Context) {
	log := that.logger.With("method", "deleteGame")

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := that.gameRepo.DeleteByID(ctx, that.gameID); err != nil {
		log.Error("failed to delete game", "error", err)
		return
	}

	log.Info("game deleted")
}
