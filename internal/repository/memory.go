package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

type memoryGame struct {
	mu    sync.RWMutex
	games map[string]entity.Snapshot
}

// NewMemoryGameRepository is used when redis is disabled. Events are dropped.
func NewMemoryGameRepository() GameRepository {
	return &memoryGame{
		games: make(map[string]entity.Snapshot),
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, id string, game *entity.Snapshot) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[id] = *game

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Snapshot, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, ok := that.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}

	return &game, nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.games, id)

	return nil
}

func (that *memoryGame) Publish(_ context.Context, _ string, _ *entity.Event) error {
	return nil
}
