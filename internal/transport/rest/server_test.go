package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

var errStopped = errors.New("stopped")

type stubGameManager struct {
	game *entity.Snapshot
	err  error
}

func (that *stubGameManager) State(_ context.Context) (*entity.Snapshot, error) {
	return that.game, that.err
}

func newTestServer(manager gameManager) http.Handler {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), manager).Handler()
}

func TestServer_Ping(t *testing.T) {
	// Given: A REST server
	handler := newTestServer(&stubGameManager{})

	// When: Calling /ping
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	// Then: It answers pong
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestServer_Game(t *testing.T) {
	t.Run("Returns the snapshot as JSON", func(t *testing.T) {
		// Given: A game where X won once
		game := &entity.Snapshot{
			Board:      entity.NewBoard().Rows(),
			Turn:       entity.PlayerX,
			Mode:       entity.ModePvAI,
			Difficulty: entity.HardDifficulty,
			Score:      entity.Score{X: 1},
			Remaining:  120,
			Status:     entity.StatusAwaitingMove,
		}
		handler := newTestServer(&stubGameManager{game: game})

		// When: Calling /game
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/game", nil))

		// Then: The snapshot is returned
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var received entity.Snapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &received))
		assert.Equal(t, *game, received)
	})

	t.Run("Returns 503 when the game is unavailable", func(t *testing.T) {
		handler := newTestServer(&stubGameManager{err: errStopped})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/game", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("Rejects other methods", func(t *testing.T) {
		handler := newTestServer(&stubGameManager{})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/game", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
