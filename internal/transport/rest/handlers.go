package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	GameHandler(w http.ResponseWriter, r *http.Request)
}

type handlers struct {
	logger      *slog.Logger
	gameManager gameManager
}

func NewHandlers(logger *slog.Logger, gameManager gameManager) Handlers {
	return &handlers{
		logger:      logger,
		gameManager: gameManager,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// GameHandler returns the current game snapshot.
func (that *handlers) GameHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GameHandler")

	game, err := that.gameManager.State(r.Context())
	if err != nil {
		log.Error("failed to get game state", "error", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(game); err != nil {
		log.Error("failed to encode game", "error", err)
	}
}
