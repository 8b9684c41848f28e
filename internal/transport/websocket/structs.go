package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const (
	actionGameState      = "game:state"
	actionGameMove       = "game:move"
	actionGameUndo       = "game:undo"
	actionGameReset      = "game:reset"
	actionGameMode       = "game:mode"
	actionGameDifficulty = "game:difficulty"
	actionError          = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type MovePayload struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type DifficultyPayload struct {
	Difficulty string `json:"difficulty"`
}

type ResponsePayload struct {
	Game   *entity.Snapshot    `json:"game,omitempty"`
	Result *entity.RoundResult `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}
