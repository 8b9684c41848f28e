package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
)

func (that *Server) handleGameState(ctx context.Context, msg *Message, conn *connection) error {
	game, err := that.gameManager.State(ctx)

	return that.sendGameResponse(conn, msg.Action, game, err)
}

func (that *Server) handleGameMove(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameMove")

	var payloadReq MovePayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		log.Warn("failed to unmarshal payload", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	if payloadReq.Row == nil || payloadReq.Col == nil {
		return that.sendErrorResponse(conn, msg.Action, "row and col are required")
	}

	game, err := that.gameManager.MakeTurn(ctx, *payloadReq.Row, *payloadReq.Col)

	return that.sendGameResponse(conn, msg.Action, game, err)
}

func (that *Server) handleGameUndo(ctx context.Context, msg *Message, conn *connection) error {
	game, err := that.gameManager.Undo(ctx)

	return that.sendGameResponse(conn, msg.Action, game, err)
}

func (that *Server) handleGameReset(ctx context.Context, msg *Message, conn *connection) error {
	game, err := that.gameManager.Reset(ctx)

	return that.sendGameResponse(conn, msg.Action, game, err)
}

func (that *Server) handleGameMode(ctx context.Context, msg *Message, conn *connection) error {
	game, err := that.gameManager.SwitchMode(ctx)

	return that.sendGameResponse(conn, msg.Action, game, err)
}

func (that *Server) handleGameDifficulty(ctx context.Context, msg *Message, conn *connection) error {
	var payloadReq DifficultyPayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	game, err := that.gameManager.SetDifficulty(ctx, payloadReq.Difficulty)

	return that.sendGameResponse(conn, msg.Action, game, err)
}

// broadcastEvents forwards game events to all connections until ctx is done.
func (that *Server) broadcastEvents(ctx context.Context) {
	events, unsubscribe := that.gameManager.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}

			that.broadcast(string(event.Type), ResponsePayload{Game: event.Game, Result: event.Result})
		}
	}
}

func (that *Server) broadcast(action string, payload ResponsePayload) {
	log := that.logger.With("method", "broadcast")

	message, err := newMessage(action, payload)
	if err != nil {
		log.Error("failed to build message", "error", err)
		return
	}

	that.connectionsMutex.RLock()
	connections := make([]*connection, 0, len(that.connections))
	for _, conn := range that.connections {
		connections = append(connections, conn)
	}
	that.connectionsMutex.RUnlock()

	for _, conn := range connections {
		if err = conn.writeJSON(message); err != nil {
			log.Warn("failed to send event", "connection", conn.id, "error", err)
		}
	}
}

func (that *Server) sendGameResponse(conn *connection, action string, game *entity.Snapshot, err error) error {
	payload := ResponsePayload{Game: game}
	if game != nil {
		payload.Result = game.Result
	}

	if err != nil {
		payload.Error = errorMessage(err)

		if payload.Error == internalErrorMessage {
			that.logger.Error("failed to handle action", "action", action, "error", err)
		}
	}

	return that.sendMessage(conn, action, payload)
}

func (that *Server) sendErrorResponse(conn *connection, action, errorMsg string) error {
	return that.sendMessage(conn, action, ResponsePayload{Error: errorMsg})
}

func (that *Server) sendMessage(conn *connection, action string, payload ResponsePayload) error {
	message, err := newMessage(action, payload)
	if err != nil {
		return err
	}

	return conn.writeJSON(message)
}

func newMessage(action string, payload ResponsePayload) (*Message, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return &Message{Action: action, Payload: payloadJSON}, nil
}

const internalErrorMessage = "internal error"

// errorMessage turns game errors into text safe to show to players.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrOutOfBounds):
		return "cell is out of bounds"
	case errors.Is(err, apperror.ErrCellOccupied):
		return "cell is already occupied"
	case errors.Is(err, apperror.ErrEmptyHistory):
		return "nothing to undo"
	case errors.Is(err, apperror.ErrRoundNotActive):
		return "round is over, start a new one"
	case errors.Is(err, apperror.ErrUnknownDifficulty):
		return "unknown difficulty"
	case errors.Is(err, usecase.ErrManagerStopped):
		return "server is shutting down"
	default:
		return internalErrorMessage
	}
}
