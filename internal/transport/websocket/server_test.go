package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

type mockGameManager struct {
	mock.Mock
}

func (that *mockGameManager) MakeTurn(ctx context.Context, row, col int) (*entity.Snapshot, error) {
	args := that.Called(ctx, row, col)
	return args.Get(0).(*entity.Snapshot), args.Error(1)
}

func (that *mockGameManager) Undo(ctx context.Context) (*entity.Snapshot, error) {
	args := that.Called(ctx)
	return args.Get(0).(*entity.Snapshot), args.Error(1)
}

func (that *mockGameManager) Reset(ctx context.Context) (*entity.Snapshot, error) {
	args := that.Called(ctx)
	return args.Get(0).(*entity.Snapshot), args.Error(1)
}

func (that *mockGameManager) SwitchMode(ctx context.Context) (*entity.Snapshot, error) {
	args := that.Called(ctx)
	return args.Get(0).(*entity.Snapshot), args.Error(1)
}

func (that *mockGameManager) SetDifficulty(ctx context.Context, level string) (*entity.Snapshot, error) {
	args := that.Called(ctx, level)
	return args.Get(0).(*entity.Snapshot), args.Error(1)
}

func (that *mockGameManager) State(ctx context.Context) (*entity.Snapshot, error) {
	args := that.Called(ctx)
	return args.Get(0).(*entity.Snapshot), args.Error(1)
}

func (that *mockGameManager) Subscribe() (<-chan entity.Event, func()) {
	args := that.Called()
	return args.Get(0).(<-chan entity.Event), args.Get(1).(func())
}

func newGame(turn entity.Mark) *entity.Snapshot {
	return &entity.Snapshot{
		Board:      entity.NewBoard().Rows(),
		Turn:       turn,
		Mode:       entity.ModePvP,
		Difficulty: entity.EasyDifficulty,
		Remaining:  360,
		Status:     entity.StatusAwaitingMove,
	}
}

func startServer(t *testing.T, manager *mockGameManager) (*Server, *websocket.Conn) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := New(slog.New(slog.NewTextHandler(io.Discard, nil)), manager)
	httpServer := httptest.NewServer(server.Handler(ctx))
	t.Cleanup(httpServer.Close)

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	assert.NotEmpty(t, resp.Cookies())

	return server, conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload any) {
	t.Helper()

	message := map[string]any{"action": action}
	if payload != nil {
		message["payload"] = payload
	}

	require.NoError(t, conn.WriteJSON(message))
}

func receive(t *testing.T, conn *websocket.Conn) (string, ResponsePayload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var message Message
	require.NoError(t, conn.ReadJSON(&message))

	var payload ResponsePayload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))

	return message.Action, payload
}

func TestServer_HandleGameMove(t *testing.T) {
	t.Run("Forwards the move and replies with the game", func(t *testing.T) {
		// Given: A manager that accepts the move
		manager := &mockGameManager{}
		game := newGame(entity.PlayerO)
		game.Board[2][5] = entity.PlayerX
		manager.On("MakeTurn", mock.Anything, 2, 5).Return(game, nil).Once()
		_, conn := startServer(t, manager)

		// When: The client plays (2,5)
		send(t, conn, "game:move", map[string]int{"row": 2, "col": 5})

		// Then: The reply carries the new game
		action, payload := receive(t, conn)
		assert.Equal(t, "game:move", action)
		assert.Empty(t, payload.Error)
		require.NotNil(t, payload.Game)
		assert.Equal(t, game, payload.Game)
		manager.AssertExpectations(t)
	})

	t.Run("Reports game errors as readable text", func(t *testing.T) {
		// Given: A manager refusing the move
		manager := &mockGameManager{}
		manager.On("MakeTurn", mock.Anything, 0, 0).Return(newGame(entity.PlayerO), apperror.ErrCellOccupied).Once()
		_, conn := startServer(t, manager)

		// When: The client plays an occupied cell
		send(t, conn, "game:move", map[string]int{"row": 0, "col": 0})

		// Then: The reply has the error and the current game
		_, payload := receive(t, conn)
		assert.Equal(t, "cell is already occupied", payload.Error)
		assert.NotNil(t, payload.Game)
	})

	t.Run("Requires row and col", func(t *testing.T) {
		// Given: A server
		manager := &mockGameManager{}
		_, conn := startServer(t, manager)

		// When: The client omits col
		send(t, conn, "game:move", map[string]int{"row": 1})

		// Then: The manager is not called
		_, payload := receive(t, conn)
		assert.Equal(t, "row and col are required", payload.Error)
		manager.AssertNotCalled(t, "MakeTurn", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestServer_Actions(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		payload any
		method  string
		args    []any
	}{
		{name: "state", action: "game:state", method: "State", args: []any{mock.Anything}},
		{name: "undo", action: "game:undo", method: "Undo", args: []any{mock.Anything}},
		{name: "reset", action: "game:reset", method: "Reset", args: []any{mock.Anything}},
		{name: "mode", action: "game:mode", method: "SwitchMode", args: []any{mock.Anything}},
		{
			name:    "difficulty",
			action:  "game:difficulty",
			payload: map[string]string{"difficulty": "hard"},
			method:  "SetDifficulty",
			args:    []any{mock.Anything, "hard"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: A manager expecting the call
			manager := &mockGameManager{}
			game := newGame(entity.PlayerX)
			manager.On(tt.method, tt.args...).Return(game, nil).Once()
			_, conn := startServer(t, manager)

			// When: The client sends the action
			send(t, conn, tt.action, tt.payload)

			// Then: The reply echoes the action with the game
			action, payload := receive(t, conn)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, game, payload.Game)
			manager.AssertExpectations(t)
		})
	}
}

func TestServer_UnknownAction(t *testing.T) {
	_, conn := startServer(t, &mockGameManager{})

	send(t, conn, "game:teleport", nil)

	action, payload := receive(t, conn)
	assert.Equal(t, "game:teleport", action)
	assert.Equal(t, "unknown action", payload.Error)
}

func TestServer_BroadcastEvents(t *testing.T) {
	// Given: A connected client and a manager event stream
	events := make(chan entity.Event, 1)
	manager := &mockGameManager{}
	manager.On("Subscribe").Return((<-chan entity.Event)(events), func() {}).Once()
	manager.On("State", mock.Anything).Return(newGame(entity.PlayerX), nil).Once()
	server, conn := startServer(t, manager)

	// The state round trip guarantees the connection is registered.
	send(t, conn, "game:state", nil)
	receive(t, conn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.broadcastEvents(ctx)

	// When: The round ends on timeout
	game := newGame(entity.PlayerX)
	game.Status = entity.StatusRoundOver
	result := &entity.RoundResult{Reason: entity.ReasonTimeout}
	events <- entity.Event{Type: entity.EventRoundOver, Game: game, Result: result}

	// Then: The client receives the event
	action, payload := receive(t, conn)
	assert.Equal(t, "game:over", action)
	assert.Equal(t, result, payload.Result)
	assert.True(t, payload.Game.IsRoundOver())
}
