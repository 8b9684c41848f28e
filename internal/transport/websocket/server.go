package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const (
	writeTimeout   = 10 * time.Second
	maxMessageSize = 4096
	sessionCookie  = "user_session"
)

type gameManager interface {
	MakeTurn(ctx context.Context, row, col int) (*entity.Snapshot, error)
	Undo(ctx context.Context) (*entity.Snapshot, error)
	Reset(ctx context.Context) (*entity.Snapshot, error)
	SwitchMode(ctx context.Context) (*entity.Snapshot, error)
	SetDifficulty(ctx context.Context, level string) (*entity.Snapshot, error)
	State(ctx context.Context) (*entity.Snapshot, error)

	Subscribe() (<-chan entity.Event, func())
}

type handlerFunc func(ctx context.Context, message *Message, conn *connection) error

// connection serializes writes, gorilla connections support one concurrent writer.
type connection struct {
	id string

	conn       *websocket.Conn
	writeMutex sync.Mutex
}

func (that *connection) writeJSON(message *Message) error {
	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	if err := that.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

type Server struct {
	logger      *slog.Logger
	gameManager gameManager
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc

	connectionsMutex sync.RWMutex
	connections      map[string]*connection
}

func New(logger *slog.Logger, gameManager gameManager) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameManager: gameManager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},

		handlers:    make(map[string]handlerFunc),
		connections: make(map[string]*connection),
	}

	server.handlers[actionGameState] = server.handleGameState
	server.handlers[actionGameMove] = server.handleGameMove
	server.handlers[actionGameUndo] = server.handleGameUndo
	server.handlers[actionGameReset] = server.handleGameReset
	server.handlers[actionGameMode] = server.handleGameMode
	server.handlers[actionGameDifficulty] = server.handleGameDifficulty

	return server
}

func (that *Server) Handler(ctx context.Context) http.Handler {
	router := chi.NewRouter()
	router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return router
}

// Start - starts WebSocket server and pushes game events to every connection until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(ctx),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go that.broadcastEvents(ctx)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}

		that.closeConnections()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	header := http.Header{}
	sessionID := that.sessionID(req, header)

	wsConn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	wsConn.SetReadLimit(maxMessageSize)

	conn := &connection{id: uuid.NewString(), conn: wsConn}
	that.addConnection(conn)
	defer that.removeConnection(conn)

	log = log.With("connection", conn.id, "session", sessionID)
	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Info("connection closed", "reason", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages", "connection", conn.id)

	for {
		_, reqBody, err := conn.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)

			if err = that.sendErrorResponse(conn, actionError, "invalid message"); err != nil {
				return err
			}

			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)

			if err = that.sendErrorResponse(conn, message.Action, "unknown action"); err != nil {
				return err
			}

			continue
		}

		if err = handler(ctx, &message, conn); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// sessionID returns the session cookie value, creating one when the client has none.
func (that *Server) sessionID(req *http.Request, header http.Header) string {
	if cookie, err := req.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}

	cookie := &http.Cookie{
		Name:    sessionCookie,
		Value:   uuid.NewString(),
		Expires: time.Now().Add(24 * time.Hour),
		Path:    "/ws",
	}
	header.Add("Set-Cookie", cookie.String())

	return cookie.Value
}

func (that *Server) addConnection(conn *connection) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	that.connections[conn.id] = conn
}

func (that *Server) removeConnection(conn *connection) {
	that.connectionsMutex.Lock()
	delete(that.connections, conn.id)
	that.connectionsMutex.Unlock()

	_ = conn.conn.Close()
}

func (that *Server) closeConnections() {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	for _, conn := range that.connections {
		_ = conn.conn.Close()
	}
}
