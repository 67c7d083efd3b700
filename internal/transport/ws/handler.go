package ws

import (
	"classpulse/internal/model"
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// SnapshotSource provides the state a new viewer starts from
type SnapshotSource interface {
	Snapshot(ctx context.Context) *model.Snapshot
}

// TokenValidator checks an optional lecturer token
type TokenValidator interface {
	ValidateLecturerToken(token string) (*model.LecturerClaims, error)
}

// Handler handles WebSocket connections
type Handler struct {
	hub    *Hub
	source SnapshotSource
	auth   TokenValidator
	logger *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, source SnapshotSource, auth TokenValidator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		hub:    hub,
		source: source,
		auth:   auth,
		logger: logger,
	}
}

// Serve handles GET /v1/ws. The current snapshot is sent first, then a
// render message after every state change. A bad ?token= gets an error
// frame and a policy-violation close, which browsers can read.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	if token := r.URL.Query().Get("token"); token != "" {
		if _, err := h.auth.ValidateLecturerToken(token); err != nil {
			h.reject(wsConn, "invalid or expired token")
			return
		}
	}

	conn := &Connection{
		ID:   uuid.NewString(),
		Send: make(chan []byte, sendBuffer),
	}
	if data, err := Encode(MsgRender, h.source.Snapshot(r.Context())); err == nil {
		conn.Send <- data
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

// reject sends an error frame, then closes the connection
func (h *Handler) reject(wsConn *websocket.Conn, reason string) {
	defer wsConn.Close()

	wsConn.SetWriteDeadline(time.Now().Add(writeWait))
	if data, err := Encode(MsgError, map[string]string{"error": reason}); err == nil {
		if err := wsConn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	wsConn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason))
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := wsConn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Info("websocket closed", zap.String("conn", conn.ID), zap.Error(err))
			}
			return
		}
		// Actions go through REST; inbound frames only keep the connection alive
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wsConn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
