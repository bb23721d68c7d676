// Package realtime pushes session notices to connected browsers over websockets.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sideby/teachconnect/internal/usecase/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 8
)

type client struct {
	conn      *websocket.Conn
	send      chan []byte
	userID    uuid.UUID
	sessionID uuid.UUID
}

// Hub tracks open connections per user.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu      sync.Mutex
	clients map[uuid.UUID]map[*client]struct{}
}

// NewHub accepts connections from allowedOrigins; "*" accepts any origin.
func NewHub(allowedOrigins []string, logger *zap.Logger) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
		logger:  logger,
		clients: make(map[uuid.UUID]map[*client]struct{}),
	}
}

// Serve upgrades the request and blocks until the connection closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID, sessionID uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		userID:    userID,
		sessionID: sessionID,
	}
	h.register(c)
	go h.writePump(c)
	h.readPump(c)
	return nil
}

// Notify sends notice to the user's clients for sessionID (all sessions when
// sessionID is uuid.Nil) and then closes those connections.
// It implements session.Notifier.
func (h *Hub) Notify(userID, sessionID uuid.UUID, notice session.Notice) int {
	payload, err := json.Marshal(notice)
	if err != nil {
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for c := range h.clients[userID] {
		if sessionID != uuid.Nil && c.sessionID != sessionID {
			continue
		}
		select {
		case c.send <- payload:
			delivered++
		default:
			if h.logger != nil {
				h.logger.Warn("dropping notice for slow client", zap.String("user_id", userID.String()))
			}
		}
		h.removeLocked(c)
	}
	return delivered
}

// Connections counts open connections of a user.
func (h *Hub) Connections(userID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked drops c and closes its send channel. h.mu must be held.
func (h *Hub) removeLocked(c *client) {
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
	close(c.send)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && h.logger != nil {
				h.logger.Debug("websocket closed", zap.String("user_id", c.userID.String()), zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
