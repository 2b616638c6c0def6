package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub manages WebSocket connections and broadcasts state updates to everyone
// watching a match (players driving it and large-screen spectators alike).
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection // client_id -> connection
	watchers    map[uuid.UUID][]uuid.UUID // match_id -> []client_id
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		watchers:    make(map[uuid.UUID][]uuid.UUID),
		logger:      logger,
	}
}

// RegisterConnection adds a connection for a client.
func (h *Hub) RegisterConnection(clientID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, exists := h.connections[clientID]; exists {
		old.Close()
	}

	h.connections[clientID] = conn
	h.logger.Info().Str("client_id", clientID.String()).Msg("connection registered")
}

// UnregisterConnection removes a connection and all of its match watches.
func (h *Hub) UnregisterConnection(clientID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[clientID]; exists {
		conn.Close()
		delete(h.connections, clientID)
		h.logger.Info().Str("client_id", clientID.String()).Msg("connection unregistered")
	}

	for matchID, clients := range h.watchers {
		for i, id := range clients {
			if id == clientID {
				h.watchers[matchID] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
	}
}

// Watch subscribes a client to a match's broadcasts.
func (h *Hub) Watch(matchID, clientID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.watchers[matchID]
	for _, id := range clients {
		if id == clientID {
			return // already watching
		}
	}
	h.watchers[matchID] = append(clients, clientID)
}

// Unwatch removes a client from a match's broadcasts.
func (h *Hub) Unwatch(matchID, clientID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.watchers[matchID]
	for i, id := range clients {
		if id == clientID {
			h.watchers[matchID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
}

// DropMatch removes every watcher of a finished match.
func (h *Hub) DropMatch(matchID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.watchers, matchID)
}

// BroadcastToMatch sends a message to every client watching a match.
func (h *Hub) BroadcastToMatch(matchID uuid.UUID, msg Message) error {
	h.mu.RLock()
	clients := make([]uuid.UUID, len(h.watchers[matchID]))
	copy(clients, h.watchers[matchID])
	h.mu.RUnlock()

	var firstErr error
	for _, clientID := range clients {
		if err := h.SendToClient(clientID, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SendToClient delivers a message to a specific client.
func (h *Hub) SendToClient(clientID uuid.UUID, msg Message) error {
	h.mu.RLock()
	conn, exists := h.connections[clientID]
	h.mu.RUnlock()

	if !exists {
		return ErrConnectionNotFound
	}

	return conn.Send(msg)
}

// WatcherCount returns how many clients follow a match.
func (h *Hub) WatcherCount(matchID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[matchID])
}

// Connection represents a WebSocket connection with send queue.
type Connection struct {
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, 256),
		logger: logger,
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
	c.conn.Close()
}

// WritePump sends messages from the send queue.
func (c *Connection) WritePump() {
	defer c.conn.Close()

	for msg := range c.sendCh {
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.Warn().Err(err).Msg("write error")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ReadPump receives messages and calls the handler.
func (c *Connection) ReadPump(handler func(Message) error) {
	defer c.conn.Close()

	// Read deadline of 60 seconds, extended on pong.
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			break
		}

		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Msg("message handler error")
		}
	}
}

var (
	ErrConnectionNotFound = &Error{Code: "connection_not_found", Message: "Client connection not found"}
	ErrConnectionClosed   = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull      = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)
