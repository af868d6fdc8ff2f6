package notification

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is the JSON payload pushed to operator connections. Always carries a
// "type" field; the rest depends on the event.
type Event map[string]interface{}

// Conn is the subset of *websocket.Conn the hub needs, so tests can observe
// deliveries without a real socket.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub is the process-wide registry of live operator connections, keyed by
// restaurant. Join, leave and broadcast run concurrently from independent
// request workers, so every access goes through the mutex.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[Conn]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]map[Conn]bool)}
}

// Subscribe adds a connection to the restaurant's room. The caller must have
// verified the connection belongs to an operator of that restaurant.
func (h *Hub) Subscribe(restaurantID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[restaurantID]
	if !ok {
		room = make(map[Conn]bool)
		h.rooms[restaurantID] = room
	}
	room[conn] = true
}

// Unsubscribe removes a dead or closing connection.
func (h *Hub) Unsubscribe(restaurantID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[restaurantID]
	if !ok {
		return
	}
	delete(room, conn)
	if len(room) == 0 {
		delete(h.rooms, restaurantID)
	}
}

// Publish delivers the event to every connection subscribed to the
// restaurant, and to that restaurant only. Delivery is best-effort: a failed
// write drops the connection, there is no retry and no persistence.
func (h *Hub) Publish(restaurantID uint, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	conns := make([]Conn, 0, len(h.rooms[restaurantID]))
	for conn := range h.rooms[restaurantID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Unsubscribe(restaurantID, conn)
			conn.Close()
		}
	}
}

// Subscribers reports how many live connections a restaurant has.
func (h *Hub) Subscribers(restaurantID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[restaurantID])
}
