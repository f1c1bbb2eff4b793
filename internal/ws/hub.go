package ws

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"match-service/internal/models"
	"match-service/internal/observability"
)

// Client wraps one websocket connection. The mutex serializes writes since
// gorilla connections allow only one concurrent writer.
type Client struct {
	conn *websocket.Conn
	info ConnInfo
	done chan struct{}
	mu   sync.Mutex
}

// NewClient wraps a connection for hub registration. The done channel is
// closed when the read loop exits and stops the connection's helper
// goroutines.
func NewClient(conn *websocket.Conn, info ConnInfo) *Client {
	return &Client{conn: conn, info: info, done: make(chan struct{})}
}

// Info returns the connection metadata captured at handshake.
func (c *Client) Info() ConnInfo {
	return c.info
}

// Send writes one event to the connection.
func (c *Client) Send(event models.WSEvent) error {
	if c.conn == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(event)
}

// Hub maintains the per-user delivery rooms. Every connection a user holds
// joins that user's room, so one event reaches all of their devices.
type Hub struct {
	rooms map[int]map[*Client]bool
	mu    sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[int]map[*Client]bool)}
}

// Add registers a client in the user's room.
func (h *Hub) Add(userID int, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[userID]; !ok {
		h.rooms[userID] = make(map[*Client]bool)
	}
	h.rooms[userID][client] = true
}

// Remove drops a client from the user's room, deleting the room when empty.
func (h *Hub) Remove(userID int, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.rooms[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, userID)
		}
	}
}

// IsOnline reports whether the user has at least one live connection.
func (h *Hub) IsOnline(userID int) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID]) > 0
}

// EmitToUser sends an event to every connection in the user's room and
// reports whether anything was delivered. Dead connections are evicted.
func (h *Hub) EmitToUser(userID int, event models.WSEvent) bool {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[userID]))
	for client := range h.rooms[userID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	delivered := false
	for _, client := range clients {
		if err := client.Send(event); err != nil {
			log.Printf("websocket write error: %v", err)
			client.conn.Close()
			h.Remove(userID, client)
			continue
		}
		delivered = true
	}
	return delivered
}

// Broadcast sends an event to every connected user.
func (h *Hub) Broadcast(event models.WSEvent) {
	h.mu.RLock()
	userIDs := make([]int, 0, len(h.rooms))
	for userID := range h.rooms {
		userIDs = append(userIDs, userID)
	}
	h.mu.RUnlock()

	for _, userID := range userIDs {
		h.EmitToUser(userID, event)
	}
	observability.IncWSEvent("broadcast")
}
