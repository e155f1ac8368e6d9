package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/brunocorregedoria/reforma2/internal/models"
)

// Hub maintains the set of connected activity feed subscribers and fans
// audit events out to all of them.
type Hub struct {
	// Registered subscribers
	clients map[*Client]bool

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Outbound events for all subscribers
	broadcast chan []byte

	// Mutex for thread-safe access to the clients map
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("Activity feed subscriber connected (%d online)", h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full or client dead, drop it
				}
			}
			h.mu.RUnlock()
		}
	}
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// activityEvent is the wire format pushed to subscribers
type activityEvent struct {
	Type string      `json:"type"`
	Log  *models.Log `json:"log"`
}

// BroadcastLog pushes an audit log entry to every connected subscriber.
// Marshalling failures are logged and dropped.
func (h *Hub) BroadcastLog(entry *models.Log) {
	msg, err := json.Marshal(activityEvent{Type: "AUDIT_LOG", Log: entry})
	if err != nil {
		log.Printf("Error marshaling activity event: %v", err)
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		// Hub not running or backlogged, drop the event
	}
}
