package sse

import (
	"encoding/json"
	"sync"
)

// Event is a single push notification sent to connected clients
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client is one connected SSE consumer
type Client struct {
	ID      string
	Channel chan Event
}

// Hub tracks connected clients and fans events out to all of them.
// Delivery is best effort: a client whose buffer is full misses the event.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

// NewHub creates a Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
}

// Unregister removes a client and closes its channel
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Channel)
	}
}

// Broadcast sends an event to every connected client
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.Channel <- event:
		default:
			// client buffer full, skip
		}
	}
}

// Emit is a convenience wrapper used as the notification contract by
// the domain layer: fire-and-forget, no acknowledgment, no ordering.
func (h *Hub) Emit(eventType string, payload interface{}) {
	h.Broadcast(Event{Type: eventType, Data: payload})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSE renders the event in text/event-stream wire format
func (e Event) FormatSSE() string {
	data, _ := json.Marshal(e.Data)
	return "event: " + e.Type + "\ndata: " + string(data) + "\n\n"
}
