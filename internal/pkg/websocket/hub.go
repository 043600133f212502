// Package websocket pushes server events to connected browsers.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Message types
const (
	TypeNotification = "notification"
	TypeEmpty        = "empty"
)

// Message is one frame sent to clients
type Message struct {
	Type string `json:"type"`

	// Index of Payload within the rotation, Total is the rotation length
	Index int `json:"index"`
	Total int `json:"total"`

	Payload any `json:"payload,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

var errHubStopped = errors.New("websocket hub stopped")

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	broadcast  chan []byte  // Outbound messages for all clients
	register   chan *Client // Register requests from the clients
	unregister chan *Client // Unregister requests from clients

	// closed when Run returns; sends to the channels above give up then
	done chan struct{}

	// guards clients for ClientCount; the Run goroutine is the only writer
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is done, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug().Str("addr", client.addr).Msg("Client registered")

		case client := <-h.unregister:
			h.remove(client)

		case data := <-h.broadcast:
			h.broadcastMessage(data)

		case <-ctx.Done():
			// Shutdown: close every client's send channel
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds client to the hub. It reports false once the hub has
// stopped, in which case the caller owns the connection.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes client. It returns immediately after the hub stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Debug().Str("addr", client.addr).Msg("Client unregistered")
	}
}

func (h *Hub) broadcastMessage(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// slow or gone; drop it
			delete(h.clients, client)
			close(client.send)
			h.logger.Warn().Str("addr", client.addr).Msg("Dropped slow websocket client")
		}
	}
	h.logger.Debug().Int("clientCount", len(h.clients)).Msg("Message broadcasted")
}

// Broadcast queues msg for every connected client.
func (h *Hub) Broadcast(ctx context.Context, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
		return nil
	case <-h.done:
		return errHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
