package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Snapshot builds the message describing the state at now.
type Snapshot func(ctx context.Context, now time.Time) (*Message, error)

// Handler upgrades browsers to the feed and sends them the current state
// right away.
type Handler struct {
	hub      *Hub
	snapshot Snapshot
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, snapshot Snapshot, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		snapshot: snapshot,
		logger:   logger,
	}
}

// HandleConnection godoc
// @Summary Notification rotation feed
// @Description Upgrades to a WebSocket that receives the displayed notification every rotation interval
// @Tags notifications, websocket
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Router /ws/notifications [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 16),
		addr:   conn.RemoteAddr().String(),
		logger: h.logger,
	}

	if msg, err := h.snapshot(c.Request.Context(), time.Now()); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to build initial notification message")
	} else if data, err := json.Marshal(msg); err == nil {
		client.send <- data
	}

	if !client.hub.Register(client) {
		h.logger.Debug().Str("addr", client.addr).Msg("Feed stopped, closing new connection")
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// Rotate broadcasts a fresh snapshot every interval until ctx is done.
// Ticks with no connected clients skip the store read.
func (h *Handler) Rotate(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if h.hub.ClientCount() == 0 {
				continue
			}
			msg, err := h.snapshot(ctx, now)
			if err != nil {
				h.logger.Warn().Err(err).Msg("Skipping notification rotation tick")
				continue
			}
			if err := h.hub.Broadcast(ctx, msg); err != nil && ctx.Err() == nil {
				h.logger.Error().Err(err).Msg("Failed to broadcast notification message")
			}
		}
	}
}
