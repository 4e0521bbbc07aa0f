package wshub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"mindbloom/internal/analytics"
	"mindbloom/internal/events"
	"mindbloom/internal/logger"

	"github.com/coder/websocket"
)

const writeTimeout = 5 * time.Second

// ServerMessage is the JSON structure sent to clients.
type ServerMessage struct {
	Type     string                    `json:"t"`
	UserID   string                    `json:"userId"`
	Progress *analytics.CachedProgress `json:"progress,omitempty"`
}

// Client is one WebSocket connection watching a user's progress.
type Client struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// Hub tracks WebSocket clients per user.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[string]*Client
	log     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{
		clients: make(map[string]map[string]*Client),
		log:     log.With("service", "WSHub"),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	byID, ok := h.clients[c.UserID]
	if !ok {
		byID = make(map[string]*Client)
		h.clients[c.UserID] = byID
	}
	byID[c.ID] = c
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	byID, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := byID[c.ID]; !ok {
		return
	}
	close(c.Send)
	delete(byID, c.ID)
	if len(byID) == 0 {
		delete(h.clients, c.UserID)
	}
}

// Count returns the number of connections open for userID.
func (h *Hub) Count(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// SendToUser delivers msg to every connection of userID. Non-blocking: drops if channel full.
func (h *Hub) SendToUser(userID string, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal message", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients[userID] {
		select {
		case c.Send <- data:
		default:
			h.log.Debug("dropping message for slow client", "user_id", userID, "client_id", c.ID)
		}
	}
}

// Run forwards progress events from the bus until ctx is done.
func (h *Hub) Run(ctx context.Context, bus *events.Bus) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-bus.ProgressUpdates:
			progress := ev.Progress
			h.SendToUser(ev.UserID, ServerMessage{
				Type:     "progress",
				UserID:   ev.UserID,
				Progress: &progress,
			})
		}
	}
}
