package notifications

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"cheapbite/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// ThreadHub is a websocket hub keyed by direct-message thread ID. A client
// joins exactly one thread for the lifetime of its connection; live messages
// published to the thread channel fan out to both participants.
type ThreadHub struct {
	mu         sync.RWMutex
	threads    map[string]map[*Client]struct{}
	byClient   map[*Client]string
	totalConns int
}

// NewThreadHub creates a new ThreadHub instance.
func NewThreadHub() *ThreadHub {
	return &ThreadHub{
		threads:  make(map[string]map[*Client]struct{}),
		byClient: make(map[*Client]string),
	}
}

// Name returns a human-readable identifier for this hub.
func (h *ThreadHub) Name() string { return "thread hub" }

// Register attaches a connection to a thread.
func (h *ThreadHub) Register(threadID string, userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.totalConns >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	m, ok := h.threads[threadID]
	if !ok {
		m = make(map[*Client]struct{})
		h.threads[threadID] = m
	}

	client := NewClient(h, conn, userID)
	m[client] = struct{}{}
	h.byClient[client] = threadID
	h.totalConns++
	observability.WebSocketConnectionsTotal.Inc()
	observability.WebSocketEventsTotal.WithLabelValues("thread_connect").Inc()

	return client, nil
}

// UnregisterClient removes the client from its thread.
func (h *ThreadHub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	threadID, ok := h.byClient[client]
	if !ok {
		return
	}
	delete(h.byClient, client)

	if m, exists := h.threads[threadID]; exists {
		delete(m, client)
		if len(m) == 0 {
			delete(h.threads, threadID)
		}
	}
	h.totalConns--
	observability.WebSocketConnectionsTotal.Dec()
	observability.WebSocketEventsTotal.WithLabelValues("thread_disconnect").Inc()
}

// BroadcastThread sends message to every connection on the thread.
func (h *ThreadHub) BroadcastThread(threadID, message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.threads[threadID]; ok {
		data := []byte(message)
		for c := range clients {
			c.TrySend(data)
		}
	}
}

// StartWiring subscribes the hub to the thread channel pattern.
func (h *ThreadHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartThreadSubscriber(ctx, func(channel, payload string) {
		threadID, ok := strings.CutPrefix(channel, "chat:thread:")
		if !ok || threadID == "" {
			log.Printf("invalid thread channel: %s", channel)
			return
		}
		h.BroadcastThread(threadID, payload)
	})
}

// Shutdown closes all thread connections.
func (h *ThreadHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.threads {
		for client := range clients {
			if client.Conn == nil {
				continue
			}
			_ = client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down"))
			_ = client.Conn.Close()
		}
	}
	h.threads = make(map[string]map[*Client]struct{})
	h.byClient = make(map[*Client]string)
	h.totalConns = 0
	return nil
}
