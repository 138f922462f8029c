package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"rainier-guide-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	hubModule      = "Hub"
	clusterChannel = "cluster_events"
)

// Message is the envelope written to sockets.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterPayload struct {
	Origin          string          `json:"origin"`
	TargetSessionID string          `json:"target_session_id"`
	Message         json.RawMessage `json:"message"`
}

type Hub struct {
	// Registered clients: session id -> sockets (several tabs may share a session)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance delivery, nil on a single instance
	rdb *redis.Client
	id  string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		id:         uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info(hubModule, "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.SessionID]
			for i, c := range clients {
				if c == client {
					h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
					close(client.Send)
					break
				}
			}
			if len(h.clients[client.SessionID]) == 0 {
				delete(h.clients, client.SessionID)
				h.logger.Info(hubModule, "Session has no open sockets", map[string]interface{}{"session_id": client.SessionID})
			}
			h.mu.Unlock()
		}
	}
}

// Connections reports the local sockets of a session.
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Send delivers msg to every socket of the session, here and on other instances.
func (h *Hub) Send(sessionID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error(hubModule, "Failed to encode message", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliver(sessionID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterPayload{Origin: h.id, TargetSessionID: sessionID, Message: data})
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn(hubModule, "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// deliver never blocks; a full socket buffer drops the message.
func (h *Hub) deliver(sessionID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn(hubModule, "Client send buffer full, dropping message", map[string]interface{}{"session_id": sessionID})
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.handleClusterMessage([]byte(msg.Payload))
	}
}

func (h *Hub) handleClusterMessage(raw []byte) {
	var payload clusterPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.Warn(hubModule, "Redis message parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	// Local sockets already got our own messages.
	if payload.Origin == h.id {
		return
	}
	h.deliver(payload.TargetSessionID, payload.Message)
}
