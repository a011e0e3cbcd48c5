package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"ai-forge-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// clusterChannel carries updates between instances sharing one Redis
const clusterChannel = "workspace_events"

type clusterMessage struct {
	Origin      string          `json:"origin"`
	WorkspaceID string          `json:"workspace_id"`
	Version     uint64          `json:"version"`
	Message     json.RawMessage `json:"message"`
}

type Hub struct {
	// Registered clients: WorkspaceID -> every tab watching it
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// Optional Redis connection for cross-instance fan-out
	rdb *redis.Client

	// instanceID lets an instance ignore its own Redis echoes
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Clustered reports whether updates also travel between instances, so a
// workspace owned by another instance can still be watched from this one.
func (h *Hub) Clustered() bool {
	return h.rdb != nil
}

// Run serves register/unregister requests until ctx ends
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.WorkspaceID] = append(h.clients[client.WorkspaceID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"workspace_id": client.WorkspaceID.String()})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.WorkspaceID]
	for i, c := range clients {
		if c == client {
			h.clients[client.WorkspaceID] = append(clients[:i:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.WorkspaceID]) == 0 {
		delete(h.clients, client.WorkspaceID)
		h.logger.Info("Hub", "Workspace has no more clients", map[string]interface{}{"workspace_id": client.WorkspaceID.String()})
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
		}
		delete(h.clients, id)
	}
}

// join and leave give up once Run has stopped
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount reports how many connections watch a workspace
func (h *Hub) ClientCount(workspaceID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[workspaceID])
}

// Send delivers data to every local client of the workspace and, when Redis
// is configured, to the other instances. Updates may be handed over out of
// order; a client never receives a version older than one it already has.
func (h *Hub) Send(workspaceID uuid.UUID, version uint64, data []byte) {
	h.deliverLocal(workspaceID, version, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{
			Origin:      h.instanceID,
			WorkspaceID: workspaceID.String(),
			Version:     version,
			Message:     data,
		})
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) deliverLocal(workspaceID uuid.UUID, version uint64, data []byte) {
	// exclusive lock: the per-client version is written here
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients[workspaceID] {
		if version <= client.version {
			h.logger.Debug("Hub", "Stale update skipped", map[string]interface{}{
				"workspace_id": workspaceID.String(),
				"version":      version,
				"current":      client.version,
			})
			continue
		}
		select {
		case client.Send <- data:
			client.version = version
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping client", map[string]interface{}{"workspace_id": workspaceID.String()})
			// Run owns the map; hand the removal over without holding the lock
			go h.leave(client)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleClusterMessage(msg.Payload)
		}
	}
}

// handleClusterMessage delivers an update published by another instance
func (h *Hub) handleClusterMessage(raw string) {
	var payload clusterMessage
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	if payload.Origin == h.instanceID {
		return
	}
	id, err := uuid.Parse(payload.WorkspaceID)
	if err != nil {
		h.logger.Warn("Hub", "Redis message has invalid workspace id", map[string]interface{}{"workspace_id": payload.WorkspaceID})
		return
	}
	h.deliverLocal(id, payload.Version, payload.Message)
}
