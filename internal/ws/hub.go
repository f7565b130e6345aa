package ws

import (
	"context"
	"sync"

	"job-portal/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type userMessage struct {
	userID  uuid.UUID
	payload []byte
}

// Hub tracks open sessions per user and fans messages out to them. All map
// mutations happen on the Run goroutine.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	direct     chan userMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		direct:     make(chan userMessage, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		log:        log.With(zap.String("component", "ws_hub")),
	}
}

// Run serves the hub until ctx ends, then closes every session. It must be
// called at most once.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.userID] = set
			}
			set[client] = true
			h.mutex.Unlock()
			metrics.WSConnections.Inc()
			h.log.Debug("ws connected", zap.String("user_id", client.userID.String()), zap.Int("user_sessions", len(set)))

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.direct:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.clients[msg.userID]))
			for c := range h.clients[msg.userID] {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- msg.payload:
				default:
					// slow consumer; drop the session rather than block the hub
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set, ok := h.clients[client.userID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
	close(client.send)
	metrics.WSConnections.Dec()
	h.log.Debug("ws disconnected", zap.String("user_id", client.userID.String()))
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for userID, set := range h.clients {
		for c := range set {
			close(c.send)
			metrics.WSConnections.Dec()
		}
		delete(h.clients, userID)
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendToUser queues payload for every open session of userID. It never
// blocks; when the hub is saturated the message is dropped.
func (h *Hub) SendToUser(userID uuid.UUID, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.direct <- userMessage{userID: userID, payload: payload}:
	default:
		h.log.Warn("ws message dropped, buffer full", zap.String("user_id", userID.String()))
	}
}

func (h *Hub) SessionCount(userID uuid.UUID) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	total := 0
	for _, set := range h.clients {
		total += len(set)
	}
	return total
}
