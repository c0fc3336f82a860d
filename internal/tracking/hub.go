package tracking

import (
	"context"
	"sort"
	"sync"

	"github.com/rookgm/marketplace/internal/logger"
	"github.com/rookgm/marketplace/internal/metrics"
	"go.uber.org/zap"
)

type delivery struct {
	orderID uint64
	msg     Message
}

// Hub maintains the clients of every order and broadcasts messages to them
type Hub struct {
	rooms      map[uint64]map[*Client]struct{}
	broadcast  chan delivery
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uint64]map[*Client]struct{}),
		broadcast:  make(chan delivery, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// RunWithContext serves the hub until ctx is done, then closes every client.
// Client lifecycle events are handled before broadcasts.
func (h *Hub) RunWithContext(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		default:
		}

		select {
		case c := <-h.Register:
			h.add(c)
			continue
		case c := <-h.Unregister:
			h.remove(c)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case c := <-h.Register:
			h.add(c)
		case c := <-h.Unregister:
			h.remove(c)
		case d := <-h.broadcast:
			h.deliver(d)
		}
	}
}

// join registers client unless the hub has stopped
func (h *Hub) join(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters client unless the hub has stopped
func (h *Hub) leave(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.orderID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.orderID] = room
	}
	room[c] = struct{}{}
	h.mu.Unlock()

	metrics.TrackingClients.Inc()
	logger.Log.Debug("tracking client connected", zap.Uint64("order_id", c.orderID), zap.Uint64("client", c.id))
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

// drop must be called with mu held
func (h *Hub) drop(c *Client) {
	room, ok := h.rooms[c.orderID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}

	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.orderID)
	}
	close(c.send)

	metrics.TrackingClients.Dec()
	logger.Log.Debug("tracking client disconnected", zap.Uint64("order_id", c.orderID), zap.Uint64("client", c.id))
}

// deliver sends message to clients of order in connection order. Clients
// that cannot keep up are dropped.
func (h *Hub) deliver(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.rooms[d.orderID]))
	for c := range h.rooms[d.orderID] {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })

	for _, c := range clients {
		select {
		case c.send <- d.msg:
		default:
			h.drop(c)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, room := range h.rooms {
		for c := range room {
			h.drop(c)
			n++
		}
	}
	logger.Log.Info("tracking hub stopped", zap.Int("clients_closed", n))
}

// Broadcast queues message for every client following order
func (h *Hub) Broadcast(orderID uint64, messageType string, data any) {
	select {
	case h.broadcast <- delivery{orderID: orderID, msg: Message{Type: messageType, Data: data}}:
	default:
		logger.Log.Warn("tracking broadcast channel full, dropping message",
			zap.Uint64("order_id", orderID),
			zap.String("type", messageType))
	}
}

// BroadcastStatus announces order status change
func (h *Hub) BroadcastStatus(orderID uint64, status string, actorID uint64) {
	h.Broadcast(orderID, TypeStatusUpdate, StatusUpdate{OrderID: orderID, Status: status, UpdatedBy: actorID})
}

// ClientCount returns number of clients following order
func (h *Hub) ClientCount(orderID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[orderID])
}
