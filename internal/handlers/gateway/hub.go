// Package gateway is the websocket layer: it authenticates connections,
// owns the room fanout hub, and routes client events to the coordinators.
package gateway

import (
	"log/slog"
	"sync"

	"github.com/unitychat/gateway/internal/models"
)

// Hub is the fanout dispatcher. It tracks which connections belong to which
// rooms under a single RWMutex, with a forward (room → connections) and a
// reverse (connection → rooms) index so disconnect cleanup stays cheap.
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]*Client
	rooms     map[string]map[string]*Client
	connRooms map[string]map[string]bool

	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:   make(map[string]*Client),
		rooms:     make(map[string]map[string]*Client),
		connRooms: make(map[string]map[string]bool),
		logger:    logger.With(slog.String("component", "hub")),
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	h.connRooms[client.id] = make(map[string]bool)
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("connection registered",
		slog.String("conn_id", client.id),
		slog.String("user_id", client.userID),
		slog.Int("total", total))
}

// Unregister removes a connection from the hub and every room it joined,
// then closes its send channel. Safe to call more than once.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	client, ok := h.clients[connID]
	if !ok {
		h.mu.Unlock()
		return
	}

	for roomName := range h.connRooms[connID] {
		if members, ok := h.rooms[roomName]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(h.rooms, roomName)
			}
		}
	}
	delete(h.connRooms, connID)
	delete(h.clients, connID)
	client.closed = true
	total := len(h.clients)
	h.mu.Unlock()

	close(client.send)

	h.logger.Debug("connection unregistered",
		slog.String("conn_id", connID),
		slog.Int("total", total))
}

// Join adds a connection to a room. Invalid rooms are dropped here so a
// malformed identifier can never materialize as a broadcast group.
func (h *Hub) Join(connID string, room models.Room) {
	if !room.Valid() {
		h.logger.Warn("rejected invalid room join", slog.String("conn_id", connID))
		return
	}

	name := room.String()

	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}

	if h.rooms[name] == nil {
		h.rooms[name] = make(map[string]*Client)
	}
	h.rooms[name][connID] = client
	h.connRooms[connID][name] = true
}

// Leave removes a connection from a room. Leaving a room the connection is
// not in is a no-op.
func (h *Hub) Leave(connID string, room models.Room) {
	if !room.Valid() {
		return
	}

	name := room.String()

	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[name]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, name)
		}
	}
	if rooms, ok := h.connRooms[connID]; ok {
		delete(rooms, name)
	}
}

// Broadcast emits an event to every member of a room, optionally excluding
// one connection. Connections whose send buffers are full are dropped from
// the hub; a stalled reader must not stall the room.
func (h *Hub) Broadcast(room models.Room, event *models.Event, excludeConnID string) {
	if !room.Valid() {
		return
	}

	payload, err := event.Encode()
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("type", event.Type),
			slog.Any("error", err))
		return
	}

	name := room.String()

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[name]))
	for connID, client := range h.rooms[name] {
		if connID == excludeConnID {
			continue
		}
		members = append(members, client)
	}
	h.mu.RUnlock()

	var stalled []*Client
	for _, client := range members {
		if !h.trySend(client, payload) {
			stalled = append(stalled, client)
		}
	}

	for _, client := range stalled {
		h.logger.Warn("dropping stalled connection",
			slog.String("conn_id", client.id),
			slog.String("user_id", client.userID))
		h.Unregister(client.id)
	}
}

// SendTo emits an event to a single connection.
func (h *Hub) SendTo(connID string, event *models.Event) bool {
	payload, err := event.Encode()
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("type", event.Type),
			slog.Any("error", err))
		return false
	}

	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()

	if !ok {
		return false
	}

	return h.trySend(client, payload)
}

// InRoom reports whether a connection is currently a member of a room.
func (h *Hub) InRoom(connID string, room models.Room) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.rooms[room.String()][connID]
	return ok
}

// trySend queues a payload without blocking.
func (h *Hub) trySend(client *Client, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if client.closed {
		return false
	}

	select {
	case client.send <- payload:
		return true
	default:
		return false
	}
}
