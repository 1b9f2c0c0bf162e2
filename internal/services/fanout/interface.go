// Package fanout defines the dispatcher contract every coordinator emits
// through. The websocket hub is the production implementation; tests use
// in-package recorders.
package fanout

//go:generate mockgen -package=mocks -destination=mocks/mock_dispatcher.go github.com/unitychat/gateway/internal/services/fanout Dispatcher

import (
	"github.com/unitychat/gateway/internal/models"
)

// Dispatcher delivers events to rooms and individual connections. Join and
// Leave are idempotent; Broadcast with an empty excludeConnID reaches every
// member of the room.
type Dispatcher interface {
	// Join adds a connection to a room
	Join(connID string, room models.Room)

	// Leave removes a connection from a room
	Leave(connID string, room models.Room)

	// Broadcast emits an event to every connection in a room, optionally
	// excluding one (typically the sender)
	Broadcast(room models.Room, event *models.Event, excludeConnID string)

	// SendTo emits an event to a single connection; the return value reports
	// whether the connection was still registered
	SendTo(connID string, event *models.Event) bool
}
