package models

// PresenceStatus is a user's online/offline status as observed by the gateway
type PresenceStatus string

const (
	PresenceStatusOnline  PresenceStatus = "online"
	PresenceStatusOffline PresenceStatus = "offline"
)

// PresenceUpdate is the payload broadcast to guild rooms when a user's
// presence changes
type PresenceUpdate struct {
	// UserID is the user whose presence changed
	UserID string `json:"user_id"`

	// Username is the user's display name
	Username string `json:"username"`

	// Status is the new presence status
	Status PresenceStatus `json:"status"`

	// Timestamp is when the change was observed, in Unix milliseconds
	Timestamp int64 `json:"timestamp"`
}
