package models

import "encoding/json"

// Event type strings shared by the wire protocol and the fanout layer.
const (
	EventChannelJoined     = "channel.joined"
	EventDMJoined          = "dm.joined"
	EventError             = "error"
	EventPresenceUpdate    = "presence.update"
	EventTypingStart       = "typing.start"
	EventTypingStop        = "typing.stop"
	EventVoiceUserJoined   = "voice.user_joined"
	EventVoiceUserLeft     = "voice.user_left"
	EventVoiceState        = "voice.state_update"
	EventVoiceParticipants = "voice.participants"
)

// Machine-readable error codes delivered in error events.
const (
	ErrorCodeNoAccess   = "NO_ACCESS"
	ErrorCodeJoinError  = "JOIN_ERROR"
	ErrorCodeBadRequest = "BAD_REQUEST"
)

// Event is the outbound envelope written to clients.
type Event struct {
	// Type is the event name, e.g. "presence.update"
	Type string `json:"type"`

	// Data is the event payload
	Data any `json:"data"`
}

// NewEvent wraps a payload in an envelope.
func NewEvent(eventType string, data any) *Event {
	return &Event{Type: eventType, Data: data}
}

// Encode marshals the event for the wire.
func (e *Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// ErrorEvent is the payload of an "error" event.
type ErrorEvent struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// TypingEvent is the payload of relayed typing.start / typing.stop events.
type TypingEvent struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	ChannelID string `json:"channel_id"`
}

// ChannelJoined acknowledges a granted channel.join.
type ChannelJoined struct {
	ChannelID string `json:"channel_id"`
}

// DMJoined acknowledges a granted dm.join.
type DMJoined struct {
	DMChannelID string `json:"dm_channel_id"`
}
