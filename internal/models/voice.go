package models

import "time"

// VoiceSession represents one user's stay in a voice channel. It is the only
// persisted entity the gateway owns; at most one open session (LeftAt nil) may
// exist per (channel, user) pair.
type VoiceSession struct {
	// ID is the unique identifier for this session
	ID string `bson:"_id"`

	// ChannelID is the voice channel the session belongs to
	ChannelID string `bson:"channel_id"`

	// UserID is the user connected to the channel
	UserID string `bson:"user_id"`

	// JoinedAt is when the user joined the channel
	JoinedAt time.Time `bson:"joined_at"`

	// LeftAt is when the user left; nil while the session is open
	LeftAt *time.Time `bson:"left_at"`

	// Muted indicates the user muted their microphone
	Muted bool `bson:"muted"`

	// Deafened indicates the user muted incoming audio
	Deafened bool `bson:"deafened"`
}

// Open reports whether the session is still active.
func (s *VoiceSession) Open() bool {
	return s.LeftAt == nil
}

// VoiceParticipant is one occupant in a voice.participants payload.
type VoiceParticipant struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Muted    bool   `json:"muted"`
	Deafened bool   `json:"deafened"`
}

// VoiceUserJoined is broadcast to the channel and guild rooms when a user
// joins a voice channel.
type VoiceUserJoined struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	ChannelID string `json:"channel_id"`
	SessionID string `json:"session_id"`
	Muted     bool   `json:"muted"`
	Deafened  bool   `json:"deafened"`
}

// VoiceUserLeft is broadcast to the channel and guild rooms when a user
// leaves a voice channel.
type VoiceUserLeft struct {
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
}

// VoiceStateUpdate is broadcast to the voice room when an occupant changes
// mute/deafen state.
type VoiceStateUpdate struct {
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
	Muted     bool   `json:"muted"`
	Deafened  bool   `json:"deafened"`
}

// VoiceParticipants is sent to a joining connection only, so the new client
// can render existing occupants without racing the join broadcast.
type VoiceParticipants struct {
	ChannelID    string             `json:"channel_id"`
	Participants []VoiceParticipant `json:"participants"`
}
