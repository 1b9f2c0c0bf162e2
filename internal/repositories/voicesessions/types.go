package voicesessions

import (
	"time"

	"github.com/unitychat/gateway/internal/models"
)

type CreateSessionInput struct {
	Session *models.VoiceSession
}

type CloseOpenSessionsInput struct {
	ChannelID string
	UserID    string
	LeftAt    time.Time
}

type CloseAllForUserInput struct {
	UserID string
	LeftAt time.Time
}

type CloseAllForUserOutput struct {
	// Closed holds the sessions that were open before the cleanup
	Closed []*models.VoiceSession
}

type UpdateFlagsInput struct {
	ChannelID string
	UserID    string
	Muted     bool
	Deafened  bool
}

type GetOpenSessionsInput struct {
	ChannelID string
}
