package guilds

import (
	"time"

	"github.com/unitychat/gateway/internal/models"
)

type GetUserGuildsInput struct {
	UserID string
}

type GetChannelGuildInput struct {
	ChannelID string
}

type IsGuildMemberInput struct {
	GuildID string
	UserID  string
}

type IsDMParticipantInput struct {
	DMChannelID string
	UserID      string
}

type UpdateUserStatusInput struct {
	UserID   string
	Status   models.PresenceStatus
	LastSeen time.Time
}

type GetUsernamesInput struct {
	UserIDs []string
}
