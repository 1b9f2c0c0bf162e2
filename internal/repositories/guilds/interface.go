package guilds

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/unitychat/gateway/internal/repositories/guilds Repository

import (
	"context"
)

// Repository is the gateway's narrow view of the relational store: membership
// and ownership lookups plus the user status writeback. The CRUD surface that
// maintains these collections lives outside the gateway.
type Repository interface {
	// GetUserGuilds returns the guild ids the user is a member of
	GetUserGuilds(ctx context.Context, input *GetUserGuildsInput) ([]string, error)

	// GetChannelGuild returns the guild that owns a channel
	GetChannelGuild(ctx context.Context, input *GetChannelGuildInput) (string, error)

	// IsGuildMember reports whether the user belongs to a guild
	IsGuildMember(ctx context.Context, input *IsGuildMemberInput) (bool, error)

	// IsDMParticipant reports whether the user participates in a DM channel
	IsDMParticipant(ctx context.Context, input *IsDMParticipantInput) (bool, error)

	// UpdateUserStatus persists a user's status and last-seen timestamp
	UpdateUserStatus(ctx context.Context, input *UpdateUserStatusInput) error

	// GetUsernames resolves display names for a set of user ids
	GetUsernames(ctx context.Context, input *GetUsernamesInput) (map[string]string, error)
}
