package membership

import "time"

type GetGuildsInput struct {
	UserID string
}

type GetGuildsOutput struct {
	// GuildIDs is the cached set; only meaningful when Found is true
	GuildIDs []string

	// Found reports whether the user had a cached entry
	Found bool
}

type SetGuildsInput struct {
	UserID   string
	GuildIDs []string
	TTL      time.Duration
}

type InvalidateGuildsInput struct {
	UserID string
}
