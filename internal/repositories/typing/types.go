package typing

import "time"

type AddTyperInput struct {
	ChannelID string
	UserID    string
	TTL       time.Duration
}

type RemoveTyperInput struct {
	ChannelID string
	UserID    string
}

type GetTypersInput struct {
	ChannelID string
}
