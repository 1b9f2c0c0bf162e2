package presence

import "time"

type SetOnlineInput struct {
	UserID string
	TTL    time.Duration
}

type IsOnlineInput struct {
	UserID string
}

type SetOfflineInput struct {
	UserID string
}
