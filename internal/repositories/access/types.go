package access

import "time"

// Scope distinguishes the resource family a decision applies to.
type Scope string

const (
	// ScopeChannel covers guild channel membership decisions
	ScopeChannel Scope = "channel"

	// ScopeDM covers direct-message participancy decisions
	ScopeDM Scope = "dm"
)

type GetDecisionInput struct {
	UserID     string
	ResourceID string
	Scope      Scope
}

type GetDecisionOutput struct {
	// Allowed is the cached decision; only meaningful when Found is true
	Allowed bool

	// Found reports whether a decision was cached at all
	Found bool
}

type SetDecisionInput struct {
	UserID     string
	ResourceID string
	Scope      Scope
	Allowed    bool
	TTL        time.Duration
}
