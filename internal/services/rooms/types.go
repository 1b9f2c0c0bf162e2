package rooms

type BootstrapConnectionInput struct {
	ConnID string
	UserID string
}

type BootstrapConnectionOutput struct {
	// GuildIDs are the guild rooms the connection joined; empty in degraded
	// mode when guild resolution failed
	GuildIDs []string
}

type JoinChannelInput struct {
	ConnID    string
	UserID    string
	ChannelID string
}

type LeaveChannelInput struct {
	ConnID    string
	ChannelID string
}

type JoinDMInput struct {
	ConnID      string
	UserID      string
	DMChannelID string
}

type LeaveDMInput struct {
	ConnID      string
	DMChannelID string
}

type JoinGuildInput struct {
	ConnID  string
	UserID  string
	GuildID string
}

type LeaveGuildInput struct {
	ConnID  string
	GuildID string
}
