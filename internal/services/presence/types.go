package presence

type HandleConnectInput struct {
	// ConnID is the connection that just authenticated
	ConnID string

	UserID   string
	Username string

	// GuildIDs are the guild rooms the connection joined; the online
	// broadcast goes to each of them
	GuildIDs []string
}

type HandleDisconnectInput struct {
	ConnID string

	UserID   string
	Username string

	// GuildIDs are the guild rooms to notify if the user stays gone
	GuildIDs []string
}
