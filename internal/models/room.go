package models

import "fmt"

// RoomKind identifies one of the closed set of broadcast room families.
type RoomKind string

const (
	RoomKindUser    RoomKind = "user"
	RoomKindGuild   RoomKind = "guild"
	RoomKindChannel RoomKind = "channel"
	RoomKindDM      RoomKind = "dm"
	RoomKindVoice   RoomKind = "voice"
)

// Room is a typed room identifier. Building rooms through the constructors
// below keeps malformed client input from ever reaching the fanout layer as a
// room name.
type Room struct {
	// Kind is the room family (user, guild, channel, dm, voice)
	Kind RoomKind

	// ID is the identifier of the entity the room belongs to
	ID string
}

// UserRoom is the personal room every connection joins at handshake time.
func UserRoom(userID string) Room {
	return Room{Kind: RoomKindUser, ID: userID}
}

// GuildRoom carries presence and voice sidebar events for a guild.
func GuildRoom(guildID string) Room {
	return Room{Kind: RoomKindGuild, ID: guildID}
}

// ChannelRoom carries typing indicators and message events for a text channel.
func ChannelRoom(channelID string) Room {
	return Room{Kind: RoomKindChannel, ID: channelID}
}

// DMRoom carries events for a direct-message channel.
func DMRoom(dmChannelID string) Room {
	return Room{Kind: RoomKindDM, ID: dmChannelID}
}

// VoiceRoom carries occupancy and state events for a voice channel.
func VoiceRoom(channelID string) Room {
	return Room{Kind: RoomKindVoice, ID: channelID}
}

// Valid reports whether the room has a known kind and a non-empty ID.
func (r Room) Valid() bool {
	if r.ID == "" {
		return false
	}

	switch r.Kind {
	case RoomKindUser, RoomKindGuild, RoomKindChannel, RoomKindDM, RoomKindVoice:
		return true
	default:
		return false
	}
}

// String renders the canonical room name, e.g. "guild:42".
func (r Room) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}
