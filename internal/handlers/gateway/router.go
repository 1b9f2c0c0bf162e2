package gateway

import (
	"context"
	"log/slog"

	"github.com/tidwall/gjson"

	"github.com/unitychat/gateway/internal/models"
	roomsService "github.com/unitychat/gateway/internal/services/rooms"
	typingService "github.com/unitychat/gateway/internal/services/typing"
	voiceService "github.com/unitychat/gateway/internal/services/voice"
)

// Inbound event types.
const (
	eventChannelJoin  = "channel.join"
	eventChannelLeave = "channel.leave"
	eventDMJoin      = "dm.join"
	eventDMLeave     = "dm.leave"
	eventGuildJoin   = "guild.join"
	eventGuildLeave  = "guild.leave"
	eventTypingStart = "typing.start"
	eventTypingStop  = "typing.stop"
	eventVoiceJoin   = "voice.join"
	eventVoiceLeave  = "voice.leave"
	eventVoiceState  = "voice.state_update"
)

// route dispatches one inbound frame. Events are processed in arrival order
// for the connection; a malformed frame earns an error event and touches no
// shared state.
func (g *Gateway) route(c *Client, raw []byte) {
	if !gjson.ValidBytes(raw) {
		g.sendBadRequest(c, "invalid JSON")
		return
	}

	eventType := gjson.GetBytes(raw, "type").String()
	data := gjson.GetBytes(raw, "data")
	ctx := context.Background()

	var err error
	switch eventType {
	case eventChannelJoin:
		err = g.withField(c, data, "channel_id", func(channelID string) error {
			return g.rooms.JoinChannel(ctx, &roomsService.JoinChannelInput{
				ConnID:    c.id,
				UserID:    c.userID,
				ChannelID: channelID,
			})
		})

	case eventChannelLeave:
		err = g.withField(c, data, "channel_id", func(channelID string) error {
			return g.rooms.LeaveChannel(ctx, &roomsService.LeaveChannelInput{
				ConnID:    c.id,
				ChannelID: channelID,
			})
		})

	case eventDMJoin:
		err = g.withField(c, data, "dm_channel_id", func(dmChannelID string) error {
			return g.rooms.JoinDM(ctx, &roomsService.JoinDMInput{
				ConnID:      c.id,
				UserID:      c.userID,
				DMChannelID: dmChannelID,
			})
		})

	case eventDMLeave:
		err = g.withField(c, data, "dm_channel_id", func(dmChannelID string) error {
			return g.rooms.LeaveDM(ctx, &roomsService.LeaveDMInput{
				ConnID:      c.id,
				DMChannelID: dmChannelID,
			})
		})

	case eventGuildJoin:
		err = g.withField(c, data, "guild_id", func(guildID string) error {
			return g.rooms.JoinGuild(ctx, &roomsService.JoinGuildInput{
				ConnID:  c.id,
				UserID:  c.userID,
				GuildID: guildID,
			})
		})

	case eventGuildLeave:
		err = g.withField(c, data, "guild_id", func(guildID string) error {
			return g.rooms.LeaveGuild(ctx, &roomsService.LeaveGuildInput{
				ConnID:  c.id,
				GuildID: guildID,
			})
		})

	case eventTypingStart:
		err = g.withField(c, data, "channel_id", func(channelID string) error {
			return g.typing.StartTyping(ctx, &typingService.StartTypingInput{
				ConnID:    c.id,
				UserID:    c.userID,
				Username:  c.username,
				ChannelID: channelID,
			})
		})

	case eventTypingStop:
		err = g.withField(c, data, "channel_id", func(channelID string) error {
			return g.typing.StopTyping(ctx, &typingService.StopTypingInput{
				ConnID:    c.id,
				UserID:    c.userID,
				ChannelID: channelID,
			})
		})

	case eventVoiceJoin:
		err = g.withField(c, data, "channel_id", func(channelID string) error {
			return g.voice.JoinVoice(ctx, &voiceService.JoinVoiceInput{
				ConnID:    c.id,
				UserID:    c.userID,
				Username:  c.username,
				ChannelID: channelID,
			})
		})

	case eventVoiceLeave:
		err = g.withField(c, data, "channel_id", func(channelID string) error {
			return g.voice.LeaveVoice(ctx, &voiceService.LeaveVoiceInput{
				ConnID:    c.id,
				UserID:    c.userID,
				ChannelID: channelID,
			})
		})

	case eventVoiceState:
		err = g.withField(c, data, "channel_id", func(channelID string) error {
			return g.voice.UpdateVoiceState(ctx, &voiceService.UpdateVoiceStateInput{
				ConnID:    c.id,
				UserID:    c.userID,
				ChannelID: channelID,
				Muted:     data.Get("muted").Bool(),
				Deafened:  data.Get("deafened").Bool(),
			})
		})

	default:
		g.logger.Debug("ignoring unknown event",
			slog.String("type", eventType),
			slog.String("conn_id", c.id))
		return
	}

	if err != nil {
		g.logger.Warn("event handling failed",
			slog.String("type", eventType),
			slog.String("conn_id", c.id),
			slog.Any("error", err))
	}
}

// withField extracts a required string field and rejects the event with a
// BAD_REQUEST error when it is missing or empty.
func (g *Gateway) withField(c *Client, data gjson.Result, field string, fn func(value string) error) error {
	value := data.Get(field).String()
	if value == "" {
		g.sendBadRequest(c, "missing "+field)
		return nil
	}

	return fn(value)
}

func (g *Gateway) sendBadRequest(c *Client, message string) {
	g.hub.SendTo(c.id, models.NewEvent(models.EventError, &models.ErrorEvent{
		Message: message,
		Code:    models.ErrorCodeBadRequest,
	}))
}
