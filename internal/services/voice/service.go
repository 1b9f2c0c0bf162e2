package voice

import (
	"context"
	"log/slog"

	"github.com/unitychat/gateway/internal/common/clock"
	"github.com/unitychat/gateway/internal/common/uuid"
	"github.com/unitychat/gateway/internal/models"
	guildsRepo "github.com/unitychat/gateway/internal/repositories/guilds"
	voiceRepo "github.com/unitychat/gateway/internal/repositories/voicesessions"
	"github.com/unitychat/gateway/internal/services/fanout"
)

// Config holds configuration for the voice session coordinator
type Config struct {
	// VoiceRepo persists voice sessions
	VoiceRepo voiceRepo.Repository

	// GuildsRepo resolves channel ownership and display names
	GuildsRepo guildsRepo.Repository

	// Dispatcher fans voice events out to channel and guild rooms
	Dispatcher fanout.Dispatcher

	// Clock provides session timestamps
	Clock clock.Clock

	// UUIDGenerator provides session ids
	UUIDGenerator uuid.UUID

	// Logger for swallowed async persistence failures
	Logger *slog.Logger
}

// service implements the Service interface
type service struct {
	voiceRepo  voiceRepo.Repository
	guildsRepo guildsRepo.Repository
	dispatcher fanout.Dispatcher
	clock      clock.Clock
	uuider     uuid.UUID
	logger     *slog.Logger
}

// New creates a new voice session coordinator
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.VoiceRepo == nil {
		return nil, ErrNilVoiceRepo
	}

	if cfg.GuildsRepo == nil {
		return nil, ErrNilGuildsRepo
	}

	if cfg.Dispatcher == nil {
		return nil, ErrNilDispatcher
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}

	return &service{
		voiceRepo:  cfg.VoiceRepo,
		guildsRepo: cfg.GuildsRepo,
		dispatcher: cfg.Dispatcher,
		clock:      cfg.Clock,
		uuider:     cfg.UUIDGenerator,
		logger:     cfg.Logger.With(slog.String("component", "voice")),
	}, nil
}

// JoinVoice closes any session a reconnect left behind, opens a fresh one,
// broadcasts the join to the channel and owning guild rooms, and sends the
// current occupant list to the joining connection only.
func (s *service) JoinVoice(ctx context.Context, input *JoinVoiceInput) error {
	if input == nil || input.ConnID == "" {
		return ErrEmptyConnID
	}

	if input.UserID == "" {
		return ErrEmptyUserID
	}

	if input.ChannelID == "" {
		return ErrEmptyChannelID
	}

	now := s.clock.Now()

	// Duplicate joins from reconnects leave an open session behind; close
	// it before opening the new one so at most one stays open
	err := s.voiceRepo.CloseOpenSessions(ctx, &voiceRepo.CloseOpenSessionsInput{
		ChannelID: input.ChannelID,
		UserID:    input.UserID,
		LeftAt:    now,
	})
	if err != nil {
		s.sendJoinError(input.ConnID, err)
		return nil
	}

	session := &models.VoiceSession{
		ID:        s.uuider.NewUUID(),
		ChannelID: input.ChannelID,
		UserID:    input.UserID,
		JoinedAt:  now,
	}
	if err := s.voiceRepo.CreateSession(ctx, &voiceRepo.CreateSessionInput{Session: session}); err != nil {
		s.sendJoinError(input.ConnID, err)
		return nil
	}

	s.dispatcher.Join(input.ConnID, models.VoiceRoom(input.ChannelID))

	joined := models.NewEvent(models.EventVoiceUserJoined, &models.VoiceUserJoined{
		UserID:    input.UserID,
		Username:  input.Username,
		ChannelID: input.ChannelID,
		SessionID: session.ID,
	})
	s.broadcastToChannelAndGuild(ctx, input.ChannelID, joined, input.ConnID)

	s.dispatcher.SendTo(input.ConnID, models.NewEvent(models.EventVoiceParticipants, &models.VoiceParticipants{
		ChannelID:    input.ChannelID,
		Participants: s.participants(ctx, input.ChannelID, input.UserID, input.Username),
	}))

	return nil
}

// LeaveVoice closes the open session, leaves the room and broadcasts the
// departure to the channel and guild rooms.
func (s *service) LeaveVoice(ctx context.Context, input *LeaveVoiceInput) error {
	if input == nil || input.ConnID == "" {
		return ErrEmptyConnID
	}

	if input.UserID == "" {
		return ErrEmptyUserID
	}

	if input.ChannelID == "" {
		return ErrEmptyChannelID
	}

	err := s.voiceRepo.CloseOpenSessions(ctx, &voiceRepo.CloseOpenSessionsInput{
		ChannelID: input.ChannelID,
		UserID:    input.UserID,
		LeftAt:    s.clock.Now(),
	})
	if err != nil {
		s.logger.Error("failed to close voice session",
			slog.String("user_id", input.UserID),
			slog.String("channel_id", input.ChannelID),
			slog.Any("error", err))
	}

	s.dispatcher.Leave(input.ConnID, models.VoiceRoom(input.ChannelID))

	left := models.NewEvent(models.EventVoiceUserLeft, &models.VoiceUserLeft{
		UserID:    input.UserID,
		ChannelID: input.ChannelID,
	})
	s.broadcastToChannelAndGuild(ctx, input.ChannelID, left, input.ConnID)

	return nil
}

// UpdateVoiceState broadcasts the new flags before the store confirms them.
// The UI reflects intent immediately; a persistence failure is logged and the
// broadcast is never retracted.
func (s *service) UpdateVoiceState(ctx context.Context, input *UpdateVoiceStateInput) error {
	if input == nil || input.ConnID == "" {
		return ErrEmptyConnID
	}

	if input.UserID == "" {
		return ErrEmptyUserID
	}

	if input.ChannelID == "" {
		return ErrEmptyChannelID
	}

	s.dispatcher.Broadcast(models.VoiceRoom(input.ChannelID), models.NewEvent(models.EventVoiceState, &models.VoiceStateUpdate{
		UserID:    input.UserID,
		ChannelID: input.ChannelID,
		Muted:     input.Muted,
		Deafened:  input.Deafened,
	}), input.ConnID)

	go func() {
		err := s.voiceRepo.UpdateFlags(context.Background(), &voiceRepo.UpdateFlagsInput{
			ChannelID: input.ChannelID,
			UserID:    input.UserID,
			Muted:     input.Muted,
			Deafened:  input.Deafened,
		})
		if err != nil {
			s.logger.Error("failed to persist voice state",
				slog.String("user_id", input.UserID),
				slog.String("channel_id", input.ChannelID),
				slog.Any("error", err))
		}
	}()

	return nil
}

// HandleDisconnect closes every open session the user still holds and
// broadcasts a departure per affected channel. It runs on a background
// context so connection teardown cannot cut it short.
func (s *service) HandleDisconnect(ctx context.Context, input *HandleDisconnectInput) error {
	if input == nil || input.UserID == "" {
		return ErrEmptyUserID
	}

	cleanupCtx := context.Background()

	out, err := s.voiceRepo.CloseAllForUser(cleanupCtx, &voiceRepo.CloseAllForUserInput{
		UserID: input.UserID,
		LeftAt: s.clock.Now(),
	})
	if err != nil {
		s.logger.Error("failed to close voice sessions on disconnect",
			slog.String("user_id", input.UserID),
			slog.Any("error", err))
		return nil
	}

	for _, session := range out.Closed {
		left := models.NewEvent(models.EventVoiceUserLeft, &models.VoiceUserLeft{
			UserID:    input.UserID,
			ChannelID: session.ChannelID,
		})
		s.broadcastToChannelAndGuild(cleanupCtx, session.ChannelID, left, input.ConnID)
	}

	return nil
}

// broadcastToChannelAndGuild emits the event to the channel room and, when
// ownership resolves, to the owning guild room so sidebar presence outside
// the channel stays consistent.
func (s *service) broadcastToChannelAndGuild(ctx context.Context, channelID string, event *models.Event, excludeConnID string) {
	s.dispatcher.Broadcast(models.ChannelRoom(channelID), event, excludeConnID)

	guildID, err := s.guildsRepo.GetChannelGuild(ctx, &guildsRepo.GetChannelGuildInput{ChannelID: channelID})
	if err != nil {
		s.logger.Warn("failed to resolve owning guild",
			slog.String("channel_id", channelID),
			slog.Any("error", err))
		return
	}

	s.dispatcher.Broadcast(models.GuildRoom(guildID), event, excludeConnID)
}

// participants assembles the occupant list for a joining connection. The
// joiner is always present even if a store read fails mid-join.
func (s *service) participants(ctx context.Context, channelID, selfID, selfName string) []models.VoiceParticipant {
	sessions, err := s.voiceRepo.GetOpenSessions(ctx, &voiceRepo.GetOpenSessionsInput{ChannelID: channelID})
	if err != nil {
		s.logger.Error("failed to list voice participants",
			slog.String("channel_id", channelID),
			slog.Any("error", err))
		return []models.VoiceParticipant{{UserID: selfID, Username: selfName}}
	}

	userIDs := make([]string, 0, len(sessions))
	for _, session := range sessions {
		userIDs = append(userIDs, session.UserID)
	}

	usernames, err := s.guildsRepo.GetUsernames(ctx, &guildsRepo.GetUsernamesInput{UserIDs: userIDs})
	if err != nil {
		s.logger.Warn("failed to resolve participant names",
			slog.String("channel_id", channelID),
			slog.Any("error", err))
		usernames = map[string]string{selfID: selfName}
	}

	participants := make([]models.VoiceParticipant, 0, len(sessions))
	for _, session := range sessions {
		participants = append(participants, models.VoiceParticipant{
			UserID:   session.UserID,
			Username: usernames[session.UserID],
			Muted:    session.Muted,
			Deafened: session.Deafened,
		})
	}

	return participants
}

// sendJoinError reports a failed voice join to the requesting connection.
func (s *service) sendJoinError(connID string, err error) {
	s.logger.Error("voice join failed", slog.Any("error", err))
	s.dispatcher.SendTo(connID, models.NewEvent(models.EventError, &models.ErrorEvent{
		Message: "Failed to join voice channel",
		Code:    models.ErrorCodeJoinError,
	}))
}
