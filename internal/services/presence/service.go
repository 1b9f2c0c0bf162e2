package presence

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/unitychat/gateway/internal/common/clock"
	"github.com/unitychat/gateway/internal/models"
	guildsRepo "github.com/unitychat/gateway/internal/repositories/guilds"
	presenceRepo "github.com/unitychat/gateway/internal/repositories/presence"
	"github.com/unitychat/gateway/internal/services/fanout"
)

const (
	// DefaultGracePeriod is how long a disconnect waits before it counts
	DefaultGracePeriod = 5 * time.Second

	// DefaultRecordTTL is the presence record expiry in the distributed cache
	DefaultRecordTTL = 5 * time.Minute
)

// Config holds configuration for the presence tracker
type Config struct {
	// PresenceRepo is the distributed presence record store
	PresenceRepo presenceRepo.Repository

	// GuildsRepo persists user status/last-seen
	GuildsRepo guildsRepo.Repository

	// Dispatcher fans presence updates out to guild rooms
	Dispatcher fanout.Dispatcher

	// Clock provides timestamps
	Clock clock.Clock

	// Logger for swallowed background failures
	Logger *slog.Logger

	// GracePeriod before a disconnect is treated as authoritative;
	// DefaultGracePeriod when zero
	GracePeriod time.Duration

	// RecordTTL for presence records; DefaultRecordTTL when zero
	RecordTTL time.Duration
}

// service implements the Service interface
type service struct {
	presenceRepo presenceRepo.Repository
	guildsRepo   guildsRepo.Repository
	dispatcher   fanout.Dispatcher
	clock        clock.Clock
	logger       *slog.Logger

	gracePeriod time.Duration
	recordTTL   time.Duration

	// conns counts live connections per user, so closing one of several
	// tabs does not tear down the user's presence
	mu    sync.Mutex
	conns map[string]int
}

// New creates a new presence tracker
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.PresenceRepo == nil {
		return nil, ErrNilPresenceRepo
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

	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}

	gracePeriod := cfg.GracePeriod
	if gracePeriod == 0 {
		gracePeriod = DefaultGracePeriod
	}

	recordTTL := cfg.RecordTTL
	if recordTTL == 0 {
		recordTTL = DefaultRecordTTL
	}

	return &service{
		presenceRepo: cfg.PresenceRepo,
		guildsRepo:   cfg.GuildsRepo,
		dispatcher:   cfg.Dispatcher,
		clock:        cfg.Clock,
		logger:       cfg.Logger.With(slog.String("component", "presence")),
		gracePeriod:  gracePeriod,
		recordTTL:    recordTTL,
		conns:        make(map[string]int),
	}, nil
}

// HandleConnect marks the user online in the distributed cache, persists the
// status in the background, and broadcasts the transition to the user's guild
// rooms. Persistence failures are logged and never surfaced to the client.
func (s *service) HandleConnect(ctx context.Context, input *HandleConnectInput) error {
	if input == nil || input.UserID == "" {
		return ErrEmptyUserID
	}

	s.mu.Lock()
	s.conns[input.UserID]++
	first := s.conns[input.UserID] == 1
	s.mu.Unlock()

	err := s.presenceRepo.SetOnline(ctx, &presenceRepo.SetOnlineInput{
		UserID: input.UserID,
		TTL:    s.recordTTL,
	})
	if err != nil {
		s.logger.Error("failed to write presence record",
			slog.String("user_id", input.UserID),
			slog.Any("error", err))
	}

	now := s.clock.Now()
	go func() {
		// Runs on a background context: a store write outliving the
		// connection completes and is discarded, not cancelled
		err := s.guildsRepo.UpdateUserStatus(context.Background(), &guildsRepo.UpdateUserStatusInput{
			UserID:   input.UserID,
			Status:   models.PresenceStatusOnline,
			LastSeen: now,
		})
		if err != nil {
			s.logger.Error("failed to persist online status",
				slog.String("user_id", input.UserID),
				slog.Any("error", err))
		}
	}()

	// Additional tabs refresh the record but stay silent; guild members
	// already see the user online
	if !first {
		return nil
	}

	update := &models.PresenceUpdate{
		UserID:    input.UserID,
		Username:  input.Username,
		Status:    models.PresenceStatusOnline,
		Timestamp: now.UnixMilli(),
	}
	for _, guildID := range input.GuildIDs {
		s.dispatcher.Broadcast(models.GuildRoom(guildID), models.NewEvent(models.EventPresenceUpdate, update), input.ConnID)
	}

	return nil
}

// HandleDisconnect removes the user's presence record once their last
// connection is gone and schedules reconciliation after the grace period. A
// reconnect inside the window re-creates the record, and the reconciliation
// pass then leaves the user alone.
func (s *service) HandleDisconnect(ctx context.Context, input *HandleDisconnectInput) error {
	if input == nil || input.UserID == "" {
		return ErrEmptyUserID
	}

	s.mu.Lock()
	s.conns[input.UserID]--
	remaining := s.conns[input.UserID]
	if remaining <= 0 {
		delete(s.conns, input.UserID)
	}
	s.mu.Unlock()

	if remaining > 0 {
		return nil
	}

	err := s.presenceRepo.SetOffline(ctx, &presenceRepo.SetOfflineInput{
		UserID: input.UserID,
	})
	if err != nil {
		// Distributed cache unreachable: degrade to immediate offline
		// instead of failing silently
		s.logger.Warn("presence cache unavailable, marking offline immediately",
			slog.String("user_id", input.UserID),
			slog.Any("error", err))
		s.markOffline(input)
		return nil
	}

	time.AfterFunc(s.gracePeriod, func() {
		s.reconcile(input)
	})

	return nil
}

// reconcile runs after the grace period. If the user reconnected meanwhile,
// their presence record exists again and nothing happens.
func (s *service) reconcile(input *HandleDisconnectInput) {
	online, err := s.presenceRepo.IsOnline(context.Background(), &presenceRepo.IsOnlineInput{
		UserID: input.UserID,
	})
	if err != nil {
		s.logger.Warn("presence cache unavailable during reconciliation",
			slog.String("user_id", input.UserID),
			slog.Any("error", err))
		s.markOffline(input)
		return
	}

	if online {
		return
	}

	s.markOffline(input)
}

// markOffline persists the offline status and broadcasts it to the user's
// guild rooms.
func (s *service) markOffline(input *HandleDisconnectInput) {
	now := s.clock.Now()

	err := s.guildsRepo.UpdateUserStatus(context.Background(), &guildsRepo.UpdateUserStatusInput{
		UserID:   input.UserID,
		Status:   models.PresenceStatusOffline,
		LastSeen: now,
	})
	if err != nil {
		s.logger.Error("failed to persist offline status",
			slog.String("user_id", input.UserID),
			slog.Any("error", err))
	}

	update := &models.PresenceUpdate{
		UserID:    input.UserID,
		Username:  input.Username,
		Status:    models.PresenceStatusOffline,
		Timestamp: now.UnixMilli(),
	}
	for _, guildID := range input.GuildIDs {
		s.dispatcher.Broadcast(models.GuildRoom(guildID), models.NewEvent(models.EventPresenceUpdate, update), "")
	}
}
