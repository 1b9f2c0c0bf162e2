package rooms

import (
	"context"
	"log/slog"
	"time"

	"github.com/unitychat/gateway/internal/cache"
	"github.com/unitychat/gateway/internal/models"
	accessRepo "github.com/unitychat/gateway/internal/repositories/access"
	guildsRepo "github.com/unitychat/gateway/internal/repositories/guilds"
	membershipRepo "github.com/unitychat/gateway/internal/repositories/membership"
	"github.com/unitychat/gateway/internal/services/fanout"
)

const (
	// DefaultDecisionTTL bounds how stale a cached access decision can get
	DefaultDecisionTTL = 5 * time.Minute

	// DefaultMembershipTTL bounds the shared guild membership cache
	DefaultMembershipTTL = 5 * time.Minute
)

// Config holds configuration for the room membership manager
type Config struct {
	// AccessRepo is the distributed access decision cache
	AccessRepo accessRepo.Repository

	// MembershipRepo is the distributed guild membership cache
	MembershipRepo membershipRepo.Repository

	// MembershipCache is the bounded in-process guild membership cache
	MembershipCache *cache.Membership

	// GuildsRepo is the relational store for membership truth
	GuildsRepo guildsRepo.Repository

	// Dispatcher performs room joins and delivers acks/denials
	Dispatcher fanout.Dispatcher

	// Logger for degraded-mode reporting
	Logger *slog.Logger

	// DecisionTTL for cached access decisions; DefaultDecisionTTL when zero
	DecisionTTL time.Duration

	// MembershipTTL for the shared membership cache; DefaultMembershipTTL
	// when zero
	MembershipTTL time.Duration
}

// service implements the Service interface
type service struct {
	accessRepo      accessRepo.Repository
	membershipRepo  membershipRepo.Repository
	membershipCache *cache.Membership
	guildsRepo      guildsRepo.Repository
	dispatcher      fanout.Dispatcher
	logger          *slog.Logger

	decisionTTL   time.Duration
	membershipTTL time.Duration
}

// New creates a new room membership manager
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.AccessRepo == nil {
		return nil, ErrNilAccessRepo
	}

	if cfg.MembershipRepo == nil {
		return nil, ErrNilMembershipRepo
	}

	if cfg.MembershipCache == nil {
		return nil, ErrNilMembershipCache
	}

	if cfg.GuildsRepo == nil {
		return nil, ErrNilGuildsRepo
	}

	if cfg.Dispatcher == nil {
		return nil, ErrNilDispatcher
	}

	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}

	decisionTTL := cfg.DecisionTTL
	if decisionTTL == 0 {
		decisionTTL = DefaultDecisionTTL
	}

	membershipTTL := cfg.MembershipTTL
	if membershipTTL == 0 {
		membershipTTL = DefaultMembershipTTL
	}

	return &service{
		accessRepo:      cfg.AccessRepo,
		membershipRepo:  cfg.MembershipRepo,
		membershipCache: cfg.MembershipCache,
		guildsRepo:      cfg.GuildsRepo,
		dispatcher:      cfg.Dispatcher,
		logger:          cfg.Logger.With(slog.String("component", "rooms")),
		decisionTTL:     decisionTTL,
		membershipTTL:   membershipTTL,
	}, nil
}

// BootstrapConnection joins the personal room unconditionally, then resolves
// the user's guilds and joins each guild room. A failure resolving guilds
// skips the guild joins (degraded presence fanout) rather than aborting the
// connection.
func (s *service) BootstrapConnection(ctx context.Context, input *BootstrapConnectionInput) (*BootstrapConnectionOutput, error) {
	if input == nil || input.ConnID == "" {
		return nil, ErrEmptyConnID
	}

	if input.UserID == "" {
		return nil, ErrEmptyUserID
	}

	s.dispatcher.Join(input.ConnID, models.UserRoom(input.UserID))

	guildIDs, err := s.resolveGuilds(ctx, input.UserID)
	if err != nil {
		s.logger.Warn("guild resolution failed, skipping guild rooms",
			slog.String("user_id", input.UserID),
			slog.Any("error", err))
		return &BootstrapConnectionOutput{GuildIDs: []string{}}, nil
	}

	for _, guildID := range guildIDs {
		s.dispatcher.Join(input.ConnID, models.GuildRoom(guildID))
	}

	return &BootstrapConnectionOutput{GuildIDs: guildIDs}, nil
}

// JoinChannel performs the access check and either joins the channel room
// and acknowledges, or delivers a NO_ACCESS error event. A store failure
// during the check denies (fail-closed).
func (s *service) JoinChannel(ctx context.Context, input *JoinChannelInput) error {
	if input == nil || input.ConnID == "" {
		return ErrEmptyConnID
	}

	if input.ChannelID == "" {
		return ErrEmptyResourceID
	}

	allowed := s.checkAccess(ctx, accessRepo.ScopeChannel, input.UserID, input.ChannelID)
	if !allowed {
		s.dispatcher.SendTo(input.ConnID, models.NewEvent(models.EventError, &models.ErrorEvent{
			Message: "No access to channel",
			Code:    models.ErrorCodeNoAccess,
		}))
		return nil
	}

	s.dispatcher.Join(input.ConnID, models.ChannelRoom(input.ChannelID))
	s.dispatcher.SendTo(input.ConnID, models.NewEvent(models.EventChannelJoined, &models.ChannelJoined{
		ChannelID: input.ChannelID,
	}))

	return nil
}

// LeaveChannel leaves the channel room. No access re-check; leaving a room
// you are not in is a no-op.
func (s *service) LeaveChannel(ctx context.Context, input *LeaveChannelInput) error {
	if input == nil || input.ConnID == "" {
		return ErrEmptyConnID
	}

	if input.ChannelID == "" {
		return ErrEmptyResourceID
	}

	s.dispatcher.Leave(input.ConnID, models.ChannelRoom(input.ChannelID))
	return nil
}

// JoinDM is the channel.join pattern keyed on DM participancy.
func (s *service) JoinDM(ctx context.Context, input *JoinDMInput) error {
	if input == nil || input.ConnID == "" {
		return ErrEmptyConnID
	}

	if input.DMChannelID == "" {
		return ErrEmptyResourceID
	}

	allowed := s.checkAccess(ctx, accessRepo.ScopeDM, input.UserID, input.DMChannelID)
	if !allowed {
		s.dispatcher.SendTo(input.ConnID, models.NewEvent(models.EventError, &models.ErrorEvent{
			Message: "No access to DM channel",
			Code:    models.ErrorCodeNoAccess,
		}))
		return nil
	}

	s.dispatcher.Join(input.ConnID, models.DMRoom(input.DMChannelID))
	s.dispatcher.SendTo(input.ConnID, models.NewEvent(models.EventDMJoined, &models.DMJoined{
		DMChannelID: input.DMChannelID,
	}))

	return nil
}

// LeaveDM leaves the DM room unconditionally.
func (s *service) LeaveDM(ctx context.Context, input *LeaveDMInput) error {
	if input == nil || input.ConnID == "" {
		return ErrEmptyConnID
	}

	if input.DMChannelID == "" {
		return ErrEmptyResourceID
	}

	s.dispatcher.Leave(input.ConnID, models.DMRoom(input.DMChannelID))
	return nil
}

// JoinGuild re-joins a guild room mid-session, membership-checked against the
// store so a freshly accepted invite takes effect without a reconnect.
func (s *service) JoinGuild(ctx context.Context, input *JoinGuildInput) error {
	if input == nil || input.ConnID == "" {
		return ErrEmptyConnID
	}

	if input.GuildID == "" {
		return ErrEmptyResourceID
	}

	member, err := s.guildsRepo.IsGuildMember(ctx, &guildsRepo.IsGuildMemberInput{
		GuildID: input.GuildID,
		UserID:  input.UserID,
	})
	if err != nil {
		s.logger.Warn("guild membership check failed",
			slog.String("user_id", input.UserID),
			slog.String("guild_id", input.GuildID),
			slog.Any("error", err))
		return nil
	}

	if !member {
		return nil
	}

	s.dispatcher.Join(input.ConnID, models.GuildRoom(input.GuildID))

	// The user's cached guild set is stale now
	s.membershipCache.Delete(input.UserID)
	if err := s.membershipRepo.InvalidateGuilds(ctx, &membershipRepo.InvalidateGuildsInput{UserID: input.UserID}); err != nil {
		s.logger.Warn("failed to invalidate cached guilds",
			slog.String("user_id", input.UserID),
			slog.Any("error", err))
	}

	return nil
}

// LeaveGuild leaves the guild room unconditionally.
func (s *service) LeaveGuild(ctx context.Context, input *LeaveGuildInput) error {
	if input == nil || input.ConnID == "" {
		return ErrEmptyConnID
	}

	if input.GuildID == "" {
		return ErrEmptyResourceID
	}

	s.dispatcher.Leave(input.ConnID, models.GuildRoom(input.GuildID))
	return nil
}

// resolveGuilds walks the cache hierarchy: in-process cache, distributed
// cache, then the relational store, writing results back on the way out.
func (s *service) resolveGuilds(ctx context.Context, userID string) ([]string, error) {
	if guildIDs, ok := s.membershipCache.Get(userID); ok {
		return guildIDs, nil
	}

	cached, err := s.membershipRepo.GetGuilds(ctx, &membershipRepo.GetGuildsInput{UserID: userID})
	if err != nil {
		// Distributed cache down: fall through to the store
		s.logger.Warn("membership cache unavailable",
			slog.String("user_id", userID),
			slog.Any("error", err))
	} else if cached.Found {
		s.membershipCache.Set(userID, cached.GuildIDs)
		return cached.GuildIDs, nil
	}

	guildIDs, err := s.guildsRepo.GetUserGuilds(ctx, &guildsRepo.GetUserGuildsInput{UserID: userID})
	if err != nil {
		return nil, err
	}

	if err := s.membershipRepo.SetGuilds(ctx, &membershipRepo.SetGuildsInput{
		UserID:   userID,
		GuildIDs: guildIDs,
		TTL:      s.membershipTTL,
	}); err != nil {
		s.logger.Warn("failed to write membership cache",
			slog.String("user_id", userID),
			slog.Any("error", err))
	}
	s.membershipCache.Set(userID, guildIDs)

	return guildIDs, nil
}

// checkAccess consults the decision cache and falls back to the store on a
// miss, writing the fresh decision back with a TTL. Any store failure is a
// deny, never a silent grant.
func (s *service) checkAccess(ctx context.Context, scope accessRepo.Scope, userID, resourceID string) bool {
	decision, err := s.accessRepo.GetDecision(ctx, &accessRepo.GetDecisionInput{
		UserID:     userID,
		ResourceID: resourceID,
		Scope:      scope,
	})
	if err != nil {
		// Cache unreachable degrades to recompute
		s.logger.Warn("access cache unavailable",
			slog.String("user_id", userID),
			slog.Any("error", err))
	} else if decision.Found {
		return decision.Allowed
	}

	allowed, err := s.computeAccess(ctx, scope, userID, resourceID)
	if err != nil {
		s.logger.Warn("access check failed, denying",
			slog.String("user_id", userID),
			slog.String("resource_id", resourceID),
			slog.Any("error", err))
		return false
	}

	if err := s.accessRepo.SetDecision(ctx, &accessRepo.SetDecisionInput{
		UserID:     userID,
		ResourceID: resourceID,
		Scope:      scope,
		Allowed:    allowed,
		TTL:        s.decisionTTL,
	}); err != nil {
		s.logger.Warn("failed to cache access decision",
			slog.String("user_id", userID),
			slog.Any("error", err))
	}

	return allowed
}

func (s *service) computeAccess(ctx context.Context, scope accessRepo.Scope, userID, resourceID string) (bool, error) {
	switch scope {
	case accessRepo.ScopeDM:
		return s.guildsRepo.IsDMParticipant(ctx, &guildsRepo.IsDMParticipantInput{
			DMChannelID: resourceID,
			UserID:      userID,
		})
	default:
		guildID, err := s.guildsRepo.GetChannelGuild(ctx, &guildsRepo.GetChannelGuildInput{
			ChannelID: resourceID,
		})
		if err != nil {
			return false, err
		}
		return s.guildsRepo.IsGuildMember(ctx, &guildsRepo.IsGuildMemberInput{
			GuildID: guildID,
			UserID:  userID,
		})
	}
}
