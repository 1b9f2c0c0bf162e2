package rooms

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/unitychat/gateway/internal/cache"
	"github.com/unitychat/gateway/internal/models"
	accessRepo "github.com/unitychat/gateway/internal/repositories/access"
	guildsRepo "github.com/unitychat/gateway/internal/repositories/guilds"
	guildsMocks "github.com/unitychat/gateway/internal/repositories/guilds/mocks"
	membershipRepo "github.com/unitychat/gateway/internal/repositories/membership"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	joins  []joinCall
	leaves []joinCall
	sends  []sendCall
}

type joinCall struct {
	connID string
	room   models.Room
}

type sendCall struct {
	connID string
	event  *models.Event
}

func (d *recordingDispatcher) Join(connID string, room models.Room) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.joins = append(d.joins, joinCall{connID: connID, room: room})
}

func (d *recordingDispatcher) Leave(connID string, room models.Room) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.leaves = append(d.leaves, joinCall{connID: connID, room: room})
}

func (d *recordingDispatcher) Broadcast(room models.Room, event *models.Event, excludeConnID string) {
}

func (d *recordingDispatcher) SendTo(connID string, event *models.Event) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sends = append(d.sends, sendCall{connID: connID, event: event})
	return true
}

func (d *recordingDispatcher) joinedRooms() []models.Room {
	d.mu.Lock()
	defer d.mu.Unlock()

	rooms := make([]models.Room, 0, len(d.joins))
	for _, call := range d.joins {
		rooms = append(rooms, call.room)
	}
	return rooms
}

type RoomsServiceTestSuite struct {
	suite.Suite
	mockCtrl       *gomock.Controller
	mockGuildsRepo *guildsMocks.MockRepository
	mr             *miniredis.Miniredis
	client         *redis.Client
	dispatcher     *recordingDispatcher
	memCache       *cache.Membership
	svc            Service
	ctx            context.Context
}

func (s *RoomsServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockGuildsRepo = guildsMocks.NewMockRepository(s.mockCtrl)

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	accessStore, err := accessRepo.NewRedis(&accessRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	membershipStore, err := membershipRepo.NewRedis(&membershipRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	s.memCache, err = cache.NewMembership(&cache.Config{
		Capacity:      100,
		SweepInterval: time.Hour,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s.Require().NoError(err)

	s.dispatcher = &recordingDispatcher{}

	svc, err := New(&Config{
		AccessRepo:      accessStore,
		MembershipRepo:  membershipStore,
		MembershipCache: s.memCache,
		GuildsRepo:      s.mockGuildsRepo,
		Dispatcher:      s.dispatcher,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s.Require().NoError(err)
	s.svc = svc

	s.ctx = context.Background()
}

func (s *RoomsServiceTestSuite) TearDownTest() {
	s.memCache.Close()
	s.client.Close()
	s.mr.Close()
}

func TestRoomsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RoomsServiceTestSuite))
}

func (s *RoomsServiceTestSuite) TestBootstrapJoinsUserAndGuildRooms() {
	s.mockGuildsRepo.EXPECT().
		GetUserGuilds(gomock.Any(), &guildsRepo.GetUserGuildsInput{UserID: "user-1"}).
		Return([]string{"guild-1", "guild-2"}, nil)

	out, err := s.svc.BootstrapConnection(s.ctx, &BootstrapConnectionInput{
		ConnID: "conn-1",
		UserID: "user-1",
	})
	s.Require().NoError(err)
	s.Equal([]string{"guild-1", "guild-2"}, out.GuildIDs)

	s.Equal([]models.Room{
		models.UserRoom("user-1"),
		models.GuildRoom("guild-1"),
		models.GuildRoom("guild-2"),
	}, s.dispatcher.joinedRooms())
}

func (s *RoomsServiceTestSuite) TestBootstrapWritesCachesBack() {
	s.mockGuildsRepo.EXPECT().
		GetUserGuilds(gomock.Any(), gomock.Any()).
		Return([]string{"guild-1"}, nil)

	_, err := s.svc.BootstrapConnection(s.ctx, &BootstrapConnectionInput{
		ConnID: "conn-1",
		UserID: "user-1",
	})
	s.Require().NoError(err)

	guildIDs, ok := s.memCache.Get("user-1")
	s.True(ok)
	s.Equal([]string{"guild-1"}, guildIDs)

	s.True(s.mr.Exists("user:user-1:guilds"))
}

func (s *RoomsServiceTestSuite) TestBootstrapSecondConnectionHitsCache() {
	// Store is consulted exactly once across the two bootstraps
	s.mockGuildsRepo.EXPECT().
		GetUserGuilds(gomock.Any(), gomock.Any()).
		Return([]string{"guild-1"}, nil).
		Times(1)

	for _, connID := range []string{"conn-1", "conn-2"} {
		_, err := s.svc.BootstrapConnection(s.ctx, &BootstrapConnectionInput{
			ConnID: connID,
			UserID: "user-1",
		})
		s.Require().NoError(err)
	}
}

func (s *RoomsServiceTestSuite) TestBootstrapDegradesOnStoreFailure() {
	s.mockGuildsRepo.EXPECT().
		GetUserGuilds(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("store down"))

	out, err := s.svc.BootstrapConnection(s.ctx, &BootstrapConnectionInput{
		ConnID: "conn-1",
		UserID: "user-1",
	})
	s.Require().NoError(err, "store failure must not abort the connection")
	s.Empty(out.GuildIDs)

	// The personal room join still happened
	s.Equal([]models.Room{models.UserRoom("user-1")}, s.dispatcher.joinedRooms())
}

func (s *RoomsServiceTestSuite) TestJoinChannelGranted() {
	s.mockGuildsRepo.EXPECT().
		GetChannelGuild(gomock.Any(), &guildsRepo.GetChannelGuildInput{ChannelID: "channel-1"}).
		Return("guild-1", nil)
	s.mockGuildsRepo.EXPECT().
		IsGuildMember(gomock.Any(), &guildsRepo.IsGuildMemberInput{GuildID: "guild-1", UserID: "user-1"}).
		Return(true, nil)

	err := s.svc.JoinChannel(s.ctx, &JoinChannelInput{
		ConnID:    "conn-1",
		UserID:    "user-1",
		ChannelID: "channel-1",
	})
	s.Require().NoError(err)

	s.Equal([]models.Room{models.ChannelRoom("channel-1")}, s.dispatcher.joinedRooms())

	s.Require().Len(s.dispatcher.sends, 1)
	s.Equal(models.EventChannelJoined, s.dispatcher.sends[0].event.Type)

	// The grant is cached for subsequent checks
	value, err := s.mr.Get("access:channel:user-1:channel-1")
	s.Require().NoError(err)
	s.Equal("1", value)
}

func (s *RoomsServiceTestSuite) TestJoinChannelDenied() {
	s.mockGuildsRepo.EXPECT().
		GetChannelGuild(gomock.Any(), gomock.Any()).
		Return("guild-1", nil)
	s.mockGuildsRepo.EXPECT().
		IsGuildMember(gomock.Any(), gomock.Any()).
		Return(false, nil)

	err := s.svc.JoinChannel(s.ctx, &JoinChannelInput{
		ConnID:    "conn-1",
		UserID:    "user-1",
		ChannelID: "channel-1",
	})
	s.Require().NoError(err)

	s.Empty(s.dispatcher.joins)

	s.Require().Len(s.dispatcher.sends, 1)
	s.Equal(models.EventError, s.dispatcher.sends[0].event.Type)
	errEvent := s.dispatcher.sends[0].event.Data.(*models.ErrorEvent)
	s.Equal(models.ErrorCodeNoAccess, errEvent.Code)

	// The denial is cached too
	value, err := s.mr.Get("access:channel:user-1:channel-1")
	s.Require().NoError(err)
	s.Equal("0", value)
}

func (s *RoomsServiceTestSuite) TestJoinChannelUsesCachedDecision() {
	// Pre-seed a cached denial; the store must not be consulted
	err := s.client.Set(s.ctx, "access:channel:user-1:channel-1", "0", time.Minute).Err()
	s.Require().NoError(err)

	err = s.svc.JoinChannel(s.ctx, &JoinChannelInput{
		ConnID:    "conn-1",
		UserID:    "user-1",
		ChannelID: "channel-1",
	})
	s.Require().NoError(err)

	s.Empty(s.dispatcher.joins)
	s.Require().Len(s.dispatcher.sends, 1)
	s.Equal(models.EventError, s.dispatcher.sends[0].event.Type)
}

func (s *RoomsServiceTestSuite) TestJoinChannelFailsClosed() {
	s.mockGuildsRepo.EXPECT().
		GetChannelGuild(gomock.Any(), gomock.Any()).
		Return("", errors.New("store down"))

	err := s.svc.JoinChannel(s.ctx, &JoinChannelInput{
		ConnID:    "conn-1",
		UserID:    "user-1",
		ChannelID: "channel-1",
	})
	s.Require().NoError(err)

	s.Empty(s.dispatcher.joins, "a store failure must deny, never grant")
	s.Require().Len(s.dispatcher.sends, 1)
	errEvent := s.dispatcher.sends[0].event.Data.(*models.ErrorEvent)
	s.Equal(models.ErrorCodeNoAccess, errEvent.Code)

	// Failures are not cached as decisions
	s.False(s.mr.Exists("access:channel:user-1:channel-1"))
}

func (s *RoomsServiceTestSuite) TestJoinDMGranted() {
	s.mockGuildsRepo.EXPECT().
		IsDMParticipant(gomock.Any(), &guildsRepo.IsDMParticipantInput{DMChannelID: "dm-1", UserID: "user-1"}).
		Return(true, nil)

	err := s.svc.JoinDM(s.ctx, &JoinDMInput{
		ConnID:      "conn-1",
		UserID:      "user-1",
		DMChannelID: "dm-1",
	})
	s.Require().NoError(err)

	s.Equal([]models.Room{models.DMRoom("dm-1")}, s.dispatcher.joinedRooms())
	s.Require().Len(s.dispatcher.sends, 1)
	s.Equal(models.EventDMJoined, s.dispatcher.sends[0].event.Type)
}

func (s *RoomsServiceTestSuite) TestJoinDMDenied() {
	s.mockGuildsRepo.EXPECT().
		IsDMParticipant(gomock.Any(), gomock.Any()).
		Return(false, nil)

	err := s.svc.JoinDM(s.ctx, &JoinDMInput{
		ConnID:      "conn-1",
		UserID:      "user-1",
		DMChannelID: "dm-1",
	})
	s.Require().NoError(err)

	s.Empty(s.dispatcher.joins)
	s.Require().Len(s.dispatcher.sends, 1)
	errEvent := s.dispatcher.sends[0].event.Data.(*models.ErrorEvent)
	s.Equal(models.ErrorCodeNoAccess, errEvent.Code)
}

func (s *RoomsServiceTestSuite) TestLeaveIsUnconditional() {
	err := s.svc.LeaveChannel(s.ctx, &LeaveChannelInput{ConnID: "conn-1", ChannelID: "channel-1"})
	s.Require().NoError(err)

	err = s.svc.LeaveDM(s.ctx, &LeaveDMInput{ConnID: "conn-1", DMChannelID: "dm-1"})
	s.Require().NoError(err)

	err = s.svc.LeaveGuild(s.ctx, &LeaveGuildInput{ConnID: "conn-1", GuildID: "guild-1"})
	s.Require().NoError(err)

	s.Len(s.dispatcher.leaves, 3)
}

func (s *RoomsServiceTestSuite) TestJoinGuildChecksMembershipAndInvalidates() {
	s.memCache.Set("user-1", []string{"guild-1"})
	err := s.client.Set(s.ctx, "user:user-1:guilds", `["guild-1"]`, time.Minute).Err()
	s.Require().NoError(err)

	s.mockGuildsRepo.EXPECT().
		IsGuildMember(gomock.Any(), &guildsRepo.IsGuildMemberInput{GuildID: "guild-2", UserID: "user-1"}).
		Return(true, nil)

	err = s.svc.JoinGuild(s.ctx, &JoinGuildInput{
		ConnID:  "conn-1",
		UserID:  "user-1",
		GuildID: "guild-2",
	})
	s.Require().NoError(err)

	s.Equal([]models.Room{models.GuildRoom("guild-2")}, s.dispatcher.joinedRooms())

	_, ok := s.memCache.Get("user-1")
	s.False(ok, "stale guild set must be invalidated")
	s.False(s.mr.Exists("user:user-1:guilds"))
}

func (s *RoomsServiceTestSuite) TestJoinGuildNonMemberIgnored() {
	s.mockGuildsRepo.EXPECT().
		IsGuildMember(gomock.Any(), gomock.Any()).
		Return(false, nil)

	err := s.svc.JoinGuild(s.ctx, &JoinGuildInput{
		ConnID:  "conn-1",
		UserID:  "user-1",
		GuildID: "guild-2",
	})
	s.Require().NoError(err)

	s.Empty(s.dispatcher.joins)
}

func (s *RoomsServiceTestSuite) TestValidation() {
	_, err := s.svc.BootstrapConnection(s.ctx, &BootstrapConnectionInput{UserID: "user-1"})
	s.ErrorIs(err, ErrEmptyConnID)

	_, err = s.svc.BootstrapConnection(s.ctx, &BootstrapConnectionInput{ConnID: "conn-1"})
	s.ErrorIs(err, ErrEmptyUserID)

	err = s.svc.JoinChannel(s.ctx, &JoinChannelInput{ConnID: "conn-1"})
	s.ErrorIs(err, ErrEmptyResourceID)

	err = s.svc.JoinDM(s.ctx, nil)
	s.ErrorIs(err, ErrEmptyConnID)
}
