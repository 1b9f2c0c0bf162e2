package presence

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/unitychat/gateway/internal/common/clock"
	"github.com/unitychat/gateway/internal/models"
	guildsRepo "github.com/unitychat/gateway/internal/repositories/guilds"
	presenceRepo "github.com/unitychat/gateway/internal/repositories/presence"
)

// recordingDispatcher captures broadcasts so the suite can assert on presence
// fanout without a live hub.
type recordingDispatcher struct {
	mu         sync.Mutex
	broadcasts []broadcastCall
}

type broadcastCall struct {
	room    models.Room
	event   *models.Event
	exclude string
}

func (d *recordingDispatcher) Join(connID string, room models.Room)  {}
func (d *recordingDispatcher) Leave(connID string, room models.Room) {}

func (d *recordingDispatcher) Broadcast(room models.Room, event *models.Event, excludeConnID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.broadcasts = append(d.broadcasts, broadcastCall{room: room, event: event, exclude: excludeConnID})
}

func (d *recordingDispatcher) SendTo(connID string, event *models.Event) bool { return true }

func (d *recordingDispatcher) broadcastsOfStatus(status models.PresenceStatus) []broadcastCall {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []broadcastCall
	for _, call := range d.broadcasts {
		update, ok := call.event.Data.(*models.PresenceUpdate)
		if ok && update.Status == status {
			out = append(out, call)
		}
	}
	return out
}

// fakeGuildsRepo records status writebacks; the lookup methods are unused by
// the presence tracker.
type fakeGuildsRepo struct {
	mu            sync.Mutex
	statusUpdates []*guildsRepo.UpdateUserStatusInput
}

func (f *fakeGuildsRepo) GetUserGuilds(ctx context.Context, input *guildsRepo.GetUserGuildsInput) ([]string, error) {
	return nil, nil
}

func (f *fakeGuildsRepo) GetChannelGuild(ctx context.Context, input *guildsRepo.GetChannelGuildInput) (string, error) {
	return "", nil
}

func (f *fakeGuildsRepo) IsGuildMember(ctx context.Context, input *guildsRepo.IsGuildMemberInput) (bool, error) {
	return false, nil
}

func (f *fakeGuildsRepo) IsDMParticipant(ctx context.Context, input *guildsRepo.IsDMParticipantInput) (bool, error) {
	return false, nil
}

func (f *fakeGuildsRepo) UpdateUserStatus(ctx context.Context, input *guildsRepo.UpdateUserStatusInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusUpdates = append(f.statusUpdates, input)
	return nil
}

func (f *fakeGuildsRepo) GetUsernames(ctx context.Context, input *guildsRepo.GetUsernamesInput) (map[string]string, error) {
	return nil, nil
}

type PresenceServiceTestSuite struct {
	suite.Suite
	mr         *miniredis.Miniredis
	client     *redis.Client
	dispatcher *recordingDispatcher
	guilds     *fakeGuildsRepo
	svc        Service
	ctx        context.Context

	gracePeriod time.Duration
}

func (s *PresenceServiceTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := presenceRepo.NewRedis(&presenceRepo.Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)

	s.dispatcher = &recordingDispatcher{}
	s.guilds = &fakeGuildsRepo{}
	s.gracePeriod = 40 * time.Millisecond

	svc, err := New(&Config{
		PresenceRepo: repo,
		GuildsRepo:   s.guilds,
		Dispatcher:   s.dispatcher,
		Clock:        &clock.DefaultClock{},
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		GracePeriod:  s.gracePeriod,
		RecordTTL:    5 * time.Minute,
	})
	s.Require().NoError(err)
	s.svc = svc

	s.ctx = context.Background()
}

func (s *PresenceServiceTestSuite) TearDownTest() {
	// Let stray reconciliation timers and status writebacks drain
	time.Sleep(4 * s.gracePeriod)
	s.client.Close()
	s.mr.Close()
}

func TestPresenceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PresenceServiceTestSuite))
}

func (s *PresenceServiceTestSuite) connect(connID string) {
	err := s.svc.HandleConnect(s.ctx, &HandleConnectInput{
		ConnID:   connID,
		UserID:   "user-1",
		Username: "alice",
		GuildIDs: []string{"guild-1", "guild-2"},
	})
	s.Require().NoError(err)
}

func (s *PresenceServiceTestSuite) disconnect(connID string) {
	err := s.svc.HandleDisconnect(s.ctx, &HandleDisconnectInput{
		ConnID:   connID,
		UserID:   "user-1",
		Username: "alice",
		GuildIDs: []string{"guild-1", "guild-2"},
	})
	s.Require().NoError(err)
}

func (s *PresenceServiceTestSuite) TestConnectBroadcastsOnlineToGuilds() {
	s.connect("conn-1")

	online := s.dispatcher.broadcastsOfStatus(models.PresenceStatusOnline)
	s.Require().Len(online, 2)
	s.Equal(models.GuildRoom("guild-1"), online[0].room)
	s.Equal(models.GuildRoom("guild-2"), online[1].room)
	s.Equal("conn-1", online[0].exclude)

	ok, err := s.client.Get(s.ctx, "presence:user-1").Result()
	s.Require().NoError(err)
	s.Equal("online", ok)
}

func (s *PresenceServiceTestSuite) TestSecondConnectionStaysSilent() {
	s.connect("conn-1")
	s.connect("conn-2")

	online := s.dispatcher.broadcastsOfStatus(models.PresenceStatusOnline)
	s.Len(online, 2, "second tab should not rebroadcast")
}

func (s *PresenceServiceTestSuite) TestDisconnectGoesOfflineAfterGrace() {
	s.connect("conn-1")
	s.disconnect("conn-1")

	// Still inside the grace window: no offline fanout yet
	s.Empty(s.dispatcher.broadcastsOfStatus(models.PresenceStatusOffline))

	time.Sleep(3 * s.gracePeriod)

	offline := s.dispatcher.broadcastsOfStatus(models.PresenceStatusOffline)
	s.Require().Len(offline, 2)
	s.Equal(models.GuildRoom("guild-1"), offline[0].room)
}

func (s *PresenceServiceTestSuite) TestReconnectWithinGraceSuppressesOffline() {
	s.connect("conn-1")
	s.disconnect("conn-1")
	s.connect("conn-2")

	time.Sleep(3 * s.gracePeriod)

	s.Empty(s.dispatcher.broadcastsOfStatus(models.PresenceStatusOffline))
}

func (s *PresenceServiceTestSuite) TestClosingOneOfTwoTabsStaysOnline() {
	s.connect("conn-1")
	s.connect("conn-2")
	s.disconnect("conn-1")

	time.Sleep(3 * s.gracePeriod)

	s.Empty(s.dispatcher.broadcastsOfStatus(models.PresenceStatusOffline))

	online, err := s.client.Exists(s.ctx, "presence:user-1").Result()
	s.Require().NoError(err)
	s.Equal(int64(1), online)
}

func (s *PresenceServiceTestSuite) TestCacheOutageMarksOfflineImmediately() {
	s.connect("conn-1")
	s.mr.Close()

	s.disconnect("conn-1")

	offline := s.dispatcher.broadcastsOfStatus(models.PresenceStatusOffline)
	s.Require().Len(offline, 2)
}

func (s *PresenceServiceTestSuite) TestStatusWritebacks() {
	s.connect("conn-1")
	s.disconnect("conn-1")

	time.Sleep(3 * s.gracePeriod)

	s.guilds.mu.Lock()
	defer s.guilds.mu.Unlock()

	s.Require().NotEmpty(s.guilds.statusUpdates)
	first := s.guilds.statusUpdates[0]
	last := s.guilds.statusUpdates[len(s.guilds.statusUpdates)-1]
	s.Equal(models.PresenceStatusOnline, first.Status)
	s.Equal(models.PresenceStatusOffline, last.Status)
}

func (s *PresenceServiceTestSuite) TestEmptyUserIDRejected() {
	err := s.svc.HandleConnect(s.ctx, &HandleConnectInput{ConnID: "conn-1"})
	s.ErrorIs(err, ErrEmptyUserID)

	err = s.svc.HandleDisconnect(s.ctx, nil)
	s.ErrorIs(err, ErrEmptyUserID)
}
