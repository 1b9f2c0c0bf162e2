package typing

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

	"github.com/unitychat/gateway/internal/models"
	typingRepo "github.com/unitychat/gateway/internal/repositories/typing"
)

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

func (d *recordingDispatcher) eventsOfType(eventType string) []broadcastCall {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []broadcastCall
	for _, call := range d.broadcasts {
		if call.event.Type == eventType {
			out = append(out, call)
		}
	}
	return out
}

type TypingServiceTestSuite struct {
	suite.Suite
	mr         *miniredis.Miniredis
	client     *redis.Client
	dispatcher *recordingDispatcher
	svc        Service
	ctx        context.Context

	expireAfter time.Duration
}

func (s *TypingServiceTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := typingRepo.NewRedis(&typingRepo.Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)

	s.dispatcher = &recordingDispatcher{}
	s.expireAfter = 40 * time.Millisecond

	svc, err := New(&Config{
		TypingRepo:  repo,
		Dispatcher:  s.dispatcher,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		ExpireAfter: s.expireAfter,
		StateTTL:    10 * time.Second,
	})
	s.Require().NoError(err)
	s.svc = svc

	s.ctx = context.Background()
}

func (s *TypingServiceTestSuite) TearDownTest() {
	time.Sleep(4 * s.expireAfter)
	s.client.Close()
	s.mr.Close()
}

func TestTypingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TypingServiceTestSuite))
}

func (s *TypingServiceTestSuite) start() {
	err := s.svc.StartTyping(s.ctx, &StartTypingInput{
		ConnID:    "conn-1",
		UserID:    "user-1",
		Username:  "alice",
		ChannelID: "channel-1",
	})
	s.Require().NoError(err)
}

func (s *TypingServiceTestSuite) TestStartBroadcastsOnce() {
	for i := 0; i < 5; i++ {
		s.start()
	}

	starts := s.dispatcher.eventsOfType(models.EventTypingStart)
	s.Require().Len(starts, 1, "rapid starts should collapse to one broadcast")
	s.Equal(models.ChannelRoom("channel-1"), starts[0].room)
	s.Equal("conn-1", starts[0].exclude)

	typers, err := s.client.SMembers(s.ctx, "typing:channel-1").Result()
	s.Require().NoError(err)
	s.Equal([]string{"user-1"}, typers)
}

func (s *TypingServiceTestSuite) TestExpiryBroadcastsStop() {
	s.start()

	time.Sleep(3 * s.expireAfter)

	stops := s.dispatcher.eventsOfType(models.EventTypingStop)
	s.Require().Len(stops, 1)
	s.Equal(models.ChannelRoom("channel-1"), stops[0].room)

	typers, err := s.client.SMembers(s.ctx, "typing:channel-1").Result()
	s.Require().NoError(err)
	s.Empty(typers)
}

func (s *TypingServiceTestSuite) TestRepeatedStartsPushExpiryOut() {
	s.start()
	time.Sleep(s.expireAfter / 2)
	s.start()
	time.Sleep(s.expireAfter / 2)
	s.start()

	// Half a window after the last start nothing has expired yet
	time.Sleep(s.expireAfter / 2)
	s.Empty(s.dispatcher.eventsOfType(models.EventTypingStop))

	time.Sleep(3 * s.expireAfter)
	s.Len(s.dispatcher.eventsOfType(models.EventTypingStop), 1)
}

func (s *TypingServiceTestSuite) TestExplicitStop() {
	s.start()

	err := s.svc.StopTyping(s.ctx, &StopTypingInput{
		ConnID:    "conn-1",
		UserID:    "user-1",
		ChannelID: "channel-1",
	})
	s.Require().NoError(err)

	stops := s.dispatcher.eventsOfType(models.EventTypingStop)
	s.Require().Len(stops, 1)

	// The cancelled timer must not fire a second stop
	time.Sleep(3 * s.expireAfter)
	s.Len(s.dispatcher.eventsOfType(models.EventTypingStop), 1)
}

func (s *TypingServiceTestSuite) TestStartAfterStopBroadcastsAgain() {
	s.start()

	err := s.svc.StopTyping(s.ctx, &StopTypingInput{
		ConnID:    "conn-1",
		UserID:    "user-1",
		ChannelID: "channel-1",
	})
	s.Require().NoError(err)

	s.start()

	s.Len(s.dispatcher.eventsOfType(models.EventTypingStart), 2)
}

func (s *TypingServiceTestSuite) TestChannelsAreIndependent() {
	s.start()

	err := s.svc.StartTyping(s.ctx, &StartTypingInput{
		ConnID:    "conn-1",
		UserID:    "user-1",
		Username:  "alice",
		ChannelID: "channel-2",
	})
	s.Require().NoError(err)

	starts := s.dispatcher.eventsOfType(models.EventTypingStart)
	s.Require().Len(starts, 2)
	s.Equal(models.ChannelRoom("channel-1"), starts[0].room)
	s.Equal(models.ChannelRoom("channel-2"), starts[1].room)
}

func (s *TypingServiceTestSuite) TestDisconnectCancelsTimersSilently() {
	s.start()

	err := s.svc.HandleDisconnect(s.ctx, &HandleDisconnectInput{ConnID: "conn-1"})
	s.Require().NoError(err)

	time.Sleep(3 * s.expireAfter)

	s.Empty(s.dispatcher.eventsOfType(models.EventTypingStop))
}

func (s *TypingServiceTestSuite) TestCacheOutageStillBroadcasts() {
	s.mr.Close()

	s.start()

	s.Len(s.dispatcher.eventsOfType(models.EventTypingStart), 1)
}

func (s *TypingServiceTestSuite) TestValidation() {
	err := s.svc.StartTyping(s.ctx, &StartTypingInput{ChannelID: "channel-1"})
	s.ErrorIs(err, ErrEmptyConnID)

	err = s.svc.StartTyping(s.ctx, &StartTypingInput{ConnID: "conn-1"})
	s.ErrorIs(err, ErrEmptyChannelID)

	err = s.svc.StopTyping(s.ctx, nil)
	s.ErrorIs(err, ErrEmptyConnID)

	err = s.svc.HandleDisconnect(s.ctx, &HandleDisconnectInput{})
	s.ErrorIs(err, ErrEmptyConnID)
}
