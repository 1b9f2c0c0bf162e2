package typing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/unitychat/gateway/internal/models"
	typingRepo "github.com/unitychat/gateway/internal/repositories/typing"
	"github.com/unitychat/gateway/internal/services/fanout"
)

const (
	// DefaultExpireAfter is the debounce window after the last typing.start
	DefaultExpireAfter = 5 * time.Second

	// DefaultStateTTL is the TTL on the channel-level typing set, the
	// safety net when no stop is ever delivered
	DefaultStateTTL = 10 * time.Second
)

// timerKey identifies one debounced indicator
type timerKey struct {
	connID    string
	channelID string
}

// timerEntry pairs a timer with the generation that armed it, so a stale
// expiry racing a re-arm can tell it lost
type timerEntry struct {
	timer *time.Timer
	gen   uint64
}

// Config holds configuration for the typing coordinator
type Config struct {
	// TypingRepo is the distributed typing state (secondary safety net)
	TypingRepo typingRepo.Repository

	// Dispatcher relays typing events to channel rooms
	Dispatcher fanout.Dispatcher

	// Logger for best-effort cache failures
	Logger *slog.Logger

	// ExpireAfter is the debounce window; DefaultExpireAfter when zero
	ExpireAfter time.Duration

	// StateTTL for the channel typing set; DefaultStateTTL when zero
	StateTTL time.Duration
}

// service implements the Service interface
type service struct {
	typingRepo typingRepo.Repository
	dispatcher fanout.Dispatcher
	logger     *slog.Logger

	expireAfter time.Duration
	stateTTL    time.Duration

	mu     sync.Mutex
	gen    uint64
	timers map[timerKey]*timerEntry
}

// New creates a new typing coordinator
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.TypingRepo == nil {
		return nil, ErrNilTypingRepo
	}

	if cfg.Dispatcher == nil {
		return nil, ErrNilDispatcher
	}

	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}

	expireAfter := cfg.ExpireAfter
	if expireAfter == 0 {
		expireAfter = DefaultExpireAfter
	}

	stateTTL := cfg.StateTTL
	if stateTTL == 0 {
		stateTTL = DefaultStateTTL
	}

	return &service{
		typingRepo:  cfg.TypingRepo,
		dispatcher:  cfg.Dispatcher,
		logger:      cfg.Logger.With(slog.String("component", "typing")),
		expireAfter: expireAfter,
		stateTTL:    stateTTL,
		timers:      make(map[timerKey]*timerEntry),
	}, nil
}

// StartTyping broadcasts typing.start on the idle-to-typing transition and
// arms (or re-arms) the expiry timer. Repeated calls inside the window only
// push the expiry out; observers already saw the start.
func (s *service) StartTyping(ctx context.Context, input *StartTypingInput) error {
	if input == nil || input.ConnID == "" {
		return ErrEmptyConnID
	}

	if input.ChannelID == "" {
		return ErrEmptyChannelID
	}

	key := timerKey{connID: input.ConnID, channelID: input.ChannelID}

	s.mu.Lock()
	existing, wasTyping := s.timers[key]
	if wasTyping {
		existing.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timers[key] = &timerEntry{
		timer: time.AfterFunc(s.expireAfter, func() {
			s.expire(key, gen, input)
		}),
		gen: gen,
	}
	s.mu.Unlock()

	// Refresh the safety-net TTL on every start, broadcast only on the
	// first
	if err := s.typingRepo.AddTyper(ctx, &typingRepo.AddTyperInput{
		ChannelID: input.ChannelID,
		UserID:    input.UserID,
		TTL:       s.stateTTL,
	}); err != nil {
		s.logger.Warn("failed to write typing state",
			slog.String("channel_id", input.ChannelID),
			slog.Any("error", err))
	}

	if wasTyping {
		return nil
	}

	s.dispatcher.Broadcast(models.ChannelRoom(input.ChannelID), models.NewEvent(models.EventTypingStart, &models.TypingEvent{
		UserID:    input.UserID,
		Username:  input.Username,
		ChannelID: input.ChannelID,
	}), input.ConnID)

	return nil
}

// StopTyping cancels the timer and broadcasts typing.stop.
func (s *service) StopTyping(ctx context.Context, input *StopTypingInput) error {
	if input == nil || input.ConnID == "" {
		return ErrEmptyConnID
	}

	if input.ChannelID == "" {
		return ErrEmptyChannelID
	}

	key := timerKey{connID: input.ConnID, channelID: input.ChannelID}

	s.mu.Lock()
	if entry, ok := s.timers[key]; ok {
		entry.timer.Stop()
		delete(s.timers, key)
	}
	s.mu.Unlock()

	s.clearAndBroadcastStop(input.ChannelID, input.UserID, input.ConnID)
	return nil
}

// HandleDisconnect cancels every timer owned by the connection. No stop
// events are emitted; the channel-level TTL covers the remaining window.
func (s *service) HandleDisconnect(ctx context.Context, input *HandleDisconnectInput) error {
	if input == nil || input.ConnID == "" {
		return ErrEmptyConnID
	}

	s.mu.Lock()
	for key, entry := range s.timers {
		if key.connID == input.ConnID {
			entry.timer.Stop()
			delete(s.timers, key)
		}
	}
	s.mu.Unlock()

	return nil
}

// expire fires when the debounce window elapses without another start.
func (s *service) expire(key timerKey, gen uint64, input *StartTypingInput) {
	s.mu.Lock()
	// A re-arm or an explicit stop superseded this timer; whichever entry
	// is current owns the expiry
	entry, ok := s.timers[key]
	if !ok || entry.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.timers, key)
	s.mu.Unlock()

	s.clearAndBroadcastStop(input.ChannelID, input.UserID, input.ConnID)
}

func (s *service) clearAndBroadcastStop(channelID, userID, connID string) {
	if err := s.typingRepo.RemoveTyper(context.Background(), &typingRepo.RemoveTyperInput{
		ChannelID: channelID,
		UserID:    userID,
	}); err != nil {
		s.logger.Warn("failed to clear typing state",
			slog.String("channel_id", channelID),
			slog.Any("error", err))
	}

	s.dispatcher.Broadcast(models.ChannelRoom(channelID), models.NewEvent(models.EventTypingStop, &models.TypingEvent{
		UserID:    userID,
		ChannelID: channelID,
	}), connID)
}
