// Package cache holds the gateway's in-process caches. The only one today is
// the bounded guild membership cache that fronts the distributed cache and
// the relational store at connect time.
package cache

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"
)

type membershipEntry struct {
	guildIDs []string

	// seq orders entries by insertion; eviction keeps the highest N
	seq uint64
}

// Config holds configuration for the membership cache
type Config struct {
	// Capacity is the hard entry bound
	Capacity int

	// SweepInterval is how often the background sweep runs
	SweepInterval time.Duration

	// Logger for sweep reporting
	Logger *slog.Logger
}

// Membership is a bounded user→guild-ids cache, safe for concurrent use.
// Eviction keeps the most recently inserted entries rather than tracking
// strict LRU; the entries only steer room joins at connect time, so losing a
// warm entry just costs one recomputation.
type Membership struct {
	mu      sync.RWMutex
	entries map[string]*membershipEntry
	seq     uint64

	capacity      int
	sweepInterval time.Duration
	logger        *slog.Logger

	done     chan struct{}
	stopOnce sync.Once
}

// NewMembership creates a new bounded membership cache and starts its sweep
// goroutine. Callers must Close it to stop the sweeper.
func NewMembership(cfg *Config) (*Membership, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Capacity <= 0 {
		return nil, errors.New("capacity must be positive")
	}

	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	sweepInterval := cfg.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}

	c := &Membership{
		entries:       make(map[string]*membershipEntry),
		capacity:      cfg.Capacity,
		sweepInterval: sweepInterval,
		logger:        cfg.Logger.With(slog.String("component", "membership_cache")),
		done:          make(chan struct{}),
	}

	go c.sweepLoop()

	return c, nil
}

// Get returns the cached guild ids for a user.
func (c *Membership) Get(userID string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	return entry.guildIDs, true
}

// Set inserts or replaces a user's guild ids. The capacity bound holds after
// every insert, not just after a sweep.
func (c *Membership) Set(userID string, guildIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.entries[userID] = &membershipEntry{
		guildIDs: guildIDs,
		seq:      c.seq,
	}

	if len(c.entries) > c.capacity {
		c.evictLocked()
	}
}

// Delete removes a user's entry, if present.
func (c *Membership) Delete(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, userID)
}

// Len returns the current entry count.
func (c *Membership) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close stops the sweep goroutine.
func (c *Membership) Close() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
}

// evictLocked drops the oldest-inserted entries until the cache is back at
// capacity. Caller holds the write lock.
func (c *Membership) evictLocked() {
	excess := len(c.entries) - c.capacity
	if excess <= 0 {
		return
	}

	type aged struct {
		userID string
		seq    uint64
	}

	all := make([]aged, 0, len(c.entries))
	for userID, entry := range c.entries {
		all = append(all, aged{userID: userID, seq: entry.seq})
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].seq < all[j].seq
	})

	for i := 0; i < excess; i++ {
		delete(c.entries, all[i].userID)
	}
}

func (c *Membership) sweepLoop() {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			before := len(c.entries)
			c.evictLocked()
			after := len(c.entries)
			c.mu.Unlock()

			if before != after {
				c.logger.Debug("membership cache sweep evicted entries",
					slog.Int("before", before),
					slog.Int("after", after))
			}
		}
	}
}
