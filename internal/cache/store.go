// Package cache provides an in-process TTL key-value store.
package cache

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/logger"
)

const (
	// DefaultTTL applies when Set is called without a positive ttl.
	DefaultTTL = time.Hour
	// DefaultSweepInterval is how often Run removes expired entries.
	DefaultSweepInterval = 2 * time.Minute
)

// Entry is a cached value together with its key and expiry.
type Entry[V any] struct {
	Key       string
	Value     V
	ExpiresAt time.Time
}

func (e *Entry[V]) expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Stats reports cache activity since creation or the last Clear.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Keys   int   `json:"keys"`
}

// Options configure a Store. Zero values fall back to the defaults.
type Options struct {
	DefaultTTL    time.Duration
	SweepInterval time.Duration
	// Now replaces time.Now, for tests.
	Now func() time.Time
}

// Store is a TTL cache safe for concurrent use. Writes are last-write-wins.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]*Entry[V]

	hits   atomic.Int64
	misses atomic.Int64

	defaultTTL    time.Duration
	sweepInterval time.Duration
	now           func() time.Time
}

// New creates an empty Store.
func New[V any](opts Options) *Store[V] {
	s := &Store[V]{
		entries:       make(map[string]*Entry[V]),
		defaultTTL:    opts.DefaultTTL,
		sweepInterval: opts.SweepInterval,
		now:           opts.Now,
	}
	if s.defaultTTL <= 0 {
		s.defaultTTL = DefaultTTL
	}
	if s.sweepInterval <= 0 {
		s.sweepInterval = DefaultSweepInterval
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Get returns the value for key if it is present and unexpired.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || entry.expired(s.now()) {
		s.misses.Add(1)
		var zero V
		return zero, false
	}
	s.hits.Add(1)
	return entry.Value, true
}

// Peek is Get without touching the hit and miss counters.
func (s *Store[V]) Peek(key string) (V, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || entry.expired(s.now()) {
		var zero V
		return zero, false
	}
	return entry.Value, true
}

// Set stores value under key, replacing any existing entry.
// A ttl of zero or less uses the store's default TTL.
func (s *Store[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	entry := &Entry[V]{Key: key, Value: value, ExpiresAt: s.now().Add(ttl)}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
}

// Delete removes key and returns the number of entries removed, 0 or 1.
func (s *Store[V]) Delete(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return 0
	}
	delete(s.entries, key)
	return 1
}

// Clear removes every entry and resets the hit and miss counters.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]*Entry[V])
	s.mu.Unlock()

	s.hits.Store(0)
	s.misses.Store(0)
}

// Stats returns hit and miss counts and the number of unexpired keys.
// Expired entries awaiting a sweep are not counted.
func (s *Store[V]) Stats() Stats {
	now := s.now()

	s.mu.RLock()
	keys := 0
	for _, entry := range s.entries {
		if !entry.expired(now) {
			keys++
		}
	}
	s.mu.RUnlock()

	return Stats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Keys:   keys,
	}
}

// Keys returns the unexpired keys in sorted order.
func (s *Store[V]) Keys() []string {
	now := s.now()

	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for key, entry := range s.entries {
		if !entry.expired(now) {
			keys = append(keys, key)
		}
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Sweep physically removes expired entries and returns how many it removed.
// Expired keys are collected under the read lock and deleted one at a time,
// so readers are never blocked for a full pass.
func (s *Store[V]) Sweep() int {
	now := s.now()
	return s.removeExpired(s.collectExpired(now), now)
}

func (s *Store[V]) collectExpired(now time.Time) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var expired []string
	for key, entry := range s.entries {
		if entry.expired(now) {
			expired = append(expired, key)
		}
	}
	return expired
}

func (s *Store[V]) removeExpired(keys []string, now time.Time) int {
	removed := 0
	for _, key := range keys {
		s.mu.Lock()
		// A Set may have refreshed the key since it was collected.
		if entry, ok := s.entries[key]; ok && entry.expired(now) {
			delete(s.entries, key)
			removed++
		}
		s.mu.Unlock()
	}
	return removed
}

// Run sweeps expired entries every sweep interval until ctx is done.
func (s *Store[V]) Run(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Infof("cache: swept %d expired entries", n)
			}
		}
	}
}
