// Package cache provides the process-wide response cache used by the
// document gateway: time-boxed entries keyed by request identity, invalidated
// explicitly after mutating operations. There is deliberately no eviction
// beyond TTL expiry — no size bound and no LRU — matching how the cache is
// consumed: a handful of list/get responses per user session.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL bounds how stale a cached response may be served.
const DefaultTTL = 2 * time.Minute

// Clock returns the current time; injectable for tests.
type Clock func() time.Time

// Option customises a Store.
type Option func(*Store)

// WithClock replaces the wall clock.
func WithClock(now Clock) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTTL overrides the default entry lifetime. Non-positive values keep the
// default.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is a TTL map safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	now     Clock
	ttl     time.Duration
	entries map[string]entry
}

// New constructs a Store with the default TTL unless overridden.
func New(opts ...Option) *Store {
	s := &Store{
		now:     time.Now,
		ttl:     DefaultTTL,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Get returns the cached value for key when present and not expired. Expired
// entries are removed on access.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with a fresh TTL.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(s.ttl)}
}

// Invalidate drops the given keys immediately.
func (s *Store) Invalidate(keys ...string) {
	if len(keys) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
}

// Len reports the number of live entries, counting out anything expired.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
			continue
		}
		n++
	}
	return n
}
