// Package memcache is an in-process key/value store with per-entry expiry.
package memcache

import (
	"sort"
	"sync"
	"time"
)

type Store[V any] interface {
	Set(key string, value V, ttl time.Duration)
	Get(key string) (V, bool)

	// Consume returns the value and removes it (single-use). Missing or expired keys report false.
	Consume(key string) (V, bool)
	Delete(key string)
	Len() int
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

type TTLStore[V any] struct {
	mu   sync.RWMutex
	data map[string]entry[V]
	now  func() time.Time
	max  int
}

type Option func(*options)

type options struct {
	now        func() time.Time
	maxEntries int
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithMaxEntries bounds the store to n entries. Past the limit expired entries are swept first,
// then the entries closest to expiry are evicted until a tenth of the room is free again.
func WithMaxEntries(n int) Option {
	return func(o *options) { o.maxEntries = n }
}

func New[V any](opts ...Option) *TTLStore[V] {
	o := options{now: time.Now, maxEntries: 1000}
	for _, opt := range opts {
		opt(&o)
	}
	return &TTLStore[V]{
		data: make(map[string]entry[V]),
		now:  o.now,
		max:  o.maxEntries,
	}
}

// Set stores value under key. A ttl <= 0 never expires.
func (s *TTLStore[V]) Set(key string, value V, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry[V]{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.data[key] = e
	if s.max > 0 && len(s.data) > s.max {
		s.sweepLocked()
		s.evictLocked(key)
	}
}

func (s *TTLStore[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero V
	e, ok := s.data[key]
	if !ok || e.expired(s.now()) {
		return zero, false
	}
	return e.value, true
}

func (s *TTLStore[V]) Consume(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	e, ok := s.data[key]
	if !ok {
		return zero, false
	}
	delete(s.data, key)
	if e.expired(s.now()) {
		return zero, false
	}
	return e.value, true
}

func (s *TTLStore[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Len counts live entries.
func (s *TTLStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	n := 0
	for _, e := range s.data {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

func (s *TTLStore[V]) sweepLocked() {
	now := s.now()
	for k, e := range s.data {
		if e.expired(now) {
			delete(s.data, k)
		}
	}
}

// evictLocked drops the soonest-expiring entries, never-expiring ones last, keeping keep.
func (s *TTLStore[V]) evictLocked(keep string) {
	if len(s.data) <= s.max {
		return
	}
	target := s.max - s.max/10
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if k != keep {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := s.data[keys[i]].expiresAt, s.data[keys[j]].expiresAt
		if a.IsZero() != b.IsZero() {
			return b.IsZero()
		}
		return a.Before(b)
	})
	for _, k := range keys {
		if len(s.data) <= target {
			return
		}
		delete(s.data, k)
	}
}
