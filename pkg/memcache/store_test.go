package memcache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestGetHonoursExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := New[string](WithClock(clock.Now))

	s.Set("a", "apple", time.Minute)
	s.Set("b", "banana", 0)

	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "apple", v)

	clock.t = clock.t.Add(2 * time.Minute)
	_, ok = s.Get("a")
	assert.False(t, ok)

	v, ok = s.Get("b")
	assert.True(t, ok, "zero ttl never expires")
	assert.Equal(t, "banana", v)
	assert.Equal(t, 1, s.Len())
}

func TestConsumeIsSingleUse(t *testing.T) {
	s := New[int]()
	s.Set("k", 7, time.Hour)

	v, ok := s.Consume("k")
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = s.Consume("k")
	assert.False(t, ok)
}

func TestSweepRemovesExpiredEntriesPastLimit(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	s := New[int](WithClock(clock.Now), WithMaxEntries(2))

	s.Set("old1", 1, time.Second)
	s.Set("old2", 2, time.Second)
	clock.t = clock.t.Add(time.Minute)
	s.Set("new", 3, time.Hour)

	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.Len(t, s.data, 1)
}

func TestDelete(t *testing.T) {
	s := New[string]()
	s.Set("x", "y", time.Hour)
	s.Delete("x")
	_, ok := s.Get("x")
	assert.False(t, ok)
}

func TestFullStoreEvictsSoonestExpiring(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := New[int](WithClock(clock.Now), WithMaxEntries(10))

	s.Set("forever", 0, 0)
	for i := 1; i <= 9; i++ {
		s.Set(fmt.Sprintf("k%d", i), i, time.Duration(i)*time.Minute)
	}
	assert.Equal(t, 10, s.Len())

	s.Set("fresh", 42, time.Second)
	assert.Equal(t, 9, s.Len())

	for key, want := range map[string]bool{"fresh": true, "forever": true, "k1": false, "k2": false, "k3": true, "k9": true} {
		_, ok := s.Get(key)
		assert.Equal(t, want, ok, key)
	}
}
