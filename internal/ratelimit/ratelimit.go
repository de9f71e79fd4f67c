package ratelimit

import (
	"sync"
	"time"
)

// CounterStore counts events per identity with TTL-based reset. It sits
// behind an interface so multiple service instances can share a backing
// store; the in-process implementation below is for single-instance
// deployments and tests.
type CounterStore interface {
	// Incr bumps the counter for key, starting a fresh window of ttl when
	// none is running, and returns the new count.
	Incr(key string, ttl time.Duration) (int64, error)
}

type entry struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore is a mutex-guarded map with lazy expiry.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Incr(key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok || now.After(e.expiresAt) {
		e = &entry{expiresAt: now.Add(ttl)}
		s.entries[key] = e
	}
	e.count++
	return e.count, nil
}
