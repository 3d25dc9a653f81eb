package cache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	portscache "github.com/SscSPs/cash_memo_ledger/internal/core/ports/cache"
)

// Clock abstracts time so expiry can be driven by tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the part of *time.Timer the cache needs.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// memoryEntry wraps a cached value with the time it was stored and its ttl.
type memoryEntry struct {
	value    []byte
	storedAt time.Time
	ttl      time.Duration
	timer    Timer
}

// expired reports now - storedAt > ttl.
func (e *memoryEntry) expired(now time.Time) bool {
	return now.Sub(e.storedAt) > e.ttl
}

// MemoryStore is a goroutine-safe TTL cache held in process memory.
// Expired entries are evicted by a timer at ttl and, as a guard against a
// late or lost timer, on read.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	clock   Clock
	logger  *slog.Logger
}

// MemoryStoreOption is a functional option for configuring the memory store.
type MemoryStoreOption func(*MemoryStore)

// WithClock replaces the system clock.
func WithClock(clock Clock) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.clock = clock
	}
}

// WithMemoryLogger sets the logger used for cache diagnostics.
func WithMemoryLogger(logger *slog.Logger) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.logger = logger
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		clock:   systemClock{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portscache.Store = (*MemoryStore)(nil)

// Get returns the value for key unless it is absent or expired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if e.expired(s.clock.Now()) {
		s.removeLocked(key, e)
		s.logger.Debug("Evicted expired cache entry on read", slog.String("key", key))
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores value under key, replacing any previous value and pending expiry.
// A ttl <= 0 removes the key.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[key]; ok {
		s.removeLocked(key, old)
	}
	if ttl <= 0 {
		return nil
	}

	e := &memoryEntry{value: value, storedAt: s.clock.Now(), ttl: ttl}
	e.timer = s.clock.AfterFunc(ttl, func() { s.expire(key, e) })
	s.entries[key] = e
	return nil
}

// expire runs from the entry's timer. It only removes the entry it was armed for,
// so a timer that fires after the key was overwritten does nothing.
func (s *MemoryStore) expire(key string, e *memoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.entries[key]; ok && current == e {
		delete(s.entries, key)
	}
}

func (s *MemoryStore) removeLocked(key string, e *memoryEntry) {
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(s.entries, key)
}

// Delete removes keys.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		if e, ok := s.entries[key]; ok {
			s.removeLocked(key, e)
		}
	}
	return nil
}

// DeletePrefix removes every key starting with prefix.
func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if strings.HasPrefix(key, prefix) {
			s.removeLocked(key, e)
		}
	}
	return nil
}

// Clear removes every key.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		s.removeLocked(key, e)
	}
	return nil
}

// Len returns the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
