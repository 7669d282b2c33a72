package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Used in development and in
// the CLI, where a single conversation lives and dies with the process.
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string]memoryEntry
	ttl     time.Duration
	maxSize int
	done    chan struct{}
	once    sync.Once
}

type memoryEntry struct {
	snap      Snapshot
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(ttl time.Duration, maxSize int) *MemoryStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if maxSize <= 0 {
		maxSize = 10000
	}

	s := &MemoryStore{
		data:    make(map[string]memoryEntry),
		ttl:     ttl,
		maxSize: maxSize,
		done:    make(chan struct{}),
	}
	go s.cleanup()
	return s
}

// Get retrieves a session snapshot.
func (s *MemoryStore) Get(_ context.Context, id string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return Snapshot{}, ErrNotFound
	}
	return entry.snap, nil
}

// Put stores a session snapshot, resetting its TTL.
func (s *MemoryStore) Put(_ context.Context, id string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data) >= s.maxSize {
		s.evictOldest()
	}
	s.data[id] = memoryEntry{snap: snap, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, id)
	return nil
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

// evictOldest removes the entry closest to expiry. Caller holds the lock.
func (s *MemoryStore) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range s.data {
		if oldestKey == "" || entry.expiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.expiresAt
		}
	}
	if oldestKey != "" {
		delete(s.data, oldestKey)
	}
}

func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for key, entry := range s.data {
				if now.After(entry.expiresAt) {
					delete(s.data, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

var _ Store = (*MemoryStore)(nil)
