package storage

import (
	"context"
	"sync"
	"time"

	"leadboard/internal/models"
)

// MemoryStore keeps the snapshot in process memory. A non-positive ttl keeps
// it forever.
type MemoryStore struct {
	mu       sync.RWMutex
	records  []models.RawRecord
	storedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl: ttl,
		now: time.Now,
	}
}

func (s *MemoryStore) Store(_ context.Context, records []models.RawRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]models.RawRecord, len(records))
	copy(s.records, records)
	s.storedAt = s.now()
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.records == nil || s.expired() {
		return Snapshot{}, false, nil
	}

	records := make([]models.RawRecord, len(s.records))
	copy(records, s.records)
	return Snapshot{Records: records, StoredAt: s.storedAt}, true, nil
}

func (s *MemoryStore) GetLastStoreTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storedAt
}

func (s *MemoryStore) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records != nil && !s.expired()
}

func (s *MemoryStore) expired() bool {
	return s.ttl > 0 && s.now().Sub(s.storedAt) >= s.ttl
}
