package session

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps session records in process memory. It backs tests
// and serves as the failover target when Redis is unavailable; records held
// here do not survive a restart.
type MemoryRepository struct {
	records sync.Map
	ttl     time.Duration
}

type memoryEntry struct {
	record    *Record
	expiresAt time.Time
}

func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{ttl: ttl}
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*Record, error) {
	val, ok := r.records.Load(id)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if r.ttl > 0 && time.Now().After(entry.expiresAt) {
		r.records.Delete(id)
		return nil, nil
	}
	return entry.record, nil
}

func (r *MemoryRepository) Set(ctx context.Context, record *Record) error {
	r.records.Store(record.ID, &memoryEntry{
		record:    record,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.records.Delete(id)
	return nil
}
