package session

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	mu      sync.RWMutex
	records map[int64]*Record
	now     func() time.Time
}

// NewMemoryStore constructs an in-memory Store for tests and the
// storage "memory" mode. It also implements Directory.
func NewMemoryStore() Store {
	return &memoryStore{
		records: make(map[int64]*Record),
		now:     time.Now,
	}
}

func (m *memoryStore) GetOrCreate(_ context.Context, id int64, profile Profile) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec, ok := m.records[id]; ok {
		return rec.Clone(), nil
	}

	rec := &Record{
		ID:        id,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Username:  profile.Username,
		Lang:      LangEN,
		JoinedAt:  m.now(),
		State:     StateAwaitingLanguage,
	}
	m.records[id] = rec
	return rec.Clone(), nil
}

func (m *memoryStore) Save(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec.Clone()
	return nil
}

func (m *memoryStore) Has(_ context.Context, id int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	return ok && rec.State != StateTerminated
}

func (m *memoryStore) List(_ context.Context) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (m *memoryStore) Put(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec.Clone()
	return nil
}
