package quota

import (
	"context"
	"sync"

	"quickai/internal/domain"
)

// MemoryStore keeps counters in process memory. It backs tests and
// QUOTA_BACKEND=memory for local runs.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[domain.Identity]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[domain.Identity]int)}
}

func (m *MemoryStore) Load(_ context.Context, id domain.Identity) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count, ok := m.counters[id]
	return count, ok, nil
}

func (m *MemoryStore) InitializeIfAbsent(_ context.Context, id domain.Identity) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count, ok := m.counters[id]
	if !ok {
		m.counters[id] = 0
	}
	return count, nil
}

func (m *MemoryStore) Increment(_ context.Context, id domain.Identity) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[id]++
	return m.counters[id], nil
}

func (m *MemoryStore) Reset(_ context.Context, id domain.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[id] = 0
	return nil
}

// Set seeds a counter.
func (m *MemoryStore) Set(id domain.Identity, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[id] = count
}

var _ Store = (*MemoryStore)(nil)
