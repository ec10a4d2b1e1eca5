// internal/store/memory.go
package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process adapter used for development and tests. An
// optional quota (total payload bytes) makes it behave like a constrained
// browser store for exercising the truncation path.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string][]byte
	quota int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// NewMemoryStoreWithQuota limits the total stored bytes across all keys.
func NewMemoryStoreWithQuota(quotaBytes int) *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte), quota: quotaBytes}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.quota > 0 {
		total := len(value)
		for k, v := range m.data {
			if k == key {
				continue
			}
			total += len(v)
		}
		if total > m.quota {
			return ErrQuotaExceeded
		}
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
