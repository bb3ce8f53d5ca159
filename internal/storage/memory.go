package storage

import (
	"context"
	"sync"
)

var _ KeyValueStore = (*MemoryStore)(nil)

// MemoryStore keeps everything in a map. Used by tests and the "memory" backend.
type MemoryStore struct {
	data  map[string][]byte
	mutex sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	val, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	val := make([]byte, len(value))
	copy(val, value)
	m.data[key] = val
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.data, key)
	return nil
}

// Keys lists the stored keys, for tests.
func (m *MemoryStore) Keys() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}
