package storage

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps values in process memory. Used for local development
// and tests; nothing survives a restart.
type MemoryStore struct {
	values map[string]string
	mutex  sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

func (ms *MemoryStore) Get(_ context.Context, key string) (string, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	val, ok := ms.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (ms *MemoryStore) Set(_ context.Context, key, value string) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.values[key] = value
	return nil
}

func (ms *MemoryStore) Delete(_ context.Context, key string) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	delete(ms.values, key)
	return nil
}
