package datastore

import (
	"errors"
	"sync"
)

var errMissingKey = errors.New("key not found")

// MemorySlot keeps values in process memory only
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: map[string][]byte{}}
}

func (m *MemorySlot) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, errEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return nil, NoRowsError{true, errMissingKey}
	}
	return append([]byte(nil), value...), nil
}

func (m *MemorySlot) Set(key string, value []byte) error {
	if key == "" {
		return errEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemorySlot) Remove(key string) error {
	if key == "" {
		return errEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
