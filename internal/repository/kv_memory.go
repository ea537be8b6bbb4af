package repository

import (
	"context"
	"sync"

	apperrors "github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/errors"
)

// MemoryKV is a process-local KVRepository, used by the memory storage
// driver and by tests.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
	// FailPut, when set, makes PutAll fail without writing.
	FailPut error
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, apperrors.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) PutAll(ctx context.Context, entries map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut != nil {
		return m.FailPut
	}
	for k, v := range entries {
		m.data[k] = append([]byte(nil), v...)
	}
	return nil
}

// Set stores a single raw value.
func (m *MemoryKV) Set(key string, value []byte) {
	m.mu.Lock()
	m.data[key] = append([]byte(nil), value...)
	m.mu.Unlock()
}
