package repo

import (
	"context"
	"sync"
)

// MemoryKV хранит значения в памяти процесса. Используется в тестах
// и как backend "memory".
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	m.mu.Lock()
	m.data[key] = v
	m.mu.Unlock()
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}
