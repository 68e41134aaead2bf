package gatewaytest

import (
	"maps"
	"sync"

	"github.com/mesh-intelligence/spectro/pkg/types"
)

// MemoryKV is a map-backed types.KeyValueStore.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryKV returns a store holding a copy of initial.
func NewMemoryKV(initial map[string]string) *MemoryKV {
	data := make(map[string]string, len(initial))
	maps.Copy(data, initial)
	return &MemoryKV{data: data}
}

func (m *MemoryKV) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", types.ErrNotFound
	}
	return v, nil
}

func (m *MemoryKV) Set(key, value string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}
