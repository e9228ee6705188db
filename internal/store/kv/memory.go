package kv

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrijs2005/rfpmonitor/internal/common"
)

// MemoryRepository keeps values in process. A positive quota caps the total
// stored bytes (keys plus values); Fail makes every call return an error
// until cleared, to simulate an unavailable medium.
type MemoryRepository struct {
	mu     sync.Mutex
	data   map[string][]byte
	quota  int
	failed error
}

func NewMemoryRepository(quota int) *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte), quota: quota}
}

// Fail sets (or with nil clears) the error returned by every operation.
func (m *MemoryRepository) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = err
}

func (m *MemoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, m.failed)
	}
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(v), nil
}

func (m *MemoryRepository) Set(ctx context.Context, key string, value []byte) error {
	return m.SetMany(ctx, map[string][]byte{key: value})
}

func (m *MemoryRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed != nil {
		return fmt.Errorf("failed to set kv: %w", m.failed)
	}

	if m.quota > 0 {
		next := maps.Clone(m.data)
		for k, v := range values {
			next[k] = v
		}
		if size(next) > m.quota {
			return fmt.Errorf("failed to set kv: %w", common.ErrQuotaExceeded)
		}
	}

	for k, v := range values {
		m.data[k] = slices.Clone(v)
	}
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, m.failed)
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryRepository) List(ctx context.Context) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed != nil {
		return nil, fmt.Errorf("failed to list kv: %w", m.failed)
	}
	out := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		out[k] = slices.Clone(v)
	}
	return out, nil
}

func (m *MemoryRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed != nil {
		return fmt.Errorf("failed to clear kv: %w", m.failed)
	}
	clear(m.data)
	return nil
}

func size(data map[string][]byte) int {
	n := 0
	for k, v := range data {
		n += len(k) + len(v)
	}
	return n
}
