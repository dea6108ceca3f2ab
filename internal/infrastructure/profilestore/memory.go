package profilestore

import (
	"context"
	"fmt"
	"sync"

	"github.com/mrowtown/cali-votes/internal/domain"
)

// MemoryKV is an in-process KV backing. It is the default in development
// and the substitute backing under test.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func memKey(profileID, record string) string {
	return profileID + "/" + record
}

func (m *MemoryKV) Put(_ context.Context, profileID, record string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	m.data[memKey(profileID, record)] = cp
	return nil
}

func (m *MemoryKV) Get(_ context.Context, profileID, record string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.data[memKey(profileID, record)]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", record, domain.ErrNotFound)
	}
	return raw, nil
}

func (m *MemoryKV) Delete(_ context.Context, profileID, record string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, memKey(profileID, record))
	return nil
}

func (m *MemoryKV) Take(_ context.Context, profileID, record string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memKey(profileID, record)
	raw, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", record, domain.ErrNotFound)
	}
	delete(m.data, key)
	return raw, nil
}
