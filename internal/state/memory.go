// Package state implements the StateStore backends: an in-process map, an
// embedded SQLite database, and PostgreSQL. All of them store opaque values
// under byte-ordered keys and support nothing beyond single-key writes and
// prefix scans.
package state

import (
	"slices"
	"strings"
	"sync"

	"github.com/mesh-intelligence/assetledger/pkg/types"
)

// MemoryStore is a StateStore backed by a map. Values are copied on the way
// in and out so callers cannot alias stored bytes.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get implements types.StateStore.
func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, types.ErrStoreClosed
	}
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

// Put implements types.StateStore.
func (s *MemoryStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	s.data[key] = slices.Clone(value)
	return nil
}

// Delete implements types.StateStore.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	delete(s.data, key)
	return nil
}

// ScanPrefix implements types.StateStore.
func (s *MemoryStore) ScanPrefix(prefix string) ([]types.KV, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, types.ErrStoreClosed
	}
	var out []types.KV
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, types.KV{Key: k, Value: slices.Clone(v)})
		}
	}
	slices.SortFunc(out, func(a, b types.KV) int { return strings.Compare(a.Key, b.Key) })
	return out, nil
}

// Close implements types.StateStore. Idempotent.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
