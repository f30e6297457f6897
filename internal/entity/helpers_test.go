package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/assetledger/internal/keys"
	"github.com/mesh-intelligence/assetledger/internal/state"
	"github.com/mesh-intelligence/assetledger/pkg/types"
)

var errInjected = errors.New("injected store failure")

// faultyStore wraps a MemoryStore and fails chosen operations. It records
// the keys of successful puts in order.
type faultyStore struct {
	*state.MemoryStore
	failPut  map[string]bool
	failGet  bool
	failScan bool
	puts     []string
}

func newFaultyStore() *faultyStore {
	return &faultyStore{MemoryStore: state.NewMemoryStore(), failPut: make(map[string]bool)}
}

func (f *faultyStore) Get(key string) ([]byte, bool, error) {
	if f.failGet {
		return nil, false, errInjected
	}
	return f.MemoryStore.Get(key)
}

func (f *faultyStore) Put(key string, value []byte) error {
	if f.failPut[key] {
		return errInjected
	}
	f.puts = append(f.puts, key)
	return f.MemoryStore.Put(key, value)
}

func (f *faultyStore) ScanPrefix(prefix string) ([]types.KV, error) {
	if f.failScan {
		return nil, errInjected
	}
	return f.MemoryStore.ScanPrefix(prefix)
}

// snapshot returns the raw store contents keyed by state key.
func snapshot(t *testing.T, s types.StateStore) map[string]string {
	t.Helper()
	kvs, err := s.ScanPrefix("")
	require.NoError(t, err)
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		out[kv.Key] = string(kv.Value)
	}
	return out
}

// seed writes owners and items through a throwaway manager so tests start
// from a consistent store, then returns a fresh manager with a cold cache.
func seed(t *testing.T, s types.StateStore, owners []string, items map[string]string) *Manager {
	t.Helper()
	m := NewManager(s)
	for _, id := range owners {
		_, err := m.CreateOwner(id, "First "+id, "Last "+id)
		require.NoError(t, err)
	}
	for itemID, ownerID := range items {
		it := types.NewItem(itemID, "blue", 5, 300)
		it.OwnerID = ownerID
		require.NoError(t, m.CreateItem(it))
	}
	return NewManager(s)
}

func itemKey(id string) string  { return keys.Compose(types.KindItem, id) }
func ownerKey(id string) string { return keys.Compose(types.KindOwner, id) }
