package state

import (
	"github.com/mesh-intelligence/assetledger/pkg/types"
)

// Open validates cfg and returns the StateStore it selects. The caller owns
// the store and must Close it.
func Open(cfg types.Config) (types.StateStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case types.BackendSQLite:
		s, err := NewSQLiteStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.BackendPostgres:
		s, err := NewPostgresStore(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, types.ErrBackendUnknown
	}
}
