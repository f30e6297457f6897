package entity

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/assetledger/pkg/types"
)

// encode returns the canonical record for e. Callers normalize owners
// before encoding so the owned-set is written sorted.
func encode(e types.Entity) ([]byte, error) {
	switch e.Kind() {
	case types.KindItem, types.KindOwner:
	default:
		return nil, types.ErrInvalidKind
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding %s %q: %w", e.Kind(), e.EntityID(), err)
	}
	return data, nil
}

// decodeItem parses an item record stored under id. Anything that does not
// yield a well-formed, bound item with a matching id is ErrInvalidState.
func decodeItem(id string, data []byte) (*types.Item, error) {
	var it types.Item
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, fmt.Errorf("decoding item %q: %v: %w", id, err, types.ErrInvalidState)
	}
	if it.ItemID != id {
		return nil, fmt.Errorf("item record under %q carries id %q: %w", id, it.ItemID, types.ErrInvalidState)
	}
	if !it.Bound() {
		return nil, fmt.Errorf("item %q has no owner: %w", id, types.ErrInvalidState)
	}
	return &it, nil
}

// decodeOwner parses an owner record stored under id.
func decodeOwner(id string, data []byte) (*types.Owner, error) {
	var o types.Owner
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("decoding owner %q: %v: %w", id, err, types.ErrInvalidState)
	}
	if o.OwnerID != id {
		return nil, fmt.Errorf("owner record under %q carries id %q: %w", id, o.OwnerID, types.ErrInvalidState)
	}
	if err := o.Normalize(); err != nil {
		return nil, err
	}
	return &o, nil
}
