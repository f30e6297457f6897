// Package entity keeps items and owners consistent on top of a flat
// key-value StateStore.
//
// A Manager lives for exactly one invocation. It caches every entity it
// loads or saves so that all holders within the invocation share one
// instance, and it is the only component that reads or writes entity
// records. Relationship changes that span records (create, delete, transfer)
// are methods on the Manager with a fixed write order; Save itself never
// cascades.
package entity

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/assetledger/internal/keys"
	"github.com/mesh-intelligence/assetledger/pkg/types"
)

// Manager loads, caches, mutates and persists ledger entities for a single
// invocation. It is not safe for concurrent use.
type Manager struct {
	store  types.StateStore
	items  map[string]*types.Item
	owners map[string]*types.Owner
}

// NewManager returns a Manager with an empty cache over store.
func NewManager(store types.StateStore) *Manager {
	return &Manager{
		store:  store,
		items:  make(map[string]*types.Item),
		owners: make(map[string]*types.Owner),
	}
}

// Load returns the entity of the given kind and id.
func (m *Manager) Load(kind types.Kind, id string) (types.Entity, error) {
	switch kind {
	case types.KindItem:
		it, err := m.LoadItem(id)
		if err != nil {
			return nil, err
		}
		return it, nil
	case types.KindOwner:
		o, err := m.LoadOwner(id)
		if err != nil {
			return nil, err
		}
		return o, nil
	default:
		return nil, types.ErrInvalidKind
	}
}

// LoadItem returns the item with the given id, from the cache when present.
// Returns ErrNotFound if no record exists and ErrInvalidState if the record
// is corrupt.
func (m *Manager) LoadItem(id string) (*types.Item, error) {
	if it, ok := m.items[id]; ok {
		return it, nil
	}
	data, err := m.read(types.KindItem, id)
	if err != nil {
		return nil, err
	}
	it, err := decodeItem(id, data)
	if err != nil {
		return nil, err
	}
	m.items[id] = it
	return it, nil
}

// LoadOwner returns the owner with the given id, from the cache when present.
// Returns ErrNotFound if no record exists and ErrInvalidState if the record
// is corrupt.
func (m *Manager) LoadOwner(id string) (*types.Owner, error) {
	if o, ok := m.owners[id]; ok {
		return o, nil
	}
	data, err := m.read(types.KindOwner, id)
	if err != nil {
		return nil, err
	}
	o, err := decodeOwner(id, data)
	if err != nil {
		return nil, err
	}
	m.owners[id] = o
	return o, nil
}

// Exists reports whether an entity of the given kind and id exists. Only
// ErrNotFound maps to false; a corrupt record or a store failure is returned
// as an error.
func (m *Manager) Exists(kind types.Kind, id string) (bool, error) {
	_, err := m.Load(kind, id)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ItemExists is Exists for items.
func (m *Manager) ItemExists(id string) (bool, error) {
	return m.Exists(types.KindItem, id)
}

// OwnerExists is Exists for owners.
func (m *Manager) OwnerExists(id string) (bool, error) {
	return m.Exists(types.KindOwner, id)
}

// Save writes e under its key and makes it the cached instance. It writes
// exactly one record.
func (m *Manager) Save(e types.Entity) error {
	if e == nil {
		return types.ErrInvalidKind
	}
	switch e.Kind() {
	case types.KindItem:
		it, ok := e.(*types.Item)
		if !ok {
			return types.ErrInvalidKind
		}
		return m.SaveItem(it)
	case types.KindOwner:
		o, ok := e.(*types.Owner)
		if !ok {
			return types.ErrInvalidKind
		}
		return m.SaveOwner(o)
	default:
		return types.ErrInvalidKind
	}
}

// SaveItem writes it and caches it. An unbound item is never persisted.
func (m *Manager) SaveItem(it *types.Item) error {
	if it == nil || it.ItemID == "" {
		return types.ErrInvalidID
	}
	if !it.Bound() {
		return fmt.Errorf("saving item %q without an owner: %w", it.ItemID, types.ErrInvalidState)
	}
	if err := m.write(it); err != nil {
		return err
	}
	m.items[it.ItemID] = it
	return nil
}

// SaveOwner writes o and caches it.
func (m *Manager) SaveOwner(o *types.Owner) error {
	if o == nil || o.OwnerID == "" {
		return types.ErrInvalidID
	}
	if err := o.Normalize(); err != nil {
		return err
	}
	if err := m.write(o); err != nil {
		return err
	}
	m.owners[o.OwnerID] = o
	return nil
}

// CreateOwner creates an owner with an empty owned-set.
// Returns ErrAlreadyExists if the id is taken.
func (m *Manager) CreateOwner(id, firstName, lastName string) (*types.Owner, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	exists, err := m.OwnerExists(id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &types.EntityError{Kind: types.KindOwner, ID: id, Err: types.ErrAlreadyExists}
	}

	o := types.NewOwner(id, firstName, lastName)
	if err := m.SaveOwner(o); err != nil {
		return nil, err
	}
	return o, nil
}

// CreateItem creates it under the owner named by it.OwnerID and registers
// it in that owner's set. The owner record is written before the item
// record, the same order TransferItem uses.
// Returns ErrNotFound if the owner does not exist and ErrAlreadyExists if the
// item does.
func (m *Manager) CreateItem(it *types.Item) error {
	if it.ItemID == "" || it.OwnerID == "" {
		return types.ErrInvalidID
	}
	owner, err := m.LoadOwner(it.OwnerID)
	if err != nil {
		return err
	}
	exists, err := m.ItemExists(it.ItemID)
	if err != nil {
		return err
	}
	if exists {
		return &types.EntityError{Kind: types.KindItem, ID: it.ItemID, Err: types.ErrAlreadyExists}
	}
	if owner.Owns(it.ItemID) {
		return fmt.Errorf("owner %q lists missing item %q: %w", owner.OwnerID, it.ItemID, types.ErrInvalidState)
	}

	if err := owner.AddItem(it.ItemID); err != nil {
		return err
	}
	if err := m.SaveOwner(owner); err != nil {
		m.evictOwner(owner.OwnerID)
		return err
	}
	if err := m.SaveItem(it); err != nil {
		m.evictOwner(owner.OwnerID)
		return err
	}
	return nil
}

// DeleteItem removes the item record and deregisters it from its owner.
// All checks happen before the first write; the owner is written first,
// then the item record is deleted.
// Returns ErrNotFound if the item does not exist.
func (m *Manager) DeleteItem(id string) error {
	it, err := m.LoadItem(id)
	if err != nil {
		return err
	}
	owner, err := m.currentOwner(it)
	if err != nil {
		return err
	}
	if err := owner.RemoveItem(id); err != nil {
		return err
	}

	if err := m.SaveOwner(owner); err != nil {
		m.evictOwner(owner.OwnerID)
		return err
	}
	if err := m.store.Delete(keys.Compose(types.KindItem, id)); err != nil {
		m.evictOwner(owner.OwnerID)
		return fmt.Errorf("deleting item %q: %w", id, err)
	}
	delete(m.items, id)
	return nil
}

// TransferItem moves the item to newOwnerID and returns the previous owner
// id. Steps, each only if the previous one succeeded:
//
//  1. load the item
//  2. load the new owner
//  3. fail with ErrAlreadyOwned if the new owner already holds the item
//  4. load the current owner and remove the item from its set
//  5. add the item to the new owner's set
//  6. point the item at the new owner
//  7. save the current owner, the new owner, then the item
//
// Nothing is written unless steps 1-6 succeed. The store has no multi-key
// atomicity, so an interruption inside step 7 can leave the item record
// pointing at the old owner while both owner records already reflect the
// transfer.
func (m *Manager) TransferItem(itemID, newOwnerID string) (string, error) {
	it, err := m.LoadItem(itemID)
	if err != nil {
		return "", err
	}
	newOwner, err := m.LoadOwner(newOwnerID)
	if err != nil {
		return "", err
	}
	if newOwner.Owns(itemID) {
		return "", fmt.Errorf("owner %q already holds item %q: %w", newOwnerID, itemID, types.ErrAlreadyOwned)
	}
	current, err := m.currentOwner(it)
	if err != nil {
		return "", err
	}
	if err := current.RemoveItem(itemID); err != nil {
		return "", err
	}
	if err := newOwner.AddItem(itemID); err != nil {
		_ = current.AddItem(itemID)
		return "", err
	}
	previous := it.OwnerID
	if err := it.BindTo(newOwnerID); err != nil {
		_ = newOwner.RemoveItem(itemID)
		_ = current.AddItem(itemID)
		return "", err
	}

	for _, e := range []types.Entity{current, newOwner, it} {
		if err := m.Save(e); err != nil {
			m.evictOwner(current.OwnerID)
			m.evictOwner(newOwner.OwnerID)
			m.evictItem(itemID)
			return "", fmt.Errorf("transferring item %q: %w", itemID, err)
		}
	}
	return previous, nil
}

// OwnerOf returns the owner of the item with id, checking that the owner
// lists the item.
func (m *Manager) OwnerOf(itemID string) (*types.Owner, error) {
	it, err := m.LoadItem(itemID)
	if err != nil {
		return nil, err
	}
	owner, err := m.currentOwner(it)
	if err != nil {
		return nil, err
	}
	if !owner.Owns(itemID) {
		return nil, fmt.Errorf("owner %q does not list item %q: %w", owner.OwnerID, itemID, types.ErrInvalidState)
	}
	return owner, nil
}

// ItemsOf returns the items in the owner's set, in id order. Every listed
// item must exist and point back at the owner.
func (m *Manager) ItemsOf(ownerID string) ([]*types.Item, error) {
	owner, err := m.LoadOwner(ownerID)
	if err != nil {
		return nil, err
	}
	items := make([]*types.Item, 0, len(owner.OwnedItemIDs))
	for _, id := range owner.OwnedItemIDs {
		it, err := m.LoadItem(id)
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("owner %q lists missing item %q: %w", ownerID, id, types.ErrInvalidState)
		}
		if err != nil {
			return nil, err
		}
		if it.OwnerID != ownerID {
			return nil, fmt.Errorf("owner %q lists item %q owned by %q: %w", ownerID, id, it.OwnerID, types.ErrInvalidState)
		}
		items = append(items, it)
	}
	return items, nil
}

// Owners returns every owner in the store, in id order.
func (m *Manager) Owners() ([]*types.Owner, error) {
	var out []*types.Owner
	err := m.scan(types.KindOwner, func(id string, data []byte) error {
		o, err := m.cachedOwner(id, data)
		if err != nil {
			return err
		}
		out = append(out, o)
		return nil
	})
	return out, err
}

// Items returns every item in the store, in id order.
func (m *Manager) Items() ([]*types.Item, error) {
	var out []*types.Item
	err := m.scan(types.KindItem, func(id string, data []byte) error {
		it, err := m.cachedItem(id, data)
		if err != nil {
			return err
		}
		out = append(out, it)
		return nil
	})
	return out, err
}

// currentOwner loads the owner an item points at. A dangling reference is a
// broken invariant, not a missing entity.
func (m *Manager) currentOwner(it *types.Item) (*types.Owner, error) {
	owner, err := m.LoadOwner(it.OwnerID)
	if errors.Is(err, types.ErrNotFound) {
		return nil, fmt.Errorf("item %q points at missing owner %q: %w", it.ItemID, it.OwnerID, types.ErrInvalidState)
	}
	return owner, err
}

func (m *Manager) cachedItem(id string, data []byte) (*types.Item, error) {
	if it, ok := m.items[id]; ok {
		return it, nil
	}
	it, err := decodeItem(id, data)
	if err != nil {
		return nil, err
	}
	m.items[id] = it
	return it, nil
}

func (m *Manager) cachedOwner(id string, data []byte) (*types.Owner, error) {
	if o, ok := m.owners[id]; ok {
		return o, nil
	}
	o, err := decodeOwner(id, data)
	if err != nil {
		return nil, err
	}
	m.owners[id] = o
	return o, nil
}

// read fetches the raw record for (kind, id).
func (m *Manager) read(kind types.Kind, id string) ([]byte, error) {
	data, found, err := m.store.Get(keys.Compose(kind, id))
	if err != nil {
		return nil, fmt.Errorf("reading %s %q: %w", kind, id, err)
	}
	if !found {
		return nil, &types.EntityError{Kind: kind, ID: id, Err: types.ErrNotFound}
	}
	return data, nil
}

// write encodes e and puts it under its key.
func (m *Manager) write(e types.Entity) error {
	data, err := encode(e)
	if err != nil {
		return err
	}
	if err := m.store.Put(keys.For(e), data); err != nil {
		return fmt.Errorf("writing %s %q: %w", e.Kind(), e.EntityID(), err)
	}
	return nil
}

// scan walks every record of kind in key order.
func (m *Manager) scan(kind types.Kind, fn func(id string, data []byte) error) error {
	kvs, err := m.store.ScanPrefix(keys.Prefix(kind))
	if err != nil {
		return fmt.Errorf("scanning %s records: %w", kind, err)
	}
	for _, kv := range kvs {
		gotKind, id, err := keys.Split(kv.Key)
		if err != nil || gotKind != kind {
			return fmt.Errorf("unexpected key %q under %s prefix: %w", kv.Key, kind, types.ErrInvalidState)
		}
		if err := fn(id, kv.Value); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) evictItem(id string)  { delete(m.items, id) }
func (m *Manager) evictOwner(id string) { delete(m.owners, id) }
