package types

import (
	"fmt"
	"slices"
)

// Owner holds a set of items. OwnedItemIDs is kept sorted and free of
// duplicates; use the methods below instead of editing it directly.
type Owner struct {
	OwnerID      string   `json:"owner_id"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	OwnedItemIDs []string `json:"owned_item_ids"`
}

// NewOwner returns an owner with an empty owned-set.
func NewOwner(id, firstName, lastName string) *Owner {
	return &Owner{
		OwnerID:      id,
		FirstName:    firstName,
		LastName:     lastName,
		OwnedItemIDs: []string{},
	}
}

// Kind implements Entity.
func (o *Owner) Kind() Kind { return KindOwner }

// EntityID implements Entity.
func (o *Owner) EntityID() string { return o.OwnerID }

// Owns reports whether itemID is in the owned-set.
func (o *Owner) Owns(itemID string) bool {
	_, found := slices.BinarySearch(o.OwnedItemIDs, itemID)
	return found
}

// AddItem inserts itemID into the owned-set.
// Returns ErrInvalidID for an empty id and ErrAlreadyOwned if it is present.
func (o *Owner) AddItem(itemID string) error {
	if itemID == "" {
		return ErrInvalidID
	}
	pos, found := slices.BinarySearch(o.OwnedItemIDs, itemID)
	if found {
		return ErrAlreadyOwned
	}
	o.OwnedItemIDs = slices.Insert(o.OwnedItemIDs, pos, itemID)
	return nil
}

// RemoveItem drops itemID from the owned-set. An owner that does not hold
// the item means the two sides of the relationship have diverged, so the
// error is ErrInvalidState.
func (o *Owner) RemoveItem(itemID string) error {
	pos, found := slices.BinarySearch(o.OwnedItemIDs, itemID)
	if !found {
		return fmt.Errorf("owner %q does not hold item %q: %w", o.OwnerID, itemID, ErrInvalidState)
	}
	o.OwnedItemIDs = slices.Delete(o.OwnedItemIDs, pos, pos+1)
	return nil
}

// ItemIDs returns a copy of the owned-set in sorted order.
func (o *Owner) ItemIDs() []string {
	return slices.Clone(o.OwnedItemIDs)
}

// Normalize sorts the owned-set and rejects empty or repeated ids. Decoded
// records go through it before they are handed out.
func (o *Owner) Normalize() error {
	if o.OwnedItemIDs == nil {
		o.OwnedItemIDs = []string{}
		return nil
	}
	slices.Sort(o.OwnedItemIDs)
	for i, id := range o.OwnedItemIDs {
		if id == "" {
			return fmt.Errorf("owner %q has an empty item id: %w", o.OwnerID, ErrInvalidState)
		}
		if i > 0 && o.OwnedItemIDs[i-1] == id {
			return fmt.Errorf("owner %q lists item %q twice: %w", o.OwnerID, id, ErrInvalidState)
		}
	}
	return nil
}

// Clone returns a deep copy of the owner.
func (o *Owner) Clone() *Owner {
	c := *o
	c.OwnedItemIDs = slices.Clone(o.OwnedItemIDs)
	if c.OwnedItemIDs == nil {
		c.OwnedItemIDs = []string{}
	}
	return &c
}
