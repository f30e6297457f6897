package entity

import (
	"fmt"

	"github.com/mesh-intelligence/assetledger/pkg/types"
)

// Violation describes one broken record or relationship found by Audit.
type Violation struct {
	Kind    types.Kind `json:"kind"`
	ID      string     `json:"id"`
	Problem string     `json:"problem"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %q: %s", v.Kind, v.ID, v.Problem)
}

// Audit scans both collections and reports every record that fails to
// decode and every place where the item and owner sides of a relationship
// disagree. Store failures abort the audit; corrupt data does not.
func (m *Manager) Audit() ([]Violation, error) {
	var violations []Violation
	report := func(kind types.Kind, id, format string, args ...any) {
		violations = append(violations, Violation{Kind: kind, ID: id, Problem: fmt.Sprintf(format, args...)})
	}

	// Records that failed to decode are reported once. Relationships that
	// point at them are not reported again as dangling.
	unreadable := map[types.Kind]map[string]bool{
		types.KindOwner: {},
		types.KindItem:  {},
	}

	owners := make(map[string]*types.Owner)
	var ownerIDs []string
	err := m.scan(types.KindOwner, func(id string, data []byte) error {
		o, err := m.cachedOwner(id, data)
		if err != nil {
			report(types.KindOwner, id, "unreadable record: %v", err)
			unreadable[types.KindOwner][id] = true
			return nil
		}
		owners[id] = o
		ownerIDs = append(ownerIDs, id)
		return nil
	})
	if err != nil {
		return nil, err
	}

	items := make(map[string]*types.Item)
	var itemIDs []string
	err = m.scan(types.KindItem, func(id string, data []byte) error {
		it, err := m.cachedItem(id, data)
		if err != nil {
			report(types.KindItem, id, "unreadable record: %v", err)
			unreadable[types.KindItem][id] = true
			return nil
		}
		items[id] = it
		itemIDs = append(itemIDs, id)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, id := range itemIDs {
		it := items[id]
		owner, ok := owners[it.OwnerID]
		switch {
		case unreadable[types.KindOwner][it.OwnerID]:
			report(types.KindItem, id, "owner %q is unreadable", it.OwnerID)
		case !ok:
			report(types.KindItem, id, "owner %q does not exist", it.OwnerID)
		case !owner.Owns(id):
			report(types.KindItem, id, "owner %q does not list it", it.OwnerID)
		}
	}

	for _, oid := range ownerIDs {
		o := owners[oid]
		for _, id := range o.OwnedItemIDs {
			it, ok := items[id]
			switch {
			case unreadable[types.KindItem][id]:
				report(types.KindOwner, o.OwnerID, "lists unreadable item %q", id)
			case !ok:
				report(types.KindOwner, o.OwnerID, "lists missing item %q", id)
			case it.OwnerID != o.OwnerID:
				report(types.KindOwner, o.OwnerID, "lists item %q owned by %q", id, it.OwnerID)
			}
		}
	}
	return violations, nil
}
