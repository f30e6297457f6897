package types

// Item is an owned asset. Color, Size and AppraisedValue are descriptive
// business data; OwnerID is the owner-reference and changes only through a
// transfer. An Item with an empty OwnerID is unbound and must never be
// persisted.
type Item struct {
	ItemID         string `json:"item_id"`
	Color          string `json:"color"`
	Size           int    `json:"size"`
	AppraisedValue int    `json:"appraised_value"`
	OwnerID        string `json:"owner_id"`
}

// NewItem returns an unbound item carrying the given attributes.
func NewItem(id, color string, size, appraisedValue int) *Item {
	return &Item{
		ItemID:         id,
		Color:          color,
		Size:           size,
		AppraisedValue: appraisedValue,
	}
}

// Kind implements Entity.
func (i *Item) Kind() Kind { return KindItem }

// EntityID implements Entity.
func (i *Item) EntityID() string { return i.ItemID }

// Bound reports whether the item names an owner.
func (i *Item) Bound() bool { return i.OwnerID != "" }

// BindTo sets the owner-reference. It touches no other entity; keeping the
// owner's set in step is the caller's job.
// Returns ErrInvalidID if ownerID is empty.
func (i *Item) BindTo(ownerID string) error {
	if ownerID == "" {
		return ErrInvalidID
	}
	i.OwnerID = ownerID
	return nil
}

// Clone returns a copy of the item.
func (i *Item) Clone() *Item {
	c := *i
	return &c
}
