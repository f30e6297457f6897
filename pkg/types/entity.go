package types

// Kind tags the entity types stored in the ledger. The string form is the
// type component of the composite state key, so it must never change once
// records exist.
type Kind int

// Entity kinds.
const (
	KindItem Kind = iota + 1
	KindOwner
)

// Kinds lists every entity kind for enumeration.
var Kinds = []Kind{KindItem, KindOwner}

// String returns the key tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindItem:
		return "Item"
	case KindOwner:
		return "Owner"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindItem || k == KindOwner
}

// ParseKind maps a key tag back to its Kind.
// Returns ErrInvalidKind for unknown tags.
func ParseKind(tag string) (Kind, error) {
	switch tag {
	case "Item":
		return KindItem, nil
	case "Owner":
		return KindOwner, nil
	default:
		return 0, ErrInvalidKind
	}
}

// Entity is implemented by *Item and *Owner. The manager dispatches on Kind
// rather than on the dynamic type.
type Entity interface {
	Kind() Kind
	EntityID() string
}
