// Package keys derives state-store keys from (kind, id) pairs.
//
// Keys use the composite layout 0x00 + kind tag + 0x00 + id + 0x00. The
// leading 0x00 keeps composite keys out of the plain-string key space, and
// the separators make every kind a distinct prefix, so an Item and an Owner
// that share an id never collide. Ids containing 0x00 are not supported and
// are not checked here.
package keys

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/assetledger/pkg/types"
)

const sep = "\x00"

// Compose returns the state key for the entity of the given kind and id.
func Compose(kind types.Kind, id string) string {
	return sep + kind.String() + sep + id + sep
}

// For returns the state key for e.
func For(e types.Entity) string {
	return Compose(e.Kind(), e.EntityID())
}

// Prefix returns the key prefix shared by every entity of the given kind.
func Prefix(kind types.Kind) string {
	return sep + kind.String() + sep
}

// Split decodes a composite key back into its kind and id.
// Returns ErrInvalidKey when the layout is wrong and ErrInvalidKind when the
// tag is not a known kind.
func Split(key string) (types.Kind, string, error) {
	if !strings.HasPrefix(key, sep) || !strings.HasSuffix(key, sep) || len(key) < 3 {
		return 0, "", fmt.Errorf("split %q: %w", key, types.ErrInvalidKey)
	}
	parts := strings.Split(key[1:len(key)-1], sep)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("split %q: %w", key, types.ErrInvalidKey)
	}
	kind, err := types.ParseKind(parts[0])
	if err != nil {
		return 0, "", fmt.Errorf("split %q: %w", key, err)
	}
	return kind, parts[1], nil
}
