package types

// KV is one record returned by a prefix scan.
type KV struct {
	Key   string
	Value []byte
}

// StateStore is the flat key-value backend the ledger runs on. It offers
// single-key operations and a prefix scan, nothing more: no transactions
// spanning keys and no secondary indexes. Implementations must be safe for
// concurrent use.
type StateStore interface {
	// Get returns the value stored at key. found is false when the key is
	// absent; err is reserved for backend failures.
	Get(key string) (value []byte, found bool, err error)

	// Put creates or overwrites the value at key.
	Put(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// ScanPrefix returns every record whose key starts with prefix,
	// ordered by key.
	ScanPrefix(prefix string) ([]KV, error)

	// Close releases backend resources. Idempotent.
	Close() error
}
