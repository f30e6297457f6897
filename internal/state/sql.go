package state

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/mesh-intelligence/assetledger/pkg/types"
)

// dialect holds the statements that differ between SQL engines. Keys and
// values are stored as blobs so composite keys with 0x00 separators survive
// and compare byte-wise.
type dialect struct {
	name        string
	createTable string
	get         string
	upsert      string
	delete      string
	scanRange   string
	scanFrom    string
}

// sqlStore implements types.StateStore on a single key/value table.
type sqlStore struct {
	mu     sync.RWMutex // guards db against Close
	db     *sql.DB
	d      dialect
	closed bool
}

func newSQLStore(db *sql.DB, d dialect) (*sqlStore, error) {
	if _, err := db.Exec(d.createTable); err != nil {
		return nil, fmt.Errorf("creating %s state table: %w", d.name, err)
	}
	return &sqlStore{db: db, d: d}, nil
}

// Get implements types.StateStore.
func (s *sqlStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, types.ErrStoreClosed
	}
	var value []byte
	err := s.db.QueryRow(s.d.get, []byte(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, true, nil
}

// Put implements types.StateStore.
func (s *sqlStore) Put(key string, value []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	if value == nil {
		value = []byte{}
	}
	if _, err := s.db.Exec(s.d.upsert, []byte(key), value); err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// Delete implements types.StateStore.
func (s *sqlStore) Delete(key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	if _, err := s.db.Exec(s.d.delete, []byte(key)); err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

// ScanPrefix implements types.StateStore. The prefix is turned into a
// half-open key range so the primary key index serves the scan.
func (s *sqlStore) ScanPrefix(prefix string) ([]types.KV, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, types.ErrStoreClosed
	}

	var (
		rows *sql.Rows
		err  error
	)
	if end, ok := prefixEnd(prefix); ok {
		rows, err = s.db.Query(s.d.scanRange, []byte(prefix), end)
	} else {
		rows, err = s.db.Query(s.d.scanFrom, []byte(prefix))
	}
	if err != nil {
		return nil, fmt.Errorf("scanning prefix %q: %w", prefix, err)
	}
	defer rows.Close()

	var out []types.KV
	for rows.Next() {
		var k, v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, types.KV{Key: string(k), Value: v})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating prefix %q: %w", prefix, err)
	}
	return out, nil
}

// Close implements types.StateStore. Idempotent.
func (s *sqlStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// prefixEnd returns the smallest key greater than every key starting with
// prefix. ok is false when no such bound exists (empty prefix or all 0xff),
// in which case the scan is open-ended.
func prefixEnd(prefix string) ([]byte, bool) {
	end := []byte(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1], true
		}
	}
	return nil, false
}
