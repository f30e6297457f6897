// This file provides JSONL snapshot export and import with atomic writes.
package state

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/assetledger/pkg/types"
)

// maxSnapshotLine bounds a single snapshot line. Owner records grow with
// the number of items they hold.
const maxSnapshotLine = 16 * 1024 * 1024

// snapshotRecord is one line of a snapshot file. Values are entity JSON
// documents and are embedded as-is so snapshots stay diffable.
type snapshotRecord struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func (r snapshotRecord) usable() bool {
	return r.Key != "" && len(r.Value) > 0 && string(r.Value) != "null"
}

// readSnapshot decodes the records of a snapshot file in file order. Lines
// that are blank, fail to decode, or carry no key or value are skipped.
func readSnapshot(path string) ([]snapshotRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []snapshotRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSnapshotLine)
	for scanner.Scan() {
		var rec snapshotRecord
		// Unmarshal copies into Value, so the scanner buffer can be reused.
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil || !rec.usable() {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeSnapshot encodes records one per line into a temp file next to path,
// syncs it and renames it over path. A failed write leaves path untouched.
func writeSnapshot(path string, records []snapshotRecord) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if !json.Valid(rec.Value) {
			return fmt.Errorf("key %q: value is not JSON: %w", rec.Key, types.ErrInvalidState)
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding key %q: %w", rec.Key, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Export writes every record under the given prefixes to path, one JSON
// object per line, in key order per prefix. Returns the number of records
// written. A record whose value is not JSON is reported as ErrInvalidState
// and nothing is written.
func Export(store types.StateStore, path string, prefixes ...string) (int, error) {
	if len(prefixes) == 0 {
		prefixes = []string{""}
	}

	var records []snapshotRecord
	for _, prefix := range prefixes {
		kvs, err := store.ScanPrefix(prefix)
		if err != nil {
			return 0, fmt.Errorf("export scan: %w", err)
		}
		for _, kv := range kvs {
			records = append(records, snapshotRecord{Key: kv.Key, Value: kv.Value})
		}
	}

	if err := writeSnapshot(path, records); err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	return len(records), nil
}

// Import reads a snapshot written by Export and puts every record into
// store. Returns the number of records written.
func Import(store types.StateStore, path string) (int, error) {
	records, err := readSnapshot(path)
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}

	for i, rec := range records {
		if err := store.Put(rec.Key, rec.Value); err != nil {
			return i, fmt.Errorf("import key %q: %w", rec.Key, err)
		}
	}
	return len(records), nil
}
