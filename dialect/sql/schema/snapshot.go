package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is the version of the snapshot encoding.
const SnapshotVersion = 1

// Snapshot is the stored state of the generated tables.
type Snapshot struct {
	Version int      `msgpack:"version"`
	Dialect string   `msgpack:"dialect"`
	Tables  []*Table `msgpack:"tables"`
}

// NewSnapshot returns a snapshot of the given tables.
func NewSnapshot(dialect string, tables []*Table) *Snapshot {
	return &Snapshot{Version: SnapshotVersion, Dialect: dialect, Tables: tables}
}

// WriteSnapshot encodes the snapshot with msgpack and writes it to path,
// creating its directory if needed.
func WriteSnapshot(path string, s *Snapshot) error {
	b, err := msgpack.Marshal(s)
	if err != nil {
		return fmt.Errorf("schema: encode snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("schema: create snapshot dir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("schema: write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot reads and decodes the snapshot stored at path.
func ReadSnapshot(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read snapshot: %w", err)
	}
	s := &Snapshot{}
	if err := msgpack.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("schema: decode snapshot %s: %w", path, err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("schema: snapshot %s has version %d, want %d", path, s.Version, SnapshotVersion)
	}
	return s, nil
}
