// Package cache persists whole-collection snapshots on device. It is the
// local mirror of remote state and the only store available in local-only
// mode. It deals in full record lists keyed by collection name; there is no
// per-record addressing at this layer.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Collection names the two snapshot slots.
const (
	CollectionTransactions = "transactions"
	CollectionGoals        = "goals"
)

// Store writes and reads JSON snapshots under a data directory, one file per
// collection. A corrupted or missing snapshot is treated as absent: readers
// get an empty state, never an error.
type Store struct {
	dir string
	log zerolog.Logger
}

// New creates a snapshot store rooted at dir, creating it if needed.
func New(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %q: %w", dir, err)
	}
	return &Store{dir: dir, log: log}, nil
}

// Put overwrites the snapshot for a collection with the given records. The
// write goes through a temp file and rename so a crash mid-write leaves the
// previous snapshot intact.
func (s *Store) Put(collection string, records interface{}) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", collection, err)
	}

	path := s.fileFor(collection)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s snapshot: %w", collection, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize %s snapshot: %w", collection, err)
	}

	return nil
}

// Get loads the snapshot for a collection into out, which must be a pointer
// to a slice. It returns false when the slot was never written or the stored
// snapshot does not parse; corruption is logged and recovered as absent so a
// bad snapshot can never take down a cold start.
func (s *Store) Get(collection string, out interface{}) bool {
	path := s.fileFor(collection)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("collection", collection).Msg("Unreadable cache snapshot, treating as empty")
		}
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.log.Warn().Err(err).Str("collection", collection).Msg("Corrupted cache snapshot, treating as empty")
		return false
	}

	return true
}

// Clear removes every snapshot unconditionally. This backs the settings
// screen's danger-zone wipe.
func (s *Store) Clear() error {
	for _, collection := range []string{CollectionTransactions, CollectionGoals} {
		if err := os.Remove(s.fileFor(collection)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s snapshot: %w", collection, err)
		}
	}
	return nil
}

// fileFor keeps the original per-collection key names on disk.
func (s *Store) fileFor(collection string) string {
	return filepath.Join(s.dir, "motodash_"+collection+".json")
}
