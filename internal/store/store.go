// Package store provides a thin bbolt wrapper for franq's local data store.
//
// Two things are persisted: the last directory snapshot (so `franq stores
// --offline` works without credentials or network) and saved view snapshots
// (named, replayable view invocations). Report payloads are never written
// here — the store holds parameters and discovery results, not fetched data.
//
// Buckets:
//
//	directory — single entry: last bootstrap outcome
//	snapshots — saved view invocations keyed by id
//	_meta     — internal: schema version, created_at
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/derickschaefer/franq/internal/model"
)

// Current schema version. Bump when bucket layout or key format changes.
const schemaVersion = 1

var (
	bucketDirectory = []byte("directory")
	bucketSnapshots = []byte("snapshots")
	bucketInternal  = []byte("_meta")
)

var directoryKey = []byte("latest")

// Store wraps a bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the bbolt database at path. Parent directories are
// created automatically. Runs schema migrations on every open.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening db %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path of the open database.
func (s *Store) Path() string {
	return s.db.Path()
}

func (s *Store) migrate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketDirectory, bucketSnapshots, bucketInternal} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}
		meta := tx.Bucket(bucketInternal)
		if meta.Get([]byte("schema_version")) == nil {
			if err := meta.Put([]byte("schema_version"), []byte(fmt.Sprintf("%d", schemaVersion))); err != nil {
				return err
			}
			if err := meta.Put([]byte("created_at"), []byte(time.Now().UTC().Format(time.RFC3339))); err != nil {
				return err
			}
		}
		return nil
	})
}

// ─── Directory Snapshot ───────────────────────────────────────────────────────

// DirectorySnapshot is the persisted bootstrap outcome. Account credentials
// are excluded by the model's JSON tags; only names, statuses, and store
// lists survive.
type DirectorySnapshot struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Accounts  []model.Account `json:"accounts"`
	AllStores []string        `json:"all_stores"`
}

// PutDirectory overwrites the stored directory snapshot.
func (s *Store) PutDirectory(snap DirectorySnapshot) error {
	snap.FetchedAt = time.Now().UTC()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding directory snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDirectory).Put(directoryKey, data)
	})
}

// GetDirectory retrieves the stored directory snapshot.
// Returns (snap, true, nil) if found, (zero, false, nil) if not found.
func (s *Store) GetDirectory() (DirectorySnapshot, bool, error) {
	var snap DirectorySnapshot
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketDirectory).Get(directoryKey)
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &snap)
	})
	if err != nil {
		return DirectorySnapshot{}, false, err
	}
	return snap, found, nil
}

// ─── View Snapshots ───────────────────────────────────────────────────────────

// ViewSnapshot is a saved view invocation for reproducible batches.
type ViewSnapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Report    string    `json:"report"`
	Stores    []string  `json:"stores"` // empty means "all"
	Range     string    `json:"range,omitempty"`
	Start     string    `json:"start,omitempty"`
	End       string    `json:"end,omitempty"`
	Flatten   bool      `json:"flatten"`
	CreatedAt time.Time `json:"created_at"`
}

// PutSnapshot saves a view snapshot keyed by its ID.
func (s *Store) PutSnapshot(snap ViewSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put([]byte(snap.ID), data)
	})
}

// GetSnapshot retrieves a snapshot by ID, falling back to name lookup so
// `franq snapshot run monthly-sales` works too.
func (s *Store) GetSnapshot(idOrName string) (ViewSnapshot, bool, error) {
	var found ViewSnapshot
	ok := false
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSnapshots)
		if v := b.Get([]byte(idOrName)); v != nil {
			ok = true
			return json.Unmarshal(v, &found)
		}
		return b.ForEach(func(k, v []byte) error {
			var snap ViewSnapshot
			if err := json.Unmarshal(v, &snap); err != nil {
				return err
			}
			if snap.Name == idOrName && !ok {
				found = snap
				ok = true
			}
			return nil
		})
	})
	if err != nil {
		return ViewSnapshot{}, false, err
	}
	return found, ok, nil
}

// ListSnapshots returns all saved snapshots, oldest first.
func (s *Store) ListSnapshots() ([]ViewSnapshot, error) {
	var snaps []ViewSnapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).ForEach(func(k, v []byte) error {
			var snap ViewSnapshot
			if err := json.Unmarshal(v, &snap); err != nil {
				return err
			}
			snaps = append(snaps, snap)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].CreatedAt.Before(snaps[j].CreatedAt) })
	return snaps, nil
}

// DeleteSnapshot removes a snapshot by ID. Returns whether it existed.
func (s *Store) DeleteSnapshot(id string) (bool, error) {
	existed := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSnapshots)
		if b.Get([]byte(id)) == nil {
			return nil
		}
		existed = true
		return b.Delete([]byte(id))
	})
	return existed, err
}
