// SPDX-License-Identifier: MIT

package session

import (
	"encoding/json"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/tripstep/tripstep/internal/domain"
)

const snapshotPrefix = "session/"

// SnapshotStore persists session snapshots in Badger. The in-memory map
// stays the source of truth; snapshots exist so a restart can restore
// sessions that were still live.
type SnapshotStore struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenSnapshots opens (creating if needed) the snapshot database at dir.
// Entries expire with the session TTL.
func OpenSnapshots(dir string, ttl time.Duration) (*SnapshotStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return &SnapshotStore{db: db, ttl: ttl}, nil
}

// Close releases the database.
func (ss *SnapshotStore) Close() error { return ss.db.Close() }

// Save writes one session snapshot.
func (ss *SnapshotStore) Save(s *domain.Session) error {
	buf, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", s.ID, err)
	}
	return ss.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(snapshotPrefix+s.ID), buf).WithTTL(ss.ttl)
		return txn.SetEntry(entry)
	})
}

// Load reads one session snapshot.
func (ss *SnapshotStore) Load(id string) (*domain.Session, error) {
	var sess domain.Session
	err := ss.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, domain.NewReasonError(domain.RSessionNotFound, "snapshot "+id, nil)
	}
	if err != nil {
		return nil, domain.NewReasonError(domain.RStoreFailure, "load snapshot", err)
	}
	return &sess, nil
}

// LoadAll restores every live snapshot, e.g. on daemon start.
func (ss *SnapshotStore) LoadAll() ([]*domain.Session, error) {
	var out []*domain.Session
	err := ss.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(snapshotPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var sess domain.Session
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &sess)
			})
			if err != nil {
				return err
			}
			out = append(out, &sess)
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewReasonError(domain.RStoreFailure, "load snapshots", err)
	}
	return out, nil
}

// Delete drops a snapshot. Missing keys are fine.
func (ss *SnapshotStore) Delete(id string) error {
	err := ss.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(snapshotPrefix + id))
	})
	if err != nil && err != badger.ErrKeyNotFound {
		return domain.NewReasonError(domain.RStoreFailure, "delete snapshot", err)
	}
	return nil
}
