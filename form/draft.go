package form

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

var draftsBucket = []byte("drafts")

// DraftStore explicitly caches an Aggregate between CLI invocations. Drafts
// are keyed by user ID so switching accounts never leaks a previous user's
// answers.
type DraftStore struct {
	db *bbolt.DB
}

// OpenDraftStore opens (or creates) the drafts database at path.
func OpenDraftStore(path string) (*DraftStore, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening drafts db: %w", err)
	}
	return &DraftStore{db: db}, nil
}

// Close closes the underlying database.
func (s *DraftStore) Close() error {
	return s.db.Close()
}

// SaveDraft stores a snapshot of the aggregate under the user's key,
// replacing any previous draft.
func (s *DraftStore) SaveDraft(userID string, a *Aggregate) error {
	data, err := json.Marshal(a.Snapshot())
	if err != nil {
		return fmt.Errorf("serializing draft: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(draftsBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(userID), data)
	})
}

// LoadDraft restores the user's cached aggregate. A missing or unreadable
// draft yields a fresh empty aggregate rather than an error: a stale cache
// must never block the form.
func (s *DraftStore) LoadDraft(userID string) *Aggregate {
	agg := NewAggregate()
	_ = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(draftsBucket)
		if b == nil {
			return nil
		}
		data := b.Get([]byte(userID))
		if data == nil {
			return nil
		}
		var sections map[string]Data
		if err := json.Unmarshal(data, &sections); err != nil {
			return nil
		}
		for name, d := range sections {
			agg.Update(name, d)
		}
		return nil
	})
	return agg
}

// DeleteDraft removes the user's cached draft, if any.
func (s *DraftStore) DeleteDraft(userID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(draftsBucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(userID))
	})
}
