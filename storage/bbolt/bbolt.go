// Package bbolt provides a BBolt-backed StateStore. This is the default
// on-disk store: one bucket, one record, read at startup and rewritten
// on every login, successful check, and logout.
package bbolt

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/dialforge/dialtone/storage"
)

var (
	bucketState = []byte("client_state")
	keyAuth     = []byte("auth")
)

// Store implements storage.StateStore backed by a BBolt database.
type Store struct {
	db *bbolt.DB
}

var _ storage.StateStore = (*Store)(nil)

// NewStore returns a StateStore backed by the given BBolt database.
func NewStore(db *bbolt.DB) *Store {
	return &Store{db: db}
}

// NewStoreFromFile opens a BBolt database at the given path.
func NewStoreFromFile(path string, options *bbolt.Options) (*Store, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewStore(db), nil
}

// Close closes the underlying BBolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load() (storage.AuthState, error) {
	var state storage.AuthState
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketState)
		if b == nil {
			return storage.ErrNotFound
		}
		data := b.Get(keyAuth)
		if data == nil {
			return storage.ErrNotFound
		}
		return json.Unmarshal(data, &state)
	})
	if err != nil {
		return storage.AuthState{}, err
	}
	return state, nil
}

func (s *Store) Save(state storage.AuthState) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketState)
		if err != nil {
			return err
		}
		data, err := json.Marshal(state)
		if err != nil {
			return err
		}
		return b.Put(keyAuth, data)
	})
}

func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketState)
		if b == nil {
			return nil
		}
		return b.Delete(keyAuth)
	})
}
