// Package memory provides an in-memory StateStore, used by tests and by
// callers that do not want state to survive a restart.
package memory

import (
	"sync"

	"github.com/dialforge/dialtone/storage"
)

// Store implements storage.StateStore in memory.
type Store struct {
	mu    sync.Mutex
	state storage.AuthState
	set   bool
}

var _ storage.StateStore = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) Load() (storage.AuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return storage.AuthState{}, storage.ErrNotFound
	}
	return s.state, nil
}

func (s *Store) Save(state storage.AuthState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.set = true
	return nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = storage.AuthState{}
	s.set = false
	return nil
}
