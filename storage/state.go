// Package storage persists the client's last-known session state so the
// app can start in the right mode before any network round trip.
package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no state has been persisted yet.
var ErrNotFound = errors.New("state not found")

// AuthState is the cached authentication snapshot. It is an optimistic
// local truth: the session manager reconciles it against the backend
// after startup.
type AuthState struct {
	Authenticated bool      `json:"authenticated"`
	CheckedAt     time.Time `json:"checked_at"`
}

// StateStore defines where the cached auth state lives, so it can be
// kept in memory (tests) or on disk (default).
type StateStore interface {
	// Load returns the persisted state, or ErrNotFound if none exists.
	Load() (AuthState, error)
	// Save persists the state, replacing any previous value.
	Save(state AuthState) error
	// Clear removes the persisted state. Clearing absent state is not
	// an error.
	Clear() error
}
