// Package sim is a local twin of the telephony backend. It implements
// the same REST contract the production backend exposes (cookie
// sessions, /initiateCall, /endCall, call history, contacts) so the
// client can be developed and integration-tested without real telephony
// credentials. No audio path exists; calls are bookkeeping only.
package sim

import (
	"crypto/rand"
	"errors"
	"log/slog"
	"os"

	"github.com/gorilla/sessions"
)

const sessionName = "dialtone_session"

var (
	errUserExists     = errors.New("user already exists")
	errCallInProgress = errors.New("a call is already in progress")
	errCallNotFound   = errors.New("call not found")
)

// Sim bundles the in-memory store with the HTTP surface.
type Sim struct {
	store    *Store
	sessions *sessions.CookieStore
	logger   *slog.Logger
}

// Option configures the Sim.
type Option func(*Sim)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sim) {
		s.logger = logger
	}
}

// WithSessionKey pins the cookie signing key. Without it a random key
// is generated, which invalidates cookies across restarts.
func WithSessionKey(key []byte) Option {
	return func(s *Sim) {
		s.sessions = sessions.NewCookieStore(key)
	}
}

// New creates a simulator with an empty store.
func New(opts ...Option) *Sim {
	s := &Sim{store: NewStore()}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessions == nil {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic("sim: cannot read random session key: " + err.Error())
		}
		s.sessions = sessions.NewCookieStore(key)
	}
	s.sessions.Options.HttpOnly = true
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return s
}

// Store exposes the backing store for seeding and tests.
func (s *Sim) Store() *Store {
	return s.store
}
