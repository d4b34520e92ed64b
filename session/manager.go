// Package session owns the client's belief about whether its
// cookie-backed backend session is authenticated.
//
// The state is optimistic: it is seeded from a persisted cache before
// any network activity and reconciled against the backend by an initial
// check plus a periodic revalidation. Recoverable network failures never
// deauthenticate (fail-open); explicit logout, a 401, or any other
// server error during a check do.
package session

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dialforge/dialtone/client"
	"github.com/dialforge/dialtone/storage"
)

// DefaultRevalidateInterval is how often an authenticated session is
// re-checked against the backend.
const DefaultRevalidateInterval = 5 * time.Minute

// checkFailedMessage is shown when a session check fails for a reason
// other than a network error or a plain 401.
const checkFailedMessage = "Authentication check failed. Please try logging in again."

// AuthAPI is the backend surface the manager needs.
type AuthAPI interface {
	CheckAuth(ctx context.Context) (*client.CheckAuthResult, error)
	Logout(ctx context.Context) error
}

// Notifier receives user-facing error messages. A 401 during a check is
// an expected condition and is never surfaced through it.
type Notifier interface {
	Error(msg string)
}

type noopNotifier struct{}

func (noopNotifier) Error(string) {}

// Manager is the single source of truth for authentication state. All
// mutation goes through it; collaborators only read and invoke.
type Manager struct {
	api      AuthAPI
	store    storage.StateStore
	notifier Notifier
	logger   *slog.Logger
	interval time.Duration

	mu            sync.Mutex
	authenticated bool
	user          *client.UserProfile
	lastCheckedAt time.Time
	loading       bool
	// epoch is bumped on logout so a check that was in flight when the
	// user logged out cannot resurrect the authenticated state.
	epoch uint64

	stop chan struct{}
	done chan struct{}
}

// Option configures the Manager.
type Option func(*Manager)

// WithNotifier sets where user-facing errors are delivered.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		m.notifier = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithRevalidateInterval overrides the periodic re-check interval.
func WithRevalidateInterval(d time.Duration) Option {
	return func(m *Manager) {
		m.interval = d
	}
}

// New creates a Manager. It performs no I/O; call Initialize to seed
// state and run the first check.
func New(api AuthAPI, store storage.StateStore, opts ...Option) *Manager {
	m := &Manager{
		api:      api,
		store:    store,
		notifier: noopNotifier{},
		interval: DefaultRevalidateInterval,
		loading:  true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return m
}

// Authenticated reports the current local truth.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

// User returns the profile the backend last supplied, if any.
func (m *Manager) User() *client.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// LastCheckedAt returns when the last check completed, successfully or not.
func (m *Manager) LastCheckedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCheckedAt
}

// Loading reports whether the initial check has not yet settled.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Initialize seeds authenticated from the persisted cache before any
// network activity, then runs an immediate check against the backend.
func (m *Manager) Initialize(ctx context.Context) error {
	state, err := m.store.Load()
	switch {
	case err == nil:
		m.mu.Lock()
		m.authenticated = state.Authenticated
		m.mu.Unlock()
	case errors.Is(err, storage.ErrNotFound):
		// First run, nothing cached.
	default:
		m.logger.Warn("loading cached auth state failed", "error", err)
	}
	return m.CheckAuthStatus(ctx)
}

// CheckAuthStatus issues one bounded session check and reconciles local
// state with the outcome. lastCheckedAt is updated and the loading flag
// cleared on every exit path.
func (m *Manager) CheckAuthStatus(ctx context.Context) error {
	m.mu.Lock()
	m.loading = true
	epoch := m.epoch
	m.mu.Unlock()

	res, err := m.api.CheckAuth(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCheckedAt = time.Now()
	m.loading = false

	if m.epoch != epoch {
		// The user logged out while the check was in flight. Its verdict
		// no longer applies to anything.
		return err
	}

	if err == nil {
		m.authenticated = true
		if res.User != nil {
			m.user = res.User
		}
		m.persistLocked()
		return nil
	}

	switch client.KindOf(err) {
	case client.KindNetwork:
		// Transient connectivity: keep the prior state.
		m.logger.Debug("auth check network error, keeping state", "error", err)
	case client.KindUnauthorized:
		// Expected (expired cookie); deauthenticate silently.
		m.deauthLocked()
	default:
		m.deauthLocked()
		m.notifier.Error(client.UserMessage(err, checkFailedMessage))
	}
	return err
}

// Login optimistically marks the session authenticated and persists the
// cache flag immediately. The caller has just received a successful
// login response; no further round trip is needed.
func (m *Manager) Login(user *client.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authenticated = true
	if user != nil {
		m.user = user
	}
	m.persistLocked()
}

// Logout cancels the revalidation schedule, issues a best-effort logout
// request, and always clears local state. Logout intent is never blocked
// by a network failure.
func (m *Manager) Logout(ctx context.Context) error {
	// Stop the schedule before the request so no revalidation can race
	// the logout.
	m.StopRevalidation()

	err := m.api.Logout(ctx)
	if err != nil {
		m.logger.Warn("logout request failed", "error", err)
	}

	m.mu.Lock()
	m.epoch++
	m.deauthLocked()
	m.mu.Unlock()
	return err
}

// StartRevalidation begins the periodic re-check. It re-checks only
// while the session is believed authenticated, to avoid pointless
// requests. Safe to call once per Manager; stop with StopRevalidation
// or Close.
func (m *Manager) StartRevalidation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop != nil {
		return
	}
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.revalidateLoop(m.stop, m.done)
}

func (m *Manager) revalidateLoop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if !m.Authenticated() {
				continue
			}
			if err := m.CheckAuthStatus(context.Background()); err != nil {
				m.logger.Debug("revalidation check failed", "error", err)
			}
		case <-stop:
			return
		}
	}
}

// StopRevalidation cancels the periodic re-check and waits for the loop
// to exit, so no check can start after this returns.
func (m *Manager) StopRevalidation() {
	m.mu.Lock()
	stop, done := m.stop, m.done
	m.stop, m.done = nil, nil
	m.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Close releases background resources. The manager itself stays usable
// for direct operations afterwards.
func (m *Manager) Close() {
	m.StopRevalidation()
}

// persistLocked writes the cache flag. Callers hold m.mu.
func (m *Manager) persistLocked() {
	err := m.store.Save(storage.AuthState{Authenticated: m.authenticated, CheckedAt: time.Now()})
	if err != nil {
		m.logger.Warn("persisting auth state failed", "error", err)
	}
}

// deauthLocked clears authentication state and the persisted flag.
// Callers hold m.mu.
func (m *Manager) deauthLocked() {
	m.authenticated = false
	m.user = nil
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("clearing auth state failed", "error", err)
	}
}
