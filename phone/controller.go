// Package phone implements the client-side state machine for one
// outbound call: dial, ring, active, ended. There is at most one call
// session; it is reset to idle after every call, never destroyed.
package phone

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dialforge/dialtone/client"
	"github.com/dialforge/dialtone/internal/util"
)

// MinNumberLength is the shortest dialable number after normalization.
// Anything shorter is rejected locally; no request is made.
const MinNumberLength = 8

var (
	// ErrCallInProgress is returned by Dial while a call session is live.
	ErrCallInProgress = errors.New("a call is already in progress")
	// ErrNumberTooShort is returned when the dialed number fails the
	// minimum-length check.
	ErrNumberTooShort = errors.New("phone number is too short")
	// ErrNoActiveCall is returned by EndCall when no call is active.
	ErrNoActiveCall = errors.New("no active call")
)

// CallAPI is the backend surface the controller needs.
type CallAPI interface {
	InitiateCall(ctx context.Context, phoneNumber string) (string, error)
	EndCall(ctx context.Context, callSID string) error
}

// Notifier receives user-facing call notifications.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}

type noopNotifier struct{}

func (noopNotifier) Success(string) {}
func (noopNotifier) Info(string)    {}
func (noopNotifier) Error(string)   {}

// CallSession is a read-only snapshot of the call state machine.
type CallSession struct {
	Status         Status
	CallID         string
	TargetNumber   string
	ElapsedSeconds int
	Muted          bool
}

// Controller drives the single call session. All mutation of call state
// goes through it; collaborators read snapshots and invoke operations.
type Controller struct {
	api      CallAPI
	notifier Notifier
	logger   *slog.Logger
	clock    *Clock

	onCallStarted func(CallSession)
	onCallEnded   func(CallSession)

	mu           sync.Mutex
	status       Status
	callID       string
	targetNumber string
	muted        bool
}

// Option configures the Controller.
type Option func(*Controller)

// WithNotifier sets where call notifications are delivered.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithClockPeriod overrides the duration clock's tick period. Tests use
// a short period; the default is one second.
func WithClockPeriod(d time.Duration) Option {
	return func(c *Controller) {
		c.clock = NewClock(d)
	}
}

// WithOnCallStarted registers the hook raised on entering Active. The
// UI collaborator opens its call screen from here.
func WithOnCallStarted(fn func(CallSession)) Option {
	return func(c *Controller) {
		c.onCallStarted = fn
	}
}

// WithOnCallEnded registers the hook raised after a call has wound down
// back to Idle. The history collaborator invalidates its cached list
// from here; the snapshot carries StatusTerminated and the final
// elapsed duration.
func WithOnCallEnded(fn func(CallSession)) Option {
	return func(c *Controller) {
		c.onCallEnded = fn
	}
}

// New creates a Controller in the Idle state.
func New(api CallAPI, opts ...Option) *Controller {
	c := &Controller{
		api:      api,
		notifier: noopNotifier{},
		clock:    NewClock(time.Second),
		status:   StatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return c
}

// Session returns a snapshot of the current call state.
func (c *Controller) Session() CallSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Status returns the current lifecycle state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Elapsed returns the running call duration in seconds.
func (c *Controller) Elapsed() int {
	return c.clock.Seconds()
}

// Dial places an outbound call. The number is trimmed and normalized
// first; a number shorter than MinNumberLength fails locally without a
// network request. While a session is live the dial is rejected
// outright, enforcing at most one call at a time.
func (c *Controller) Dial(ctx context.Context, number string) error {
	number = util.NormalizeNumber(number)
	if len([]rune(number)) < MinNumberLength {
		c.notifier.Error("Please enter a valid phone number")
		return ErrNumberTooShort
	}

	c.mu.Lock()
	if c.status != StatusIdle {
		c.mu.Unlock()
		return ErrCallInProgress
	}
	c.status = StatusDialing
	c.targetNumber = number
	c.mu.Unlock()

	callID, err := c.api.InitiateCall(ctx, number)

	c.mu.Lock()
	if err != nil {
		// Any backend error, including a success response lacking a call
		// SID, lands here. Clear the partial session.
		c.resetLocked()
		c.mu.Unlock()
		c.logger.Debug("dial failed", "number", number, "error", err)
		c.notifier.Error(client.UserMessage(err, "Failed to initiate call"))
		return err
	}
	c.status = StatusActive
	c.callID = callID
	started := c.snapshotLocked()
	c.mu.Unlock()

	c.clock.Start()
	c.notifier.Success("Call initiated successfully")
	if c.onCallStarted != nil {
		c.onCallStarted(started)
	}
	return nil
}

// EndCall disconnects the active call. Local state returns to Idle on
// every outcome: the user's intent to hang up is never blocked by a
// backend failure, which is reported as a notification instead.
func (c *Controller) EndCall(ctx context.Context) error {
	c.mu.Lock()
	if c.status != StatusActive {
		c.mu.Unlock()
		return ErrNoActiveCall
	}
	c.status = StatusEnding
	callID := c.callID
	c.mu.Unlock()

	err := c.api.EndCall(ctx, callID)

	elapsed := c.clock.Seconds()
	c.clock.Stop()

	c.mu.Lock()
	ended := c.snapshotLocked()
	ended.Status = StatusTerminated
	ended.ElapsedSeconds = elapsed
	c.resetLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Debug("end call failed", "call_id", callID, "error", err)
		c.notifier.Error(client.UserMessage(err, "Failed to end call"))
	} else {
		c.notifier.Info("Call ended successfully")
	}
	if c.onCallEnded != nil {
		c.onCallEnded(ended)
	}
	return err
}

// ToggleMute flips the local mute flag and returns the new value. The
// flag is presentation state only; no backend confirmation is involved
// and the toggle never fails.
func (c *Controller) ToggleMute() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = !c.muted
	return c.muted
}

// Muted reports the local mute flag.
func (c *Controller) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// Close tears the controller down, stopping the clock and resetting the
// session. Used on app shutdown; the backend call, if any, is the
// caller's to end first.
func (c *Controller) Close() {
	c.clock.Stop()
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
}

// snapshotLocked copies the session. Callers hold c.mu.
func (c *Controller) snapshotLocked() CallSession {
	return CallSession{
		Status:         c.status,
		CallID:         c.callID,
		TargetNumber:   c.targetNumber,
		ElapsedSeconds: c.clock.Seconds(),
		Muted:          c.muted,
	}
}

// resetLocked returns the session to Idle, ready for reuse. Callers
// hold c.mu.
func (c *Controller) resetLocked() {
	c.status = StatusIdle
	c.callID = ""
	c.targetNumber = ""
	c.muted = false
}
