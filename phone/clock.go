package phone

import (
	"sync"
	"time"
)

// Clock counts elapsed whole seconds for the active call. The value is
// client-observed wall time for display only; it is never reconciled
// against a backend-reported duration.
//
// The ticking goroutine is a scoped resource: Start acquires it, Stop
// releases it and resets the counter. The controller calls Stop on every
// path out of the active states so no ticker leaks.
type Clock struct {
	period time.Duration

	mu      sync.Mutex
	seconds int
	stop    chan struct{}
	done    chan struct{}
}

// NewClock creates a stopped clock. period is how often the counter
// increments; pass time.Second outside tests.
func NewClock(period time.Duration) *Clock {
	return &Clock{period: period}
}

// Start begins counting. No-op if already running.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		return
	}
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.run(c.stop, c.done)
}

func (c *Clock) run(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.seconds++
			c.mu.Unlock()
		case <-stop:
			return
		}
	}
}

// Stop cancels the ticking goroutine, waits for it to exit, and resets
// the counter. No-op if not running, except that the counter is still
// zeroed.
func (c *Clock) Stop() {
	c.mu.Lock()
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	c.mu.Unlock()
	if stop != nil {
		close(stop)
		<-done
	}
	c.mu.Lock()
	c.seconds = 0
	c.mu.Unlock()
}

// Seconds returns the elapsed count.
func (c *Clock) Seconds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seconds
}
