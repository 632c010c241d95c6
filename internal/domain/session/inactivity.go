package session

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultInactivityTimeout is how long a session may sit idle before its
// conversation memory is cleared.
const DefaultInactivityTimeout = 15 * time.Minute

// Inactivity watches for idle sessions. Expiry only resets the remote
// conversation; the session itself stays signed in.
type Inactivity struct {
	clock    clockwork.Clock
	timeout  time.Duration
	onExpire func()

	mu    sync.Mutex
	last  time.Time
	timer clockwork.Timer
}

// NewInactivity creates a stopped tracker. Call Touch to start it.
func NewInactivity(clk clockwork.Clock, timeout time.Duration, onExpire func()) *Inactivity {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if timeout <= 0 {
		timeout = DefaultInactivityTimeout
	}
	return &Inactivity{clock: clk, timeout: timeout, onExpire: onExpire}
}

// Touch records activity and restarts the timer.
func (a *Inactivity) Touch() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last = a.clock.Now()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = a.clock.AfterFunc(a.timeout, a.expire)
}

// CheckStale fires the expiry callback when the session has already been
// idle longer than the timeout, as happens when a suspended tab wakes up
// after its timer was throttled. It reports whether it fired.
func (a *Inactivity) CheckStale() bool {
	a.mu.Lock()
	stale := !a.last.IsZero() && a.clock.Now().Sub(a.last) > a.timeout
	a.mu.Unlock()
	if stale {
		a.expire()
	}
	return stale
}

// LastActivity returns the time of the last Touch.
func (a *Inactivity) LastActivity() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// Stop cancels the pending timer.
func (a *Inactivity) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Inactivity) expire() {
	if a.onExpire != nil {
		a.onExpire()
	}
}
