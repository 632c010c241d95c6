package session

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// PINLength is the number of digits in a PIN.
	PINLength = 4
	// CheckDelay lets the last dot render before the PIN is checked.
	CheckDelay = 150 * time.Millisecond
	// ClearDelay is how long a rejected PIN stays on screen.
	ClearDelay = 500 * time.Millisecond
)

// Keypad buffers PIN digits and checks the PIN once it is complete.
// check reports whether the PIN was accepted.
type Keypad struct {
	clock clockwork.Clock
	check func(pin string) bool

	mu     sync.Mutex
	buf    []byte
	failed bool
}

// NewKeypad creates a keypad. A nil clock uses the wall clock.
func NewKeypad(clk clockwork.Clock, check func(pin string) bool) *Keypad {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &Keypad{clock: clk, check: check}
}

// Press appends a digit. Presses beyond the fourth digit, and anything that
// is not a digit, are ignored.
func (k *Keypad) Press(digit rune) {
	if digit < '0' || digit > '9' {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.buf) >= PINLength {
		return
	}
	k.buf = append(k.buf, byte(digit))
	k.failed = false
	if len(k.buf) == PINLength {
		pin := string(k.buf)
		k.clock.AfterFunc(CheckDelay, func() { k.verify(pin) })
	}
}

// Delete removes the last digit and clears the error state.
func (k *Keypad) Delete() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if n := len(k.buf); n > 0 {
		k.buf = k.buf[:n-1]
	}
	k.failed = false
}

// Buffer returns the digits entered so far.
func (k *Keypad) Buffer() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return string(k.buf)
}

// Failed reports whether the last complete PIN was rejected.
func (k *Keypad) Failed() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.failed
}

func (k *Keypad) verify(pin string) {
	k.mu.Lock()
	if string(k.buf) != pin {
		// edited while the check was pending
		k.mu.Unlock()
		return
	}
	k.mu.Unlock()

	ok := k.check != nil && k.check(pin)

	k.mu.Lock()
	defer k.mu.Unlock()
	if ok {
		k.buf = k.buf[:0]
		return
	}
	k.failed = true
	k.clock.AfterFunc(ClearDelay, func() {
		k.mu.Lock()
		defer k.mu.Unlock()
		k.buf = k.buf[:0]
	})
}
