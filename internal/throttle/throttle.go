// Package throttle implements the tick/delay counter used to thin out
// continuous input signals such as mouse motion and scrolling.
package throttle

import "sync"

// Throttle lets one of every Delay events through. It is safe for concurrent
// use by several input callbacks.
type Throttle struct {
	mu    sync.Mutex
	tick  int
	delay int
}

// New returns a Throttle with the given delay. A delay below 1 passes every
// event.
func New(delay int) *Throttle {
	if delay < 1 {
		delay = 1
	}
	return &Throttle{delay: delay}
}

// Allow counts one event and reports whether it should be sent. The counter
// resets to zero whenever an event is allowed.
func (t *Throttle) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tick++
	if t.tick >= t.delay {
		t.tick = 0
		return true
	}
	return false
}

// Tick returns the current counter value.
func (t *Throttle) Tick() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tick
}

func (t *Throttle) Delay() int { return t.delay }

// Reset zeroes the counter.
func (t *Throttle) Reset() {
	t.mu.Lock()
	t.tick = 0
	t.mu.Unlock()
}
