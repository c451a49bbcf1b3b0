package agent

import (
	"fmt"
	"sync"
)

// State is the lifecycle state of an agent.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateTearingDown
	// StateFailed is terminal: the broker refused or could not be reached.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateTearingDown:
		return "tearing_down"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

var transitions = map[State][]State{
	StateDisconnected: {StateConnecting},
	StateConnecting:   {StateConnected, StateFailed, StateTearingDown},
	StateConnected:    {StateTearingDown},
	StateFailed:       {StateTearingDown},
}

type lifecycle struct {
	mu       sync.Mutex
	state    State
	onChange func(State)
}

func (l *lifecycle) get() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// to moves to next if that is a legal step from the current state.
func (l *lifecycle) to(next State) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range transitions[l.state] {
		if s == next {
			l.state = next
			if l.onChange != nil {
				l.onChange(next)
			}
			return nil
		}
	}
	return fmt.Errorf("agent: cannot go from %s to %s", l.state, next)
}
