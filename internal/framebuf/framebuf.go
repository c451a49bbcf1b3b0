// Package framebuf holds the most recent frame received from the target.
package framebuf

import (
	"sync/atomic"

	t "mqttdesk/internal/types"
)

// Latest is a single-slot frame holder. Store replaces the whole frame; Load
// never observes a partially written one. Older frames are discarded.
type Latest struct {
	frame atomic.Pointer[t.Frame]
	seq   atomic.Uint64
}

func New() *Latest { return &Latest{} }

// Store replaces the held frame.
func (l *Latest) Store(f *t.Frame) {
	l.frame.Store(f)
	l.seq.Add(1)
}

// Load returns the held frame, or nil if none has arrived yet.
func (l *Latest) Load() *t.Frame { return l.frame.Load() }

// Seq counts stores; a display can skip redraws while it is unchanged.
func (l *Latest) Seq() uint64 { return l.seq.Load() }
