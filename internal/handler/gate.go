package handler

import (
	"sync"
	"time"
)

// SubmitGate rejects a second submission inside a short window after the
// first. It guards against double-clicks, not against true concurrent
// submissions from different sessions.
type SubmitGate struct {
	mu          sync.Mutex
	window      time.Duration
	lockedUntil time.Time
	now         func() time.Time
}

// NewSubmitGate creates a gate with the given debounce window.
func NewSubmitGate(window time.Duration) *SubmitGate {
	return &SubmitGate{window: window, now: time.Now}
}

// TryAcquire reports whether a submission may proceed and, when it may,
// opens a new lock window.
func (g *SubmitGate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if now.Before(g.lockedUntil) {
		return false
	}
	g.lockedUntil = now.Add(g.window)
	return true
}
