package session

import (
	"sync"
	"time"

	"StockPulse/internal/model"
)

// Tracker holds the most recently resolved status so readers do not hit the
// clock themselves. Callers choose the refresh cadence.
type Tracker struct {
	mu       sync.RWMutex
	loc      *time.Location
	status   model.SessionStatus
	resolved bool
}

// NewTracker creates a Tracker that resolves times in loc.
func NewTracker(loc *time.Location) *Tracker {
	if loc == nil {
		loc = time.Local
	}
	return &Tracker{loc: loc}
}

// Location returns the exchange location used for resolution.
func (t *Tracker) Location() *time.Location { return t.loc }

// Refresh resolves the status at now and reports whether it differs from the
// previously held one. The first call always reports a change.
func (t *Tracker) Refresh(now time.Time) (model.SessionStatus, bool) {
	status := Resolve(now.In(t.loc))

	t.mu.Lock()
	defer t.mu.Unlock()
	changed := !t.resolved || status.Open != t.status.Open || !status.NextOpen.Equal(t.status.NextOpen)
	t.status = status
	t.resolved = true
	return status, changed
}

// Current returns the held status, resolving it at now if nothing is held yet.
func (t *Tracker) Current(now time.Time) model.SessionStatus {
	t.mu.RLock()
	status, ok := t.status, t.resolved
	t.mu.RUnlock()
	if ok {
		return status
	}
	status, _ = t.Refresh(now)
	return status
}
