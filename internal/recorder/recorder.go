package recorder

import "time"

// LookupEvent records the outcome of one dashboard search.
type LookupEvent struct {
	ID            string
	Token         uint64
	Symbol        string
	Success       bool
	Stale         bool
	Suggestion    string
	LTP           float64
	ChangePercent float64
	Error         string
	Latency       time.Duration
	At            time.Time
}

// SessionEvent records a change of the market session status.
type SessionEvent struct {
	Open     bool
	NextOpen time.Time
	At       time.Time
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordLookup(evt *LookupEvent) error
	RecordSession(evt *SessionEvent) error
	RecentLookups(limit int) ([]LookupEvent, error)
	Close() error
}
