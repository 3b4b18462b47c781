package model

import "time"

// SessionStatus is the exchange state at one instant. NextOpen is zero when
// the market is open.
type SessionStatus struct {
	Open     bool      `json:"open"`
	NextOpen time.Time `json:"next_open,omitempty"`
}
