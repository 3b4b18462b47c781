// Package session decides whether the exchange is trading and, when it is
// not, when it next opens.
package session

import (
	"time"

	"StockPulse/internal/model"
)

// Trading window in minutes of the local day, Monday to Friday.
const (
	OpenMinute  = 9*60 + 15  // 09:15
	CloseMinute = 15*60 + 15 // 15:15
)

// Resolve returns the session status at now, evaluated in now's location.
//
// The open edge is inclusive (09:15 is open) and the close edge is exclusive
// (15:15 is closed). The next opening is always normalized to 09:15:00.
func Resolve(now time.Time) model.SessionStatus {
	day := now.Weekday()
	total := now.Hour()*60 + now.Minute()

	var days int
	switch {
	case day == time.Saturday:
		days = 2
	case day == time.Sunday:
		days = 1
	case day == time.Friday && total >= CloseMinute:
		days = 3
	case total >= CloseMinute:
		days = 1
	case total < OpenMinute:
		days = 0
	default:
		return model.SessionStatus{Open: true}
	}

	return model.SessionStatus{NextOpen: openingOn(now.AddDate(0, 0, days))}
}

func openingOn(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, OpenMinute/60, OpenMinute%60, 0, 0, day.Location())
}
