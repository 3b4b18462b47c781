package session

import (
	"fmt"

	"StockPulse/internal/model"
)

// DateLayout renders the next opening day, e.g. "Tuesday, 14 Oct".
const DateLayout = "Monday, 2 Jan"

// OpenTimeLabel is shown verbatim next to the date.
const OpenTimeLabel = "9:15 AM"

// Banner returns the closed-market message, or "" when the market is open.
func Banner(status model.SessionStatus) string {
	if status.Open {
		return ""
	}
	return fmt.Sprintf("📴 Market is closed. It will open on %s at %s",
		status.NextOpen.Format(DateLayout), OpenTimeLabel)
}
