package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+30*60)

// 2025-10-13 is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.October, day, hour, minute, 27, 500, ist)
}

func opening(day int) time.Time {
	return time.Date(2025, time.October, day, 9, 15, 0, 0, ist)
}

func TestResolve_OpenDuringWindow(t *testing.T) {
	for day := 13; day <= 17; day++ {
		for _, hm := range [][2]int{{9, 15}, {11, 0}, {15, 14}} {
			status := Resolve(at(day, hm[0], hm[1]))
			assert.True(t, status.Open, "%s %02d:%02d", at(day, 0, 0).Weekday(), hm[0], hm[1])
			assert.True(t, status.NextOpen.IsZero())
		}
	}
}

func TestResolve_Closed(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"monday before open", at(13, 9, 14), opening(13)},
		{"monday midnight", at(13, 0, 0), opening(13)},
		{"monday at close", at(13, 15, 15), opening(14)},
		{"thursday evening", at(16, 22, 30), opening(17)},
		{"friday before open", at(17, 8, 0), opening(17)},
		{"friday at close", at(17, 15, 15), opening(20)},
		{"friday late", at(17, 23, 59), opening(20)},
		{"saturday morning", at(18, 10, 0), opening(20)},
		{"saturday before open", at(18, 6, 0), opening(20)},
		{"sunday within hours", at(19, 12, 0), opening(20)},
		{"sunday late", at(19, 23, 0), opening(20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := Resolve(tt.now)
			require.False(t, status.Open)
			assert.True(t, tt.want.Equal(status.NextOpen), "want %s, got %s", tt.want, status.NextOpen)
		})
	}
}

func TestResolve_MonthRollover(t *testing.T) {
	// Friday 2025-10-31 after close opens Monday 2025-11-03.
	now := time.Date(2025, time.October, 31, 16, 0, 0, 0, ist)
	status := Resolve(now)
	want := time.Date(2025, time.November, 3, 9, 15, 0, 0, ist)
	assert.True(t, want.Equal(status.NextOpen), "got %s", status.NextOpen)
}

func TestResolve_UsesLocationOfInput(t *testing.T) {
	// 04:00 UTC on a Monday is 09:30 IST: open in IST, before open in UTC.
	utc := time.Date(2025, time.October, 13, 4, 0, 0, 0, time.UTC)
	assert.False(t, Resolve(utc).Open)
	assert.True(t, Resolve(utc.In(ist)).Open)
}

func TestBanner(t *testing.T) {
	assert.Empty(t, Banner(Resolve(at(14, 10, 0))))
	assert.Equal(t,
		"📴 Market is closed. It will open on Tuesday, 14 Oct at 9:15 AM",
		Banner(Resolve(at(13, 18, 0))))
	assert.Equal(t,
		"📴 Market is closed. It will open on Monday, 20 Oct at 9:15 AM",
		Banner(Resolve(at(18, 9, 0))))
}

func TestTracker_Refresh(t *testing.T) {
	tr := NewTracker(ist)

	status, changed := tr.Refresh(at(13, 9, 0))
	assert.True(t, changed)
	assert.False(t, status.Open)

	_, changed = tr.Refresh(at(13, 9, 10))
	assert.False(t, changed, "same next open should not count as a change")

	status, changed = tr.Refresh(at(13, 9, 15))
	assert.True(t, changed)
	assert.True(t, status.Open)

	assert.True(t, tr.Current(at(20, 0, 0)).Open, "Current must not re-resolve once held")
}

func TestTracker_CurrentResolvesLazily(t *testing.T) {
	tr := NewTracker(ist)
	assert.False(t, tr.Current(at(18, 12, 0)).Open)
}
