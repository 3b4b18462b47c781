package presenter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"StockPulse/internal/collector"
	"StockPulse/internal/model"
	"StockPulse/internal/recorder"
	"StockPulse/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+30*60)

// Tuesday 2025-10-14 11:00, market open.
func fixedClock() time.Time {
	return time.Date(2025, time.October, 14, 11, 0, 0, 0, ist)
}

type recordingSink struct {
	mu     sync.Mutex
	alerts []model.Alert
}

func (s *recordingSink) Notify(_ context.Context, alert model.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
}

func (s *recordingSink) count(kind model.AlertKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.alerts {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

type memRecorder struct {
	recorder.NoopRecorder
	mu     sync.Mutex
	events []recorder.LookupEvent
}

func (m *memRecorder) RecordLookup(evt *recorder.LookupEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *evt)
	return nil
}

func newTestController(f collector.Fetcher) (*Controller, *recordingSink, *memRecorder) {
	sink := &recordingSink{}
	rec := &memRecorder{}
	c := NewController(f, sink, session.NewTracker(ist), rec, fixedClock, zerolog.Nop())
	return c, sink, rec
}

func mockWith(snaps ...*model.StockSnapshot) *collector.MockFetcher {
	m := &collector.MockFetcher{Snapshots: map[string]*model.StockSnapshot{}}
	for _, s := range snaps {
		m.Snapshots[s.Symbol] = s
	}
	return m
}

func TestSearch_Notifications(t *testing.T) {
	tests := []struct {
		suggestion         string
		positive, negative int
	}{
		{"BUY", 1, 0},
		{"SELL", 0, 1},
		{"HOLD", 0, 0},
		{"WAIT", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.suggestion, func(t *testing.T) {
			c, sink, _ := newTestController(mockWith(sampleSnapshot(tt.suggestion)))

			v, err := c.Search(context.Background(), "RELIANCE.NS")
			require.NoError(t, err)

			assert.Equal(t, tt.positive, sink.count(model.AlertPositive))
			assert.Equal(t, tt.negative, sink.count(model.AlertNegative))
			assert.Equal(t, tt.suggestion, v.Suggestion)
			assert.Empty(t, v.Error)
			assert.Empty(t, v.Banner, "market is open at the fixed clock")
		})
	}
}

func TestSearch_FailureClearsSnapshot(t *testing.T) {
	mock := mockWith(sampleSnapshot("BUY"))
	c, sink, rec := newTestController(mock)

	v, err := c.Search(context.Background(), "RELIANCE.NS")
	require.NoError(t, err)
	require.NotNil(t, v.Snapshot)

	v, err = c.Search(context.Background(), "UNKNOWN.NS")
	require.Error(t, err)
	assert.ErrorIs(t, err, collector.ErrNotFound)

	assert.Nil(t, v.Snapshot)
	assert.Nil(t, c.Snapshot())
	assert.Nil(t, v.Chart)
	assert.Empty(t, v.Metrics)
	assert.Equal(t, ErrorMessage, v.Error)
	assert.Equal(t, 1, sink.count(model.AlertNegative))
	assert.Equal(t, ErrorMessage, sink.alerts[1].Message)

	require.Len(t, rec.events, 2)
	assert.True(t, rec.events[0].Success)
	assert.False(t, rec.events[1].Success)
	assert.NotEmpty(t, rec.events[1].Error)
}

func TestSearch_CallerCancelKeepsState(t *testing.T) {
	mock := mockWith(sampleSnapshot("HOLD"))
	c, sink, rec := newTestController(mock)

	_, err := c.Search(context.Background(), "RELIANCE.NS")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v, err := c.Search(ctx, "RELIANCE.NS")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	require.NotNil(t, v.Snapshot)
	assert.Equal(t, "HOLD", v.Suggestion)
	assert.Empty(t, v.Error)
	assert.False(t, v.Loading)
	assert.Zero(t, sink.count(model.AlertNegative))

	require.Len(t, rec.events, 2)
	assert.False(t, rec.events[1].Success)
	assert.NotEmpty(t, rec.events[1].Error)

	// A later search still applies normally.
	mock.Snapshots["RELIANCE.NS"] = sampleSnapshot("BUY")
	v, err = c.Search(context.Background(), "RELIANCE.NS")
	require.NoError(t, err)
	assert.Equal(t, "BUY", v.Suggestion)
	assert.Equal(t, 1, sink.count(model.AlertPositive))
}

func TestSearch_ValidationFailureTreatedAsFetchFailure(t *testing.T) {
	mock := &collector.MockFetcher{Err: &model.ValidationError{Symbol: "X", Fields: []string{"avg50"}}}
	c, sink, _ := newTestController(mock)

	v, err := c.Search(context.Background(), "X")
	var ve *model.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Nil(t, v.Snapshot)
	assert.Equal(t, 1, sink.count(model.AlertNegative))
}

func TestSearch_SuccessReplacesError(t *testing.T) {
	c, _, _ := newTestController(mockWith(sampleSnapshot("HOLD")))

	_, err := c.Search(context.Background(), "NOPE")
	require.Error(t, err)

	v, err := c.Search(context.Background(), "RELIANCE.NS")
	require.NoError(t, err)
	assert.Empty(t, v.Error)
	assert.Equal(t, BadgeNeutral, v.Badge)
	assert.Equal(t, fixedClock(), v.UpdatedAt)
}

func TestSearch_BlankSymbolIsNoop(t *testing.T) {
	mock := mockWith(sampleSnapshot("BUY"))
	c, sink, _ := newTestController(mock)

	v, err := c.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, v.Snapshot)
	assert.Empty(t, mock.Calls())
	assert.Empty(t, sink.alerts)
}

// gatedFetcher blocks each symbol until its gate is released.
type gatedFetcher struct {
	gates   map[string]chan struct{}
	started chan string
}

func (g *gatedFetcher) Name() string { return "gated" }

func (g *gatedFetcher) FetchSnapshot(ctx context.Context, symbol string) (*model.StockSnapshot, error) {
	g.started <- symbol
	<-g.gates[symbol]
	return &model.StockSnapshot{Symbol: symbol, Suggestion: "BUY"}, nil
}

func TestSearch_StaleResponseDiscarded(t *testing.T) {
	g := &gatedFetcher{
		gates:   map[string]chan struct{}{"SLOW": make(chan struct{}), "FAST": make(chan struct{})},
		started: make(chan string, 2),
	}
	c, sink, rec := newTestController(g)

	slowDone := make(chan error, 1)
	go func() {
		_, err := c.Search(context.Background(), "SLOW")
		slowDone <- err
	}()
	require.Equal(t, "SLOW", <-g.started)

	fastDone := make(chan error, 1)
	go func() {
		_, err := c.Search(context.Background(), "FAST")
		fastDone <- err
	}()
	require.Equal(t, "FAST", <-g.started)
	assert.True(t, c.View().Loading)

	close(g.gates["FAST"])
	require.NoError(t, <-fastDone)

	close(g.gates["SLOW"])
	err := <-slowDone
	assert.ErrorIs(t, err, ErrStaleResponse)

	v := c.View()
	require.NotNil(t, v.Snapshot)
	assert.Equal(t, "FAST", v.Snapshot.Symbol)
	assert.False(t, v.Loading)
	assert.Equal(t, 1, sink.count(model.AlertPositive), "stale result must not alert")

	require.Len(t, rec.events, 2)
	assert.True(t, rec.events[1].Stale)
}

func TestView_ClosedBanner(t *testing.T) {
	saturday := func() time.Time { return time.Date(2025, time.October, 18, 12, 0, 0, 0, ist) }
	c := NewController(mockWith(), nil, session.NewTracker(ist), nil, saturday, zerolog.Nop())

	v := c.View()
	assert.False(t, v.Session.Open)
	assert.Equal(t, "📴 Market is closed. It will open on Monday, 20 Oct at 9:15 AM", v.Banner)
}
