package presenter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"StockPulse/internal/collector"
	"StockPulse/internal/metrics"
	"StockPulse/internal/model"
	"StockPulse/internal/recorder"
	"StockPulse/internal/session"

	"github.com/rs/zerolog"
)

// ErrStaleResponse is returned when a search finished after a newer one had
// already been applied. Its result is dropped.
var ErrStaleResponse = errors.New("stale response discarded")

// Sink receives alerts. Implementations must not block the caller.
type Sink interface {
	Notify(ctx context.Context, alert model.Alert)
}

// Controller holds the dashboard state: the last applied snapshot or error.
// Each search takes a token; only the newest token may change the state.
type Controller struct {
	fetcher  collector.Fetcher
	sink     Sink
	tracker  *session.Tracker
	recorder recorder.Recorder
	clock    func() time.Time
	log      zerolog.Logger

	mu        sync.Mutex
	issued    uint64
	applied   uint64
	inflight  int
	snapshot  *model.StockSnapshot
	errMsg    string
	updatedAt time.Time
}

// NewController creates a Controller. rec may be nil.
func NewController(fetcher collector.Fetcher, sink Sink, tracker *session.Tracker, rec recorder.Recorder, clock func() time.Time, log zerolog.Logger) *Controller {
	if clock == nil {
		clock = time.Now
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Controller{
		fetcher:  fetcher,
		sink:     sink,
		tracker:  tracker,
		recorder: rec,
		clock:    clock,
		log:      log,
	}
}

// Search fetches symbol and, unless a newer search has already been applied,
// replaces the held snapshot with the result. A failed fetch clears the
// snapshot and emits one negative alert. A blank symbol is a no-op, and a
// search abandoned by its caller leaves the state untouched.
func (c *Controller) Search(ctx context.Context, symbol string) (View, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return c.View(), nil
	}

	c.mu.Lock()
	c.issued++
	token := c.issued
	c.inflight++
	c.mu.Unlock()

	start := c.clock()
	snap, err := c.fetcher.FetchSnapshot(ctx, symbol)
	latency := c.clock().Sub(start)
	metrics.FetchDuration.Observe(latency.Seconds())

	evt := &recorder.LookupEvent{Token: token, Symbol: symbol, Latency: latency, At: c.clock()}

	if err != nil && ctx.Err() != nil {
		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeCancelled).Inc()
		c.log.Debug().Err(err).Str("symbol", symbol).Uint64("token", token).Msg("search abandoned by caller")
		c.record(evt, err)
		return c.View(), fmt.Errorf("search %s: %w", symbol, err)
	}

	c.mu.Lock()
	c.inflight--
	if token < c.applied {
		c.mu.Unlock()
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeStale).Inc()
		c.log.Debug().Str("symbol", symbol).Uint64("token", token).Msg("dropping stale search result")
		evt.Stale = true
		evt.Success = err == nil
		c.record(evt, err)
		return c.View(), fmt.Errorf("search %s: %w", symbol, ErrStaleResponse)
	}
	c.applied = token
	c.updatedAt = evt.At
	if err != nil {
		c.snapshot = nil
		c.errMsg = ErrorMessage
	} else {
		c.snapshot = snap
		c.errMsg = ""
	}
	c.mu.Unlock()

	notifyCtx := context.WithoutCancel(ctx)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("search failed")
		c.dispatch(notifyCtx, FailureAlert(symbol))
		c.record(evt, err)
		return c.View(), fmt.Errorf("search %s: %w", symbol, err)
	}

	metrics.SearchesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.SuggestionsTotal.WithLabelValues(string(Classify(snap.Suggestion))).Inc()
	c.log.Info().Str("symbol", snap.Symbol).Str("suggestion", snap.Suggestion).Float64("ltp", snap.LTP).Msg("search applied")
	if alert, ok := AlertFor(snap); ok {
		c.dispatch(notifyCtx, alert)
	}
	evt.Success = true
	evt.Suggestion = snap.Suggestion
	evt.LTP = snap.LTP
	evt.ChangePercent = snap.ChangePercent
	c.record(evt, nil)
	return c.View(), nil
}

// View returns the current view model.
func (c *Controller) View() View {
	now := c.clock()
	status := c.tracker.Current(now)

	c.mu.Lock()
	snap, errMsg, inflight, updatedAt := c.snapshot, c.errMsg, c.inflight, c.updatedAt
	c.mu.Unlock()

	v := BuildView(snap, status, c.tracker.Location())
	v.Error = errMsg
	v.Loading = inflight > 0
	v.UpdatedAt = updatedAt
	return v
}

// Snapshot returns the held snapshot, or nil.
func (c *Controller) Snapshot() *model.StockSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

func (c *Controller) dispatch(ctx context.Context, alert model.Alert) {
	if c.sink == nil {
		return
	}
	metrics.AlertsTotal.WithLabelValues(string(alert.Kind)).Inc()
	c.sink.Notify(ctx, alert)
}

func (c *Controller) record(evt *recorder.LookupEvent, err error) {
	if err != nil {
		evt.Error = err.Error()
	}
	if rerr := c.recorder.RecordLookup(evt); rerr != nil {
		c.log.Error().Err(rerr).Str("symbol", evt.Symbol).Msg("record lookup")
	}
}
