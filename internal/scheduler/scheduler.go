package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"StockPulse/internal/collector"
	"StockPulse/internal/metrics"
	"StockPulse/internal/model"
	"StockPulse/internal/notifier"
	"StockPulse/internal/presenter"
	"StockPulse/internal/recorder"
	"StockPulse/internal/session"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SessionBroadcaster receives session status changes.
type SessionBroadcaster interface {
	BroadcastSession(status model.SessionStatus, banner string)
}

// Scheduler manages the cron tasks and chat commands.
type Scheduler struct {
	Cron        *cron.Cron
	Tracker     *session.Tracker
	Broadcaster SessionBroadcaster
	Fetcher     collector.Fetcher
	Recorder    recorder.Recorder
	Trending    []string
	Clock       func() time.Time
	log         zerolog.Logger
}

// NewScheduler creates a new Scheduler. The cron runs in the tracker's location.
func NewScheduler(tracker *session.Tracker, b SessionBroadcaster, f collector.Fetcher, rec recorder.Recorder, trending []string, log zerolog.Logger) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds(), cron.WithLocation(tracker.Location())),
		Tracker:     tracker,
		Broadcaster: b,
		Fetcher:     f,
		Recorder:    rec,
		Trending:    trending,
		Clock:       time.Now,
		log:         log,
	}
}

// RegisterAll registers the session refresh task.
func (s *Scheduler) RegisterAll(sessionCron string) error {
	if _, err := s.Cron.AddFunc(sessionCron, s.refreshSession); err != nil {
		return fmt.Errorf("register session task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler after resolving the session once.
func (s *Scheduler) Start() {
	s.refreshSession()
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RefreshNow re-resolves the session immediately.
func (s *Scheduler) RefreshNow() {
	s.refreshSession()
}

func (s *Scheduler) refreshSession() {
	status, changed := s.Tracker.Refresh(s.Clock())
	metrics.SetMarketOpen(status.Open)
	if !changed {
		return
	}

	banner := session.Banner(status)
	if status.Open {
		s.log.Info().Msg("market session open")
	} else {
		s.log.Info().Time("next_open", status.NextOpen).Msg("market session closed")
	}
	if s.Broadcaster != nil {
		s.Broadcaster.BroadcastSession(status, banner)
	}
	if err := s.Recorder.RecordSession(&recorder.SessionEvent{
		Open: status.Open, NextOpen: status.NextOpen, At: s.Clock(),
	}); err != nil {
		s.log.Error().Err(err).Msg("record session change")
	}
}

// HandleCommand processes a chat command and returns a reply. Quotes are
// answered from a fresh fetch and never touch the dashboard state.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch strings.ToLower(fields[0]) {
	case "/quote":
		if len(fields) < 2 {
			return "Usage: /quote SYMBOL"
		}
		return s.quote(ctx, fields[1])
	case "/session":
		status := s.Tracker.Current(s.Clock())
		return notifier.FormatSession(status, session.Banner(status))
	case "/trending":
		return notifier.FormatTrending(s.Trending)
	default:
		return "Available commands:\n• /quote SYMBOL\n• /session\n• /trending"
	}
}

func (s *Scheduler) quote(ctx context.Context, symbol string) string {
	status := s.Tracker.Current(s.Clock())
	snap, err := s.Fetcher.FetchSnapshot(ctx, symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("chat quote failed")
		snap = nil
	}
	return notifier.FormatQuote(presenter.BuildView(snap, status, s.Tracker.Location()))
}
