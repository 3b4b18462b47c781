package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"StockPulse/internal/collector"
	"StockPulse/internal/config"
	"StockPulse/internal/logger"
	"StockPulse/internal/notifier"
	"StockPulse/internal/presenter"
	"StockPulse/internal/recorder"
	"StockPulse/internal/scheduler"
	"StockPulse/internal/server"
	"StockPulse/internal/session"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot := logger.New("info")
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(cfg.App.LogLevel)
	log.Info().Str("app", cfg.App.Name).Msg("starting")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("exchange timezone")
	}

	// Init fetcher
	fetcher := collector.NewStockAPIFetcher(cfg.StockAPI.BaseURL, cfg.Proxy, cfg.Timeout(), cfg.StockAPI.RatePerSec, cfg.StockAPI.Burst)
	log.Info().Str("source", fetcher.Name()).Str("base_url", fetcher.BaseURL).Bool("rate_limited", cfg.RateLimited()).Msg("data source")

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init notification sinks
	hub := notifier.NewHub(log)
	sinks := notifier.Multi{hub, notifier.LogSink{Log: log}}
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		sinks = append(sinks, tn)
	}

	tracker := session.NewTracker(loc)
	ctrl := presenter.NewController(fetcher, sinks, tracker, rec, nil, log)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(tracker, hub, fetcher, rec, cfg.Trending, log)
	if err := sched.RegisterAll(cfg.Schedule.SessionCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	srv := server.New(cfg.App.Name, ctrl, tracker, rec, http.HandlerFunc(hub.HandleWebSocket), cfg.Trending, log)
	if err := srv.ListenAndServe(ctx, cfg.App.ListenAddr); err != nil {
		log.Error().Err(err).Msg("http server")
	}
	log.Info().Msg("stopped")
}
