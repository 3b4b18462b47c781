// Package server exposes the dashboard over HTTP: the page, a JSON API, the
// websocket feed and Prometheus metrics.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"StockPulse/internal/metrics"
	"StockPulse/internal/presenter"
	"StockPulse/internal/recorder"
	"StockPulse/internal/session"

	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Server wires the controller and collaborators to HTTP routes.
type Server struct {
	Controller *presenter.Controller
	Tracker    *session.Tracker
	Recorder   recorder.Recorder
	WebSocket  http.Handler
	Trending   []string
	AppName    string
	Clock      func() time.Time
	log        zerolog.Logger
}

// New creates a Server. ws may be nil to disable the websocket route.
func New(appName string, c *presenter.Controller, tracker *session.Tracker, rec recorder.Recorder, ws http.Handler, trending []string, log zerolog.Logger) *Server {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Server{
		Controller: c,
		Tracker:    tracker,
		Recorder:   rec,
		WebSocket:  ws,
		Trending:   trending,
		AppName:    appName,
		Clock:      time.Now,
		log:        log,
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /{$}", s.handlePageSearch)
	mux.HandleFunc("GET /api/view", s.handleView)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/session", s.handleSession)
	mux.HandleFunc("GET /api/trending", s.handleTrending)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", metrics.Handler())
	if s.WebSocket != nil {
		mux.Handle("GET /ws", s.WebSocket)
	}
	return s.logRequests(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info().Str("addr", addr).Msg("http server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type pageData struct {
	AppName   string
	View      presenter.View
	Trending  []string
	Symbol    string
	ChartJSON template.JS
	Year      int
}

// handlePage only renders the held view; ?symbol pre-fills the search box.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	view := s.Controller.View()
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" && view.Snapshot != nil {
		symbol = view.Snapshot.Symbol
	}

	data := pageData{
		AppName:  s.AppName,
		View:     view,
		Trending: s.Trending,
		Symbol:   symbol,
		Year:     s.Clock().Year(),
	}
	if view.Chart != nil {
		if b, err := json.Marshal(view.Chart); err == nil {
			data.ChartJSON = template.JS(b)
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		s.log.Error().Err(err).Msg("render page")
	}
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Controller.View())
}

// handlePageSearch runs a search from the page form and redirects back, so a
// reload does not repeat it.
func (s *Server) handlePageSearch(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.FormValue("symbol"))
	if _, err := s.Controller.Search(r.Context(), symbol); err != nil {
		s.log.Debug().Err(err).Str("symbol", symbol).Msg("page search")
	}
	target := "/"
	if symbol != "" {
		target += "?symbol=" + url.QueryEscape(symbol)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if r.Method == http.MethodPost {
		var body struct {
			Symbol string `json:"symbol"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		symbol = body.Symbol
	}

	view, err := s.Controller.Search(r.Context(), symbol)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, view)
	case errors.Is(err, presenter.ErrStaleResponse):
		writeJSON(w, http.StatusConflict, view)
	default:
		writeJSON(w, http.StatusBadGateway, view)
	}
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	status := s.Tracker.Current(s.Clock())
	writeJSON(w, http.StatusOK, map[string]any{
		"status": status,
		"banner": session.Banner(status),
	})
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Trending)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := s.Recorder.RecentLookups(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("load lookup history")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
		return
	}
	if events == nil {
		events = []recorder.LookupEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("took", time.Since(start)).Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
