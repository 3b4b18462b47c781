package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS lookups (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			token          INTEGER,
			symbol         TEXT NOT NULL,
			success        INTEGER NOT NULL,
			stale          INTEGER NOT NULL DEFAULT 0,
			suggestion     TEXT,
			ltp            REAL,
			change_percent REAL,
			error          TEXT,
			latency_ms     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lookups_ts ON lookups(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_lookups_symbol ON lookups(symbol)`,

		`CREATE TABLE IF NOT EXISTS session_changes (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			open      INTEGER NOT NULL,
			next_open INTEGER
		)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// RecordLookup stores one search outcome. Missing ID and time are filled in.
func (r *SQLiteRecorder) RecordLookup(evt *LookupEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.At.IsZero() {
		evt.At = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO lookups
		(id, timestamp, token, symbol, success, stale, suggestion, ltp, change_percent, error, latency_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evt.ID, evt.At.UnixMilli(), int64(evt.Token), evt.Symbol, boolInt(evt.Success), boolInt(evt.Stale),
		evt.Suggestion, evt.LTP, evt.ChangePercent, evt.Error, evt.Latency.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert lookup: %w", err)
	}
	return nil
}

// RecordSession stores a session status change.
func (r *SQLiteRecorder) RecordSession(evt *SessionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if evt.At.IsZero() {
		evt.At = time.Now()
	}
	var nextOpen sql.NullInt64
	if !evt.NextOpen.IsZero() {
		nextOpen = sql.NullInt64{Int64: evt.NextOpen.Unix(), Valid: true}
	}
	if _, err := r.db.Exec(`INSERT INTO session_changes (timestamp, open, next_open) VALUES (?, ?, ?)`,
		evt.At.UnixMilli(), boolInt(evt.Open), nextOpen); err != nil {
		return fmt.Errorf("insert session change: %w", err)
	}
	return nil
}

// RecentLookups returns up to limit lookups, newest first.
func (r *SQLiteRecorder) RecentLookups(limit int) ([]LookupEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT id, timestamp, token, symbol, success, stale, suggestion, ltp, change_percent, error, latency_ms
		FROM lookups ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query lookups: %w", err)
	}
	defer rows.Close()

	var out []LookupEvent
	for rows.Next() {
		var (
			evt              LookupEvent
			ts, token, latMs int64
			success, stale   int
			suggestion, errS sql.NullString
			ltp, change      sql.NullFloat64
		)
		if err := rows.Scan(&evt.ID, &ts, &token, &evt.Symbol, &success, &stale, &suggestion, &ltp, &change, &errS, &latMs); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		evt.At = time.UnixMilli(ts)
		evt.Token = uint64(token)
		evt.Success = success == 1
		evt.Stale = stale == 1
		evt.Suggestion = suggestion.String
		evt.LTP = ltp.Float64
		evt.ChangePercent = change.Float64
		evt.Error = errS.String
		evt.Latency = time.Duration(latMs) * time.Millisecond
		out = append(out, evt)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
