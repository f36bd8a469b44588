package sink

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"capitalperf/internal/model"
)

// Mirrors the PostgreSQL schema with SQLite types. Run ids are stored as
// their string form.
const sqliteDDL = `
CREATE TABLE IF NOT EXISTS market_performance (
	run_id          TEXT NOT NULL,
	fetched_at      TEXT NOT NULL,
	category        TEXT NOT NULL,
	symbol          TEXT NOT NULL,
	name            TEXT NOT NULL,
	price           REAL,
	currency        TEXT,
	change_today    REAL,
	perf_1w         REAL,
	perf_1m         REAL,
	perf_3m         REAL,
	perf_6m         REAL,
	perf_ytd        REAL,
	perf_1y         REAL,
	perf_5y         REAL,
	perf_10y        REAL,
	market_status   TEXT,
	instrument_type TEXT,
	PRIMARY KEY (run_id, symbol)
)`

// SQLite inserts rows into an embedded database file.
type SQLite struct {
	db     *sql.DB
	runID  uuid.UUID
	logger *slog.Logger
}

// OpenSQLite opens the database file, creating it and the schema when
// missing.
func OpenSQLite(path string, runID uuid.UUID, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(3000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &SQLite{db: db, runID: runID, logger: logger}, nil
}

// Name implements Sink.
func (s *SQLite) Name() string { return "sqlite" }

// Write implements Sink. All rows go in one transaction; rows already
// present for this run id are skipped.
func (s *SQLite) Write(ctx context.Context, rows []model.Row) error {
	if len(rows) == 0 {
		return nil
	}

	fetchedAt := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO market_performance (run_id, fetched_at, category, symbol, name, price, currency, change_today, perf_1w, perf_1m, perf_3m, perf_6m, perf_ytd, perf_1y, perf_5y, perf_10y, market_status, instrument_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	start := time.Now()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			s.runID.String(), fetchedAt, r.Category, r.Symbol, r.Name, r.Price, r.Currency, r.ChangeToday,
			r.Performance[model.Window1W], r.Performance[model.Window1M],
			r.Performance[model.Window3M], r.Performance[model.Window6M],
			r.Performance[model.WindowYTD], r.Performance[model.Window1Y],
			r.Performance[model.Window5Y], r.Performance[model.Window10Y],
			r.MarketStatus, r.Type,
		); err != nil {
			return fmt.Errorf("insert %s: %w", r.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Info("wrote rows to sqlite",
		"count", len(rows),
		"duration", time.Since(start),
	)
	return nil
}

// Close closes the database file.
func (s *SQLite) Close() error {
	return s.db.Close()
}
