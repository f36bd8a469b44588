package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// One row per instrument per run, keyed by (run_id, symbol). Absent
// prices and windows stay NULL.
const marketPerformanceDDL = `
CREATE TABLE IF NOT EXISTS market_performance (
	run_id          UUID        NOT NULL,
	fetched_at      TIMESTAMPTZ NOT NULL,
	category        TEXT        NOT NULL,
	symbol          TEXT        NOT NULL,
	name            TEXT        NOT NULL,
	price           DOUBLE PRECISION,
	currency        TEXT,
	change_today    DOUBLE PRECISION,
	perf_1w         DOUBLE PRECISION,
	perf_1m         DOUBLE PRECISION,
	perf_3m         DOUBLE PRECISION,
	perf_6m         DOUBLE PRECISION,
	perf_ytd        DOUBLE PRECISION,
	perf_1y         DOUBLE PRECISION,
	perf_5y         DOUBLE PRECISION,
	perf_10y        DOUBLE PRECISION,
	market_status   TEXT,
	instrument_type TEXT,
	PRIMARY KEY (run_id, symbol)
)`

const marketPerformanceCategoryIdx = `
CREATE INDEX IF NOT EXISTS market_performance_category_idx
	ON market_performance (category)`

// EnsureSchema creates the results table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, ddl := range []string{marketPerformanceDDL, marketPerformanceCategoryIdx} {
		if _, err := pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
