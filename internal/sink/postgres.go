package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"capitalperf/internal/model"
)

// Postgres inserts rows into the market_performance table.
type Postgres struct {
	pool   *pgxpool.Pool
	runID  uuid.UUID
	logger *slog.Logger
}

// NewPostgres creates a Postgres sink bound to one run id.
func NewPostgres(pool *pgxpool.Pool, runID uuid.UUID, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{pool: pool, runID: runID, logger: logger}
}

// Name implements Sink.
func (p *Postgres) Name() string { return "postgres" }

// Write implements Sink. Rows already present for this run id are skipped.
func (p *Postgres) Write(ctx context.Context, rows []model.Row) error {
	if len(rows) == 0 {
		return nil
	}

	fetchedAt := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO market_performance (run_id, fetched_at, category, symbol, name, price, currency, change_today, perf_1w, perf_1m, perf_3m, perf_6m, perf_ytd, perf_1y, perf_5y, perf_10y, market_status, instrument_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			ON CONFLICT (run_id, symbol) DO NOTHING
		`, p.runID, fetchedAt, r.Category, r.Symbol, r.Name, r.Price, r.Currency, r.ChangeToday,
			r.Performance[model.Window1W], r.Performance[model.Window1M],
			r.Performance[model.Window3M], r.Performance[model.Window6M],
			r.Performance[model.WindowYTD], r.Performance[model.Window1Y],
			r.Performance[model.Window5Y], r.Performance[model.Window10Y],
			r.MarketStatus, r.Type)
	}

	start := time.Now()
	results := p.pool.SendBatch(ctx, batch)
	defer results.Close()

	conflicts := 0
	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return fmt.Errorf("batch insert: %w", err)
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	p.logger.Info("wrote rows to postgres",
		"count", len(rows),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return nil
}
