package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"capitalperf/internal/api"
	"capitalperf/internal/catalog"
	"capitalperf/internal/model"
	"capitalperf/internal/perf"
)

// MarketSource lists instruments and fetches their snapshots.
type MarketSource interface {
	CategoryMarkets(ctx context.Context, nodeID, category string) ([]model.Instrument, error)
	MarketDetails(ctx context.Context, epic string) (*model.MarketDetails, error)
}

// PriceSource resolves a historical close for an instrument near a date.
type PriceSource interface {
	ResolveClose(ctx context.Context, epic string, target time.Time) (*float64, error)
}

// Config holds one run's settings.
type Config struct {
	RunID      uuid.UUID
	Categories []string
	Limits     map[string]int // overrides the catalog caps where present; 0 means unlimited
}

// Stats summarizes a completed run.
type Stats struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	Elapsed    time.Duration
	Categories int // categories fully processed
	Failed     int // categories abandoned after an error
	Markets    int // instruments listed after capping
	Rows       int // result rows produced
	Skipped    int // instruments dropped after fetch failures
}

// Analyzer sweeps categories sequentially and computes performance rows.
type Analyzer struct {
	cfg     Config
	markets MarketSource
	prices  PriceSource
	logger  *slog.Logger

	now func() time.Time
}

// New creates an Analyzer.
func New(cfg Config, markets MarketSource, prices PriceSource, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		cfg:     cfg,
		markets: markets,
		prices:  prices,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes the sweep. Per-category and per-instrument failures are
// logged and counted without stopping sibling work; an authentication
// failure or every category failing aborts the run.
func (a *Analyzer) Run(ctx context.Context) ([]model.Row, Stats, error) {
	start := a.now()
	stats := Stats{RunID: a.cfg.RunID, StartedAt: start}

	a.logger.Info("run started",
		"run_id", a.cfg.RunID,
		"categories", len(a.cfg.Categories),
	)

	var rows []model.Row
	for _, category := range a.cfg.Categories {
		catRows, err := a.runCategory(ctx, category, &stats)
		if err != nil {
			var authErr *api.AuthError
			if errors.As(err, &authErr) {
				return nil, stats, fmt.Errorf("category %s: %w", category, err)
			}
			if ctx.Err() != nil {
				return nil, stats, ctx.Err()
			}
			a.logger.Error("category failed", "category", category, "error", err)
			stats.Failed++
			continue
		}
		rows = append(rows, catRows...)
		stats.Categories++
	}

	stats.Rows = len(rows)
	stats.Elapsed = a.now().Sub(start)

	if stats.Categories == 0 && len(a.cfg.Categories) > 0 {
		return nil, stats, errors.New("all categories failed")
	}

	a.logger.Info("run complete",
		"rows", stats.Rows,
		"markets", stats.Markets,
		"skipped", stats.Skipped,
		"failed_categories", stats.Failed,
		"elapsed", stats.Elapsed,
	)
	return rows, stats, nil
}

// runCategory lists one category and analyzes each of its instruments.
func (a *Analyzer) runCategory(ctx context.Context, category string, stats *Stats) ([]model.Row, error) {
	cat, err := catalog.Lookup(category)
	if err != nil {
		return nil, err
	}

	instruments, err := a.markets.CategoryMarkets(ctx, cat.NodeID, cat.Name)
	if err != nil {
		return nil, fmt.Errorf("list %s markets: %w", category, err)
	}

	limit := cat.DefaultCap
	if v, ok := a.cfg.Limits[cat.Name]; ok {
		limit = v
	}
	if limit > 0 && len(instruments) > limit {
		instruments = instruments[:limit]
	}
	stats.Markets += len(instruments)

	a.logger.Info("processing category",
		"category", category,
		"instruments", len(instruments),
	)

	rows := make([]model.Row, 0, len(instruments))
	for i, inst := range instruments {
		row, err := a.analyzeInstrument(ctx, inst)
		if err != nil {
			var authErr *api.AuthError
			if errors.As(err, &authErr) {
				return nil, err
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.logger.Warn("instrument skipped",
				"category", category,
				"epic", inst.Epic,
				"error", err,
			)
			stats.Skipped++
			continue
		}
		rows = append(rows, row)
		a.logger.Debug("instrument done",
			"epic", inst.Epic,
			"progress", fmt.Sprintf("%d/%d", i+1, len(instruments)),
		)
	}

	return rows, nil
}

// analyzeInstrument fetches the snapshot and resolves every lookback
// window. A window whose close cannot be fetched stays nil; only a failed
// snapshot fetch skips the instrument.
func (a *Analyzer) analyzeInstrument(ctx context.Context, inst model.Instrument) (model.Row, error) {
	details, err := a.markets.MarketDetails(ctx, inst.Epic)
	if err != nil {
		return model.Row{}, fmt.Errorf("details for %s: %w", inst.Epic, err)
	}

	now := a.now()
	record := model.NewPerformanceRecord()
	for _, w := range model.Windows {
		target := perf.TargetDate(now, w)
		historical, err := a.prices.ResolveClose(ctx, inst.Epic, target)
		if err != nil {
			var authErr *api.AuthError
			if errors.As(err, &authErr) {
				return model.Row{}, err
			}
			if ctx.Err() != nil {
				return model.Row{}, ctx.Err()
			}
			a.logger.Warn("window unresolved",
				"epic", inst.Epic,
				"window", string(w),
				"error", err,
			)
			continue
		}
		record[w] = perf.Compute(details.Snapshot.Bid, historical)
	}

	instrumentType := details.Instrument.Type
	if instrumentType == "" {
		instrumentType = strings.ToUpper(inst.Category)
	}

	return model.Row{
		Category:     catalog.Title(inst.Category),
		Symbol:       inst.Epic,
		Name:         inst.Name,
		Price:        details.Snapshot.Bid,
		Currency:     details.Instrument.Currency,
		ChangeToday:  details.Snapshot.ChangeToday,
		Performance:  record,
		MarketStatus: details.Snapshot.MarketStatus,
		Type:         instrumentType,
	}, nil
}
