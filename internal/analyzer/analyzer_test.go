package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"capitalperf/internal/api"
	"capitalperf/internal/model"
	"capitalperf/internal/perf"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeMarkets struct {
	listings   map[string][]model.Instrument // keyed by node id
	details    map[string]*model.MarketDetails
	listErr    map[string]error // keyed by node id
	detailsErr map[string]error // keyed by epic
	listCalls  []string
}

func (f *fakeMarkets) CategoryMarkets(ctx context.Context, nodeID, category string) ([]model.Instrument, error) {
	f.listCalls = append(f.listCalls, nodeID)
	if err := f.listErr[nodeID]; err != nil {
		return nil, err
	}
	return f.listings[nodeID], nil
}

func (f *fakeMarkets) MarketDetails(ctx context.Context, epic string) (*model.MarketDetails, error) {
	if err := f.detailsErr[epic]; err != nil {
		return nil, err
	}
	d, ok := f.details[epic]
	if !ok {
		return nil, fmt.Errorf("no details for %s", epic)
	}
	return d, nil
}

type fakePrices struct {
	closes map[string]*float64 // epic:date, missing key means no history
	errs   map[string]error
	calls  int
}

func priceKey(epic string, target time.Time) string {
	return epic + ":" + target.Format("2006-01-02")
}

func (f *fakePrices) ResolveClose(ctx context.Context, epic string, target time.Time) (*float64, error) {
	f.calls++
	k := priceKey(epic, target)
	if err := f.errs[k]; err != nil {
		return nil, err
	}
	return f.closes[k], nil
}

func newFakeMarkets() *fakeMarkets {
	return &fakeMarkets{
		listings:   make(map[string][]model.Instrument),
		details:    make(map[string]*model.MarketDetails),
		listErr:    make(map[string]error),
		detailsErr: make(map[string]error),
	}
}

func newFakePrices() *fakePrices {
	return &fakePrices{
		closes: make(map[string]*float64),
		errs:   make(map[string]error),
	}
}

func instrument(epic, category string) model.Instrument {
	return model.Instrument{Epic: epic, Name: epic + " Inc", Category: category, MarketStatus: "TRADEABLE"}
}

func marketDetails(epic string, bid float64) *model.MarketDetails {
	return &model.MarketDetails{
		Instrument: model.Instrument{Epic: epic, Currency: "USD", Type: "SHARES"},
		Snapshot: model.Snapshot{
			Bid:          model.Float(bid),
			ChangeToday:  model.Float(0.5),
			MarketStatus: "TRADEABLE",
		},
	}
}

// seedCloses records a historical close for every window except the named
// ones.
func seedCloses(p *fakePrices, epic string, value float64, skip ...model.Window) {
	skipped := make(map[model.Window]bool, len(skip))
	for _, w := range skip {
		skipped[w] = true
	}
	for _, w := range model.Windows {
		if skipped[w] {
			continue
		}
		p.closes[priceKey(epic, perf.TargetDate(testNow, w))] = model.Float(value)
	}
}

func newTestAnalyzer(cfg Config, m *fakeMarkets, p *fakePrices) *Analyzer {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := New(cfg, m, p, quiet)
	a.now = func() time.Time { return testNow }
	return a
}

func TestRunComputesPerformance(t *testing.T) {
	m := newFakeMarkets()
	m.listings["hierarchy_v1.shares"] = []model.Instrument{
		instrument("AAPL", "shares"),
		instrument("MSFT", "shares"),
	}
	m.details["AAPL"] = marketDetails("AAPL", 110)
	m.details["MSFT"] = marketDetails("MSFT", 50)

	p := newFakePrices()
	seedCloses(p, "AAPL", 100)
	seedCloses(p, "MSFT", 100, model.Window10Y)

	runID := uuid.New()
	a := newTestAnalyzer(Config{RunID: runID, Categories: []string{"shares"}}, m, p)

	rows, stats, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if len(m.listCalls) != 1 || m.listCalls[0] != "hierarchy_v1.shares" {
		t.Errorf("listCalls = %v, want [hierarchy_v1.shares]", m.listCalls)
	}

	aapl := rows[0]
	if aapl.Category != "Shares" {
		t.Errorf("Category = %q, want Shares", aapl.Category)
	}
	if aapl.Symbol != "AAPL" || aapl.Name != "AAPL Inc" {
		t.Errorf("identity = %q/%q, want AAPL/AAPL Inc", aapl.Symbol, aapl.Name)
	}
	if aapl.Price == nil || *aapl.Price != 110 {
		t.Errorf("Price = %v, want 110", aapl.Price)
	}
	if aapl.Currency != "USD" || aapl.Type != "SHARES" || aapl.MarketStatus != "TRADEABLE" {
		t.Errorf("snapshot fields = %q/%q/%q", aapl.Currency, aapl.Type, aapl.MarketStatus)
	}
	for _, w := range model.Windows {
		v := aapl.Performance[w]
		if v == nil || *v != 10 {
			t.Errorf("AAPL %s = %v, want 10", w, v)
		}
	}

	// MSFT has history everywhere except 10Y, so exactly one window is
	// absent and the rest compute to -50.
	msft := rows[1]
	missing := 0
	for _, w := range model.Windows {
		v := msft.Performance[w]
		if v == nil {
			missing++
			if w != model.Window10Y {
				t.Errorf("MSFT %s = nil, want -50", w)
			}
			continue
		}
		if *v != -50 {
			t.Errorf("MSFT %s = %v, want -50", w, *v)
		}
	}
	if missing != 1 {
		t.Errorf("missing windows = %d, want 1", missing)
	}

	if stats.RunID != runID {
		t.Errorf("stats.RunID = %v, want %v", stats.RunID, runID)
	}
	if stats.Categories != 1 || stats.Failed != 0 {
		t.Errorf("stats categories = %d/%d failed, want 1/0", stats.Categories, stats.Failed)
	}
	if stats.Markets != 2 || stats.Rows != 2 || stats.Skipped != 0 {
		t.Errorf("stats = %d markets, %d rows, %d skipped", stats.Markets, stats.Rows, stats.Skipped)
	}
	if p.calls != 16 {
		t.Errorf("price calls = %d, want 16", p.calls)
	}
}

func TestRunCategoryFailureIsolation(t *testing.T) {
	t.Run("fetch failure", func(t *testing.T) {
		m := newFakeMarkets()
		m.listErr["hierarchy_v1.currencies"] = errors.New("connection reset")
		m.listings["hierarchy_v1.shares"] = []model.Instrument{instrument("AAPL", "shares")}
		m.details["AAPL"] = marketDetails("AAPL", 110)

		p := newFakePrices()
		seedCloses(p, "AAPL", 100)

		a := newTestAnalyzer(Config{Categories: []string{"forex", "shares"}}, m, p)

		rows, stats, err := a.Run(context.Background())
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(rows) != 1 || rows[0].Symbol != "AAPL" {
			t.Errorf("rows = %v, want just AAPL", rows)
		}
		if stats.Failed != 1 || stats.Categories != 1 {
			t.Errorf("stats = %d failed, %d ok, want 1, 1", stats.Failed, stats.Categories)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		m := newFakeMarkets()
		m.listings["hierarchy_v1.shares"] = []model.Instrument{instrument("AAPL", "shares")}
		m.details["AAPL"] = marketDetails("AAPL", 110)

		p := newFakePrices()
		seedCloses(p, "AAPL", 100)

		a := newTestAnalyzer(Config{Categories: []string{"stonks", "shares"}}, m, p)

		rows, stats, err := a.Run(context.Background())
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(rows) != 1 {
			t.Errorf("len(rows) = %d, want 1", len(rows))
		}
		if stats.Failed != 1 {
			t.Errorf("stats.Failed = %d, want 1", stats.Failed)
		}
		// No provider call happens for a name outside the catalog.
		if len(m.listCalls) != 1 || m.listCalls[0] != "hierarchy_v1.shares" {
			t.Errorf("listCalls = %v, want [hierarchy_v1.shares]", m.listCalls)
		}
	})
}

func TestRunAuthFailureAborts(t *testing.T) {
	m := newFakeMarkets()
	m.listings["hierarchy_v1.shares"] = []model.Instrument{
		instrument("AAPL", "shares"),
		instrument("MSFT", "shares"),
	}
	m.detailsErr["AAPL"] = &api.AuthError{Err: errors.New("session rejected")}

	p := newFakePrices()
	a := newTestAnalyzer(Config{Categories: []string{"shares", "forex"}}, m, p)

	rows, _, err := a.Run(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var authErr *api.AuthError
	if !errors.As(err, &authErr) {
		t.Errorf("err = %v, want *api.AuthError", err)
	}
	if rows != nil {
		t.Errorf("rows = %v, want nil", rows)
	}
	if p.calls != 0 {
		t.Errorf("price calls = %d, want 0 after abort", p.calls)
	}
	// The sibling category is never reached.
	if len(m.listCalls) != 1 {
		t.Errorf("listCalls = %v, want only shares", m.listCalls)
	}
}

func TestRunAllCategoriesFailed(t *testing.T) {
	m := newFakeMarkets()
	m.listErr["hierarchy_v1.currencies"] = errors.New("connection reset")

	a := newTestAnalyzer(Config{Categories: []string{"forex"}}, m, newFakePrices())

	_, stats, err := a.Run(context.Background())
	if err == nil || err.Error() != "all categories failed" {
		t.Fatalf("err = %v, want all categories failed", err)
	}
	if stats.Failed != 1 {
		t.Errorf("stats.Failed = %d, want 1", stats.Failed)
	}
}

func TestRunCaps(t *testing.T) {
	t.Run("limit override trims the listing", func(t *testing.T) {
		m := newFakeMarkets()
		m.listings["hierarchy_v1.shares"] = []model.Instrument{
			instrument("AAPL", "shares"),
			instrument("MSFT", "shares"),
			instrument("GOOG", "shares"),
		}
		p := newFakePrices()
		for _, epic := range []string{"AAPL", "MSFT", "GOOG"} {
			m.details[epic] = marketDetails(epic, 110)
			seedCloses(p, epic, 100)
		}

		cfg := Config{Categories: []string{"shares"}, Limits: map[string]int{"shares": 2}}
		a := newTestAnalyzer(cfg, m, p)

		rows, stats, err := a.Run(context.Background())
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(rows) != 2 || rows[0].Symbol != "AAPL" || rows[1].Symbol != "MSFT" {
			t.Errorf("rows = %d, want first two in listing order", len(rows))
		}
		if stats.Markets != 2 {
			t.Errorf("stats.Markets = %d, want 2", stats.Markets)
		}
	})

	t.Run("default cap applies", func(t *testing.T) {
		m := newFakeMarkets()
		p := newFakePrices()
		var fx []model.Instrument
		for i := 0; i < 25; i++ {
			epic := fmt.Sprintf("FX%02d", i)
			fx = append(fx, instrument(epic, "forex"))
			m.details[epic] = marketDetails(epic, 110)
			seedCloses(p, epic, 100)
		}
		m.listings["hierarchy_v1.currencies"] = fx

		a := newTestAnalyzer(Config{Categories: []string{"forex"}}, m, p)

		rows, _, err := a.Run(context.Background())
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(rows) != 20 {
			t.Errorf("len(rows) = %d, want catalog cap of 20", len(rows))
		}
	})

	t.Run("zero cap lists everything", func(t *testing.T) {
		m := newFakeMarkets()
		p := newFakePrices()
		var all []model.Instrument
		for _, epic := range []string{"GOLD", "SILVER", "OIL_CRUDE"} {
			all = append(all, instrument(epic, "commodities"))
			m.details[epic] = marketDetails(epic, 110)
			seedCloses(p, epic, 100)
		}
		m.listings["hierarchy_v1.commodities"] = all

		a := newTestAnalyzer(Config{Categories: []string{"commodities"}}, m, p)

		rows, _, err := a.Run(context.Background())
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(rows) != 3 {
			t.Errorf("len(rows) = %d, want 3", len(rows))
		}
	})
}

func TestRunWindowErrorTolerated(t *testing.T) {
	m := newFakeMarkets()
	m.listings["hierarchy_v1.shares"] = []model.Instrument{instrument("AAPL", "shares")}
	m.details["AAPL"] = marketDetails("AAPL", 110)

	p := newFakePrices()
	seedCloses(p, "AAPL", 100)
	p.errs[priceKey("AAPL", perf.TargetDate(testNow, model.Window1W))] = errors.New("rate limit exceeded")

	a := newTestAnalyzer(Config{Categories: []string{"shares"}}, m, p)

	rows, stats, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].Performance[model.Window1W] != nil {
		t.Error("1W should stay nil after a resolve failure")
	}
	if v := rows[0].Performance[model.Window1M]; v == nil || *v != 10 {
		t.Errorf("1M = %v, want 10", v)
	}
	if stats.Skipped != 0 {
		t.Errorf("stats.Skipped = %d, want 0", stats.Skipped)
	}
}

func TestRunSkipsFailedInstrument(t *testing.T) {
	m := newFakeMarkets()
	m.listings["hierarchy_v1.shares"] = []model.Instrument{
		instrument("AAPL", "shares"),
		instrument("MSFT", "shares"),
	}
	m.detailsErr["AAPL"] = errors.New("network timeout")
	m.details["MSFT"] = marketDetails("MSFT", 110)

	p := newFakePrices()
	seedCloses(p, "MSFT", 100)

	a := newTestAnalyzer(Config{Categories: []string{"shares"}}, m, p)

	rows, stats, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Symbol != "MSFT" {
		t.Errorf("rows = %d, want just MSFT", len(rows))
	}
	if stats.Skipped != 1 || stats.Rows != 1 {
		t.Errorf("stats = %d skipped, %d rows, want 1, 1", stats.Skipped, stats.Rows)
	}
}

func TestRunContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newFakeMarkets()
	m.listErr["hierarchy_v1.shares"] = context.Canceled

	a := newTestAnalyzer(Config{Categories: []string{"shares", "forex"}}, m, newFakePrices())

	_, _, err := a.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	// Cancellation stops the run instead of counting as a category failure.
	if len(m.listCalls) != 1 {
		t.Errorf("listCalls = %v, want only the first category", m.listCalls)
	}
}

func TestRunTypeFallsBackToCategory(t *testing.T) {
	m := newFakeMarkets()
	m.listings["hierarchy_v1.crypto_currencies"] = []model.Instrument{instrument("BTCUSD", "cryptocurrencies")}
	m.details["BTCUSD"] = &model.MarketDetails{
		Instrument: model.Instrument{Epic: "BTCUSD", Currency: "USD"},
		Snapshot:   model.Snapshot{Bid: model.Float(95000), MarketStatus: "TRADEABLE"},
	}

	p := newFakePrices()
	seedCloses(p, "BTCUSD", 90000)

	a := newTestAnalyzer(Config{Categories: []string{"cryptocurrencies"}}, m, p)

	rows, _, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if rows[0].Type != "CRYPTOCURRENCIES" {
		t.Errorf("Type = %q, want CRYPTOCURRENCIES", rows[0].Type)
	}
}
