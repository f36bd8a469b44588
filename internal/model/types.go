package model

import "time"

// -----------------------------------------------------------------------------
// Instruments
// -----------------------------------------------------------------------------

// Instrument is one tradable market from the provider catalog.
type Instrument struct {
	Epic         string // Provider instrument identifier (e.g., "AAPL")
	Name         string // Display name, falls back to the epic
	Category     string // Catalog category (e.g., "forex")
	Currency     string // Quote currency (e.g., "USD")
	Type         string // Provider instrument type (e.g., "SHARES")
	MarketStatus string // Provider trading status (e.g., "TRADEABLE")
}

// Snapshot is the provider's current view of an instrument.
type Snapshot struct {
	Bid          *float64 // Current bid, the price side used for all metrics
	Offer        *float64 // Current offer
	ChangeToday  *float64 // Day change percentage reported by the provider
	MarketStatus string
}

// MarketDetails joins instrument metadata with its live snapshot.
type MarketDetails struct {
	Instrument Instrument
	Snapshot   Snapshot
}

// PricePoint is a daily close tied to its snapshot time.
type PricePoint struct {
	Close float64
	Time  time.Time
}

// -----------------------------------------------------------------------------
// Lookback Windows
// -----------------------------------------------------------------------------

// Window identifies a lookback window for performance metrics.
type Window string

// All supported lookback windows.
const (
	Window1W  Window = "1W"
	Window1M  Window = "1M"
	Window3M  Window = "3M"
	Window6M  Window = "6M"
	WindowYTD Window = "YTD"
	Window1Y  Window = "1Y"
	Window5Y  Window = "5Y"
	Window10Y Window = "10Y"
)

// Windows lists every lookback window in result column order.
var Windows = []Window{Window1W, Window1M, Window3M, Window6M, WindowYTD, Window1Y, Window5Y, Window10Y}

// Fixed day offsets. YTD is calendar-dependent and computed in Offset.
var windowOffsets = map[Window]int{
	Window1W:  7,
	Window1M:  30,
	Window3M:  90,
	Window6M:  180,
	Window1Y:  365,
	Window5Y:  1825,
	Window10Y: 3650,
}

// Offset returns the number of days to look back from now. For YTD it is
// now's day of the year, so the target lands on the last day of the prior
// year (the year-to-date baseline).
func (w Window) Offset(now time.Time) int {
	if w == WindowYTD {
		return now.YearDay()
	}
	return windowOffsets[w]
}

// Column returns the result column header for the window.
func (w Window) Column() string {
	return "Perf % " + string(w)
}

// PerformanceRecord maps every window to its percentage change. A nil value
// means the metric is unavailable for that window.
type PerformanceRecord map[Window]*float64

// NewPerformanceRecord returns a record with every window present and no
// values yet.
func NewPerformanceRecord() PerformanceRecord {
	rec := make(PerformanceRecord, len(Windows))
	for _, w := range Windows {
		rec[w] = nil
	}
	return rec
}

// Float returns a pointer to v. Convenience for building optional values.
func Float(v float64) *float64 {
	return &v
}
