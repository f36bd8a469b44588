package perf

import (
	"time"

	"capitalperf/internal/model"
)

// Compute returns the percentage change from historical to current:
// ((current - historical) / historical) * 100.
//
// The result is nil when either input is missing or when the historical
// price is zero or negative, since dividing by a non-positive price would
// produce a nonsense metric from corrupt provider data. Valid results are
// unbounded in both directions.
func Compute(current, historical *float64) *float64 {
	if current == nil || historical == nil {
		return nil
	}
	if *historical <= 0 {
		return nil
	}
	change := ((*current - *historical) / *historical) * 100
	return &change
}

// TargetDate returns the historical date a window compares against.
func TargetDate(now time.Time, w model.Window) time.Time {
	return now.AddDate(0, 0, -w.Offset(now))
}
