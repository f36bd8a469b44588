package sink

import (
	"context"
	"fmt"

	"capitalperf/internal/model"
)

// Sink persists one run's worth of result rows.
type Sink interface {
	// Name identifies the sink in logs and error messages.
	Name() string

	// Write persists the rows. Called once per run with the full result set.
	Write(ctx context.Context, rows []model.Row) error
}

// Multi writes to several sinks in order. The first failure stops the
// sequence; earlier sinks keep what they wrote.
type Multi []Sink

// Name implements Sink.
func (m Multi) Name() string { return "multi" }

// Write implements Sink.
func (m Multi) Write(ctx context.Context, rows []model.Row) error {
	for _, s := range m {
		if err := s.Write(ctx, rows); err != nil {
			return fmt.Errorf("%s sink: %w", s.Name(), err)
		}
	}
	return nil
}
