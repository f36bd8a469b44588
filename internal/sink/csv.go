package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"capitalperf/internal/model"
)

// CSV writes rows to a single CSV file, replacing any previous run's file.
type CSV struct {
	Path string
}

// Name implements Sink.
func (c *CSV) Name() string { return "csv" }

// Write implements Sink. The file is written to a temp name in the target
// directory and renamed into place, so readers never see a partial file.
func (c *CSV) Write(ctx context.Context, rows []model.Row) error {
	dir := filepath.Dir(c.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(model.Header()); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row.Record()); err != nil {
			tmp.Close()
			return fmt.Errorf("write row %s: %w", row.Symbol, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.Path); err != nil {
		return fmt.Errorf("replace %s: %w", c.Path, err)
	}
	return nil
}

// ReadCSV loads a result file written by the CSV sink. A header-only file
// yields an empty slice. A missing file surfaces the os.Open error so
// callers can test it with os.IsNotExist.
func ReadCSV(path string) ([]model.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]model.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row, err := model.ParseRecord(record)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
