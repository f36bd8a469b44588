package model

import (
	"fmt"
	"strconv"
	"strings"
)

// NA is the sink sentinel for unavailable values.
const NA = "N/A"

// Row is one computed result line: the snapshot of an instrument plus its
// performance record.
type Row struct {
	Category     string
	Symbol       string
	Name         string
	Price        *float64 // snapshot bid
	Currency     string
	ChangeToday  *float64 // provider day change percentage
	Performance  PerformanceRecord
	MarketStatus string
	Type         string
}

// Header returns the CSV column names in sink order.
func Header() []string {
	cols := []string{"Category", "Symbol", "Name", "Current Price", "Currency", "Price Change %"}
	for _, w := range Windows {
		cols = append(cols, w.Column())
	}
	return append(cols, "Market Status", "Type")
}

// Record renders the row as CSV fields in Header order. Empty string fields
// render as "N/A" like missing numbers do.
func (r Row) Record() []string {
	fields := []string{
		r.Category,
		r.Symbol,
		r.Name,
		FormatPrice(r.Price),
		orNA(r.Currency),
		FormatPercent(r.ChangeToday),
	}
	for _, w := range Windows {
		fields = append(fields, FormatPercent(r.Performance[w]))
	}
	return append(fields, orNA(r.MarketStatus), orNA(r.Type))
}

// ParseRecord decodes CSV fields in Header order back into a Row.
func ParseRecord(fields []string) (Row, error) {
	want := len(Header())
	if len(fields) != want {
		return Row{}, fmt.Errorf("record has %d fields, want %d", len(fields), want)
	}

	row := Row{
		Category:    fields[0],
		Symbol:      fields[1],
		Name:        fields[2],
		Price:       ParsePrice(fields[3]),
		Currency:    fields[4],
		ChangeToday: ParsePercent(fields[5]),
		Performance: NewPerformanceRecord(),
	}
	for i, w := range Windows {
		row.Performance[w] = ParsePercent(fields[6+i])
	}
	row.MarketStatus = fields[6+len(Windows)]
	row.Type = fields[7+len(Windows)]
	return row, nil
}

// FormatPercent renders a percentage metric, two decimals with a % suffix.
func FormatPercent(v *float64) string {
	if v == nil {
		return NA
	}
	return fmt.Sprintf("%.2f%%", *v)
}

// FormatPrice renders an optional price without padding or trailing zeros.
func FormatPrice(v *float64) string {
	if v == nil {
		return NA
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ParsePercent reads a formatted percentage back. Returns nil for "N/A",
// empty, or anything unparseable.
func ParsePercent(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, NA) {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParsePrice reads a formatted price back. Returns nil for "N/A", empty, or
// anything unparseable.
func ParsePrice(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, NA) {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func orNA(s string) string {
	if s == "" {
		return NA
	}
	return s
}
