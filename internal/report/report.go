package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"capitalperf/internal/model"
)

// DefaultRankWindows are the windows ranked in the standard report.
var DefaultRankWindows = []model.Window{model.Window1W, model.Window1M, model.Window1Y}

const (
	summaryWidth = 60
	tableWidth   = 80
	rankLimit    = 5
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	ruleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	gainStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Summary counts result rows per category.
type Summary struct {
	Total      int
	Categories map[string]int
}

// Summarize builds category counts from result rows.
func Summarize(rows []model.Row) Summary {
	s := Summary{Total: len(rows), Categories: make(map[string]int)}
	for _, r := range rows {
		category := r.Category
		if category == "" {
			category = "Unknown"
		}
		s.Categories[category]++
	}
	return s
}

// AverageByCategory averages the window's metric per category, skipping
// rows without a value. Categories with no measurable rows are omitted.
func AverageByCategory(rows []model.Row, w model.Window) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range rows {
		v := r.Performance[w]
		if v == nil {
			continue
		}
		category := r.Category
		if category == "" {
			category = "Unknown"
		}
		sums[category] += *v
		counts[category]++
	}

	averages := make(map[string]float64, len(sums))
	for category, sum := range sums {
		averages[category] = sum / float64(counts[category])
	}
	return averages
}

// Entry is one ranked line.
type Entry struct {
	Symbol string
	Name   string
	Value  float64
}

// TopPerformers ranks rows descending by the window's metric. Rows without
// a value for the window are dropped.
func TopPerformers(rows []model.Row, w model.Window, limit int) []Entry {
	return rank(rows, w, limit, true)
}

// BottomPerformers ranks rows ascending by the window's metric.
func BottomPerformers(rows []model.Row, w model.Window, limit int) []Entry {
	return rank(rows, w, limit, false)
}

func rank(rows []model.Row, w model.Window, limit int, descending bool) []Entry {
	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		v := r.Performance[w]
		if v == nil {
			continue
		}
		entries = append(entries, Entry{Symbol: r.Symbol, Name: r.Name, Value: *v})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if descending {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Value < entries[j].Value
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Render builds the full report: the summary block plus top and bottom
// rankings for each default window.
func Render(rows []model.Row) string {
	var b strings.Builder

	writeSummary(&b, Summarize(rows))
	for _, w := range DefaultRankWindows {
		writeRanking(&b, rows, w)
	}

	return b.String()
}

func writeSummary(b *strings.Builder, s Summary) {
	rule := ruleStyle.Render(strings.Repeat("=", summaryWidth))

	b.WriteString(rule + "\n")
	b.WriteString(titleStyle.Render("SUMMARY") + "\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(b, "Total Markets: %d\n", s.Total)

	b.WriteString("\nBreakdown by Category:\n")
	categories := make([]string, 0, len(s.Categories))
	for category := range s.Categories {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Fprintf(b, "  %-20s: %4d markets\n", category, s.Categories[category])
	}
	b.WriteString(rule + "\n")
}

func writeRanking(b *strings.Builder, rows []model.Row, w model.Window) {
	metric := w.Column()

	top := TopPerformers(rows, w, rankLimit)
	if len(top) == 0 {
		fmt.Fprintf(b, "\nNo valid data for %s\n", metric)
		return
	}

	writeTable(b, fmt.Sprintf("TOP %d PERFORMERS - %s", rankLimit, metric), metric, top)
	writeTable(b, fmt.Sprintf("BOTTOM %d PERFORMERS - %s", rankLimit, metric), metric,
		BottomPerformers(rows, w, rankLimit))
}

func writeTable(b *strings.Builder, title, metric string, entries []Entry) {
	rule := ruleStyle.Render(strings.Repeat("=", tableWidth))

	b.WriteString("\n" + rule + "\n")
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(rule + "\n")
	b.WriteString(headStyle.Render(fmt.Sprintf("%-6s %-15s %-30s %s", "Rank", "Symbol", "Name", metric)) + "\n")
	b.WriteString(ruleStyle.Render(strings.Repeat("-", tableWidth)) + "\n")

	for i, e := range entries {
		value := fmt.Sprintf("%8.2f%%", e.Value)
		style := gainStyle
		if e.Value < 0 {
			style = lossStyle
		}
		fmt.Fprintf(b, "%-6d %-15s %-30s %s\n",
			i+1, truncate(e.Symbol, 14), truncate(e.Name, 29), style.Render(value))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
