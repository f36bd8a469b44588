package viewer

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"capitalperf/internal/model"
	"capitalperf/internal/report"
	"capitalperf/internal/sink"
)

//go:embed index.html
var indexHTML []byte

// statTimeLayout formats the snapshot's modification time for the UI.
const statTimeLayout = "2006-01-02 15:04:05"

// Server exposes the CSV results snapshot over HTTP.
type Server struct {
	port    int
	csvPath string
	logger  *slog.Logger

	hub        *hub
	server     *http.Server
	watchEvery time.Duration

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewServer creates a viewer for the snapshot at csvPath. The file does
// not have to exist yet; the API reports an empty data set until the
// analyzer writes it.
func NewServer(port int, csvPath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		port:       port,
		csvPath:    csvPath,
		logger:     logger,
		hub:        newHub(logger),
		watchEvery: watchInterval,
		done:       make(chan struct{}),
	}
}

// Handler returns the route table. Exposed separately from Start so the
// routes can be mounted on a test server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/markets", s.handleMarkets)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/ws", s.hub.serveWS)
	return mux
}

// Start runs the HTTP server and the snapshot watcher. It blocks until
// the server stops; a graceful Shutdown surfaces as http.ErrServerClosed.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.watch()

	s.logger.Info("starting viewer", "port", s.port, "csv", s.csvPath)
	return s.server.ListenAndServe()
}

// Shutdown stops the watcher, disconnects browsers and drains the HTTP
// server. Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	s.hub.closeAll()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

type fileStats struct {
	FileSize     int64  `json:"file_size"`
	ModifiedTime string `json:"modified_time"`
	Exists       bool   `json:"exists"`
}

type marketsResponse struct {
	Markets []map[string]string `json:"markets"`
	Stats   *fileStats          `json:"stats"`
	Count   int                 `json:"count"`
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	rows, err := s.loadRows()
	if err != nil {
		s.fail(w, "load markets", err)
		return
	}

	header := model.Header()
	markets := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		record := row.Record()
		m := make(map[string]string, len(header))
		for i, col := range header {
			m[col] = record[i]
		}
		markets = append(markets, m)
	}

	s.writeJSON(w, marketsResponse{
		Markets: markets,
		Stats:   s.fileStats(),
		Count:   len(markets),
	})
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
	Count      int      `json:"count"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := s.loadRows()
	if err != nil {
		s.fail(w, "load categories", err)
		return
	}

	seen := make(map[string]struct{})
	for _, row := range rows {
		category := row.Category
		if category == "" {
			category = "Unknown"
		}
		seen[category] = struct{}{}
	}

	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	s.writeJSON(w, categoriesResponse{Categories: categories, Count: len(categories)})
}

type rankedEntry struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
}

// summaryResponse carries the dashboard aggregates: category breakdown,
// average one-month performance per category and the 1M extremes.
type summaryResponse struct {
	Total      int                `json:"total"`
	Categories map[string]int     `json:"categories"`
	AvgPerf1M  map[string]float64 `json:"avg_perf_1m"`
	Top1M      []rankedEntry      `json:"top_1m"`
	Bottom1M   []rankedEntry      `json:"bottom_1m"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := s.loadRows()
	if err != nil {
		s.fail(w, "load summary", err)
		return
	}

	summary := report.Summarize(rows)
	s.writeJSON(w, summaryResponse{
		Total:      summary.Total,
		Categories: summary.Categories,
		AvgPerf1M:  report.AverageByCategory(rows, model.Window1M),
		Top1M:      ranked(report.TopPerformers(rows, model.Window1M, 5)),
		Bottom1M:   ranked(report.BottomPerformers(rows, model.Window1M, 5)),
	})
}

func ranked(entries []report.Entry) []rankedEntry {
	out := make([]rankedEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, rankedEntry{Symbol: e.Symbol, Name: e.Name, Value: e.Value})
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := struct {
		Status     string                 `json:"status"`
		Components map[string]interface{} `json:"components"`
	}{
		Status:     "healthy",
		Components: make(map[string]interface{}),
	}

	if info, err := os.Stat(s.csvPath); err == nil {
		health.Components["snapshot"] = map[string]interface{}{
			"exists":        true,
			"modified_time": info.ModTime().Format(statTimeLayout),
			"age_seconds":   int(time.Since(info.ModTime()).Seconds()),
		}
	} else {
		health.Status = "degraded"
		health.Components["snapshot"] = map[string]interface{}{
			"exists": false,
		}
	}

	s.writeJSON(w, health)
}

// loadRows reads the snapshot. A missing file is an empty result set,
// not an error; the analyzer may simply not have run yet.
func (s *Server) loadRows() ([]model.Row, error) {
	rows, err := sink.ReadCSV(s.csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return rows, nil
}

func (s *Server) fileStats() *fileStats {
	info, err := os.Stat(s.csvPath)
	if err != nil {
		return nil
	}
	return &fileStats{
		FileSize:     info.Size(),
		ModifiedTime: info.ModTime().Format(statTimeLayout),
		Exists:       true,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write response failed", "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op+" failed", "error", err, "csv", s.csvPath)
	http.Error(w, "failed to read results", http.StatusInternalServerError)
}
