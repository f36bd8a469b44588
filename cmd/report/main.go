package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"capitalperf/internal/config"
	"capitalperf/internal/report"
	"capitalperf/internal/sink"
)

func main() {
	configPath := flag.String("config", "configs/analyzer.yaml", "path to config file")
	csvPath := flag.String("csv", "", "path to results CSV (overrides config)")
	flag.Parse()

	path := *csvPath
	if path == "" {
		cfg, err := config.LoadWithDefaults(*configPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
				os.Exit(1)
			}
			cfg = config.Defaults()
		}
		path = cfg.Output.CSVPath
	}

	rows, err := sink.ReadCSV(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Printf("File not found: %s\n", path)
			fmt.Println("Run the analyzer first to generate the data.")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "failed to read results: %v\n", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Printf("No data found in %s\n", path)
		os.Exit(1)
	}

	fmt.Printf("Loaded %d markets from %s\n", len(rows), path)
	fmt.Print(report.Render(rows))
	fmt.Printf("\nFull data available in: %s\n", path)
}
