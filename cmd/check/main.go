package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"dhs-checker/internal/application/port/output"
	"dhs-checker/internal/domain/entity"
	"dhs-checker/internal/infrastructure/browser/rod"
	"dhs-checker/internal/infrastructure/env"
	"dhs-checker/internal/infrastructure/logger"
	"dhs-checker/internal/infrastructure/metrics"
	"dhs-checker/internal/usecase/checker"
)

// check runs one batch from the command line and prints the results as JSON:
//
//	check 9001015800086 8001015009087
//	check -csv ids.csv
func main() {
	csvPath := flag.String("csv", "", "CSV file with ID numbers (one per line, optional header)")
	headless := flag.Bool("headless", true, "run the browser headless")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall batch timeout")
	flag.Parse()

	envService := env.NewEnvService()

	ids := flag.Args()
	if *csvPath != "" {
		fromFile, err := idsFromFile(*csvPath)
		if err != nil {
			log.Fatalf("reading %s: %v", *csvPath, err)
		}
		ids = append(ids, fromFile...)
	}
	if len(ids) == 0 {
		log.Fatal("no ID numbers given: pass them as arguments or via -csv")
	}

	logAdapter, err := logger.NewLoggerAdapter(envService.GetBool("DEBUG", false))
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logAdapter.Close()

	cfg := rod.DefaultConfig()
	if base := envService.Get("DHS_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}
	cfg.Headless = *headless
	cfg.ScreenshotDir = envService.Get("SCREENSHOT_DIR")

	check := checker.New(rod.NewFactory(cfg, logAdapter), logAdapter, metrics.Nop{})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	results, err := check.CheckIDs(ctx, ids, entity.Credentials{
		Username: envService.Get("DHS_USERNAME"),
		Password: envService.Get("DHS_PASSWORD"),
	})
	if err != nil {
		log.Fatalf("batch failed: %v", err)
	}

	printResults(results, logAdapter)
}

func idsFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readIDs(f)
}

func printResults(results []entity.Result, log output.LoggerPort) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"results": results}); err != nil {
		log.Error("encoding results failed", "error", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "checked %d ID numbers\n", len(results))
}
