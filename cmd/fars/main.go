// Command fars aggregates FARS yearly accident archives and renders
// per-state fatality maps.
//
// Usage:
//
//	fars summarize -years 2013,2014,2015 [-csv out/summary.csv]
//	fars map -state 1 -year 2013 [-o out/accident_map_1_2013.png]
//
// The data directory and logging are configured through FARS_DATA_DIR,
// FARS_OUT_DIR, LOG_LEVEL, and LOG_FORMAT.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/trafficsafety/fars/internal/config"
	"github.com/trafficsafety/fars/internal/dataset"
	"github.com/trafficsafety/fars/internal/domain"
	"github.com/trafficsafety/fars/internal/observability"
	"github.com/trafficsafety/fars/internal/pipeline"
	"github.com/trafficsafety/fars/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	if code := run(cfg, logger, os.Args[1], os.Args[2:]); code != 0 {
		os.Exit(code)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: fars summarize -years <y1,y2,...> [-csv <path>]")
	fmt.Fprintln(os.Stderr, "       fars map -state <num> -year <year> [-o <path>]")
}

func run(cfg *config.Config, logger *slog.Logger, command string, args []string) int {
	metrics := observability.NewMetrics()
	defer metrics.LogSnapshot(logger)

	resolver := dataset.Resolver{Dir: cfg.DataDir}
	loader := dataset.NewLoader(logger, metrics)

	switch command {
	case "summarize":
		return runSummarize(logger, resolver, loader, metrics, args)
	case "map":
		return runMap(cfg, logger, resolver, loader, metrics, args)
	default:
		usage()
		return 1
	}
}

func runSummarize(logger *slog.Logger, resolver dataset.Resolver,
	loader *dataset.Loader, metrics *observability.Metrics, args []string) int {

	fs := flag.NewFlagSet("summarize", flag.ExitOnError)
	yearsFlag := fs.String("years", "", "comma-separated years to summarize")
	csvPath := fs.String("csv", "", "optional path for a CSV export of the pivot")
	fs.Parse(args)

	if *yearsFlag == "" {
		fs.Usage()
		return 1
	}

	years, err := parseYears(*yearsFlag)
	if err != nil {
		logger.Error("invalid -years", "error", err)
		return 1
	}

	p := pipeline.New(resolver, loader, logger, metrics)
	summary, err := p.SummarizeYears(years)
	if err != nil {
		logger.Error("summarize failed", "error", err)
		return 1
	}

	fmt.Println(summary.Frame())

	if *csvPath != "" {
		if err := writeSummaryCSV(summary, *csvPath); err != nil {
			logger.Error("csv export failed", "error", err)
			return 1
		}
		logger.Info("summary exported", "path", *csvPath)
	}
	return 0
}

func runMap(cfg *config.Config, logger *slog.Logger, resolver dataset.Resolver,
	loader *dataset.Loader, metrics *observability.Metrics, args []string) int {

	fs := flag.NewFlagSet("map", flag.ExitOnError)
	stateFlag := fs.String("state", "", "state FIPS code")
	yearFlag := fs.String("year", "", "year to map")
	outFlag := fs.String("o", "", "output image path (default under FARS_OUT_DIR)")
	fs.Parse(args)

	if *stateFlag == "" || *yearFlag == "" {
		fs.Usage()
		return 1
	}

	state, err := domain.ParseStateNum(*stateFlag)
	if err != nil {
		logger.Error("invalid -state", "error", err)
		return 1
	}
	year, err := domain.ParseYear(*yearFlag)
	if err != nil {
		logger.Error("invalid -year", "error", err)
		return 1
	}

	outPath := *outFlag
	if outPath == "" {
		outPath = filepath.Join(cfg.OutDir, fmt.Sprintf("accident_map_%d_%d.png", state, year))
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		logger.Error("create output directory", "error", err)
		return 1
	}

	r := render.New(resolver, loader, logger, metrics)
	if err := r.RenderState(state, year, outPath); err != nil {
		logger.Error("map failed", "state", state, "year", year, "error", err)
		return 1
	}
	return 0
}

func parseYears(csv string) ([]int, error) {
	parts := strings.Split(csv, ",")
	years := make([]int, 0, len(parts))
	for _, part := range parts {
		y, err := domain.ParseYear(part)
		if err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, nil
}

func writeSummaryCSV(summary domain.Summary, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return summary.WriteCSV(f)
}
