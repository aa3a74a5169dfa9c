// Command genmock generates mock FARS accident archives for development
// and testing. It writes one accident_<year>.csv.bz2 per requested year
// using the pipeline's own column set, including a share of records with
// sentinel-coded (unrecorded) coordinates, so generated data exercises
// the same sanitization paths as real archives.
//
// Usage:
//
//	go run ./cmd/genmock -data-dir data -years 2013,2014,2015 -rows 200
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/trafficsafety/fars/internal/dataset"
	"github.com/trafficsafety/fars/internal/domain"
)

// Rough continental-US bounding box for plausible coordinates.
const (
	lonMin, lonMax = -124.7, -67.0
	latMin, latMax = 25.1, 49.4
)

// Sentinel codes FARS uses for unrecorded coordinates.
const (
	lonUnknown = 999.9999
	latUnknown = 99.9999
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dataDir := flag.String("data-dir", "data", "directory to write archives into")
	yearsFlag := flag.String("years", "", "comma-separated years to generate")
	rows := flag.Int("rows", 200, "records per year")
	seed := flag.Int64("seed", 1, "RNG seed (per-year offset is added)")
	missingShare := flag.Float64("missing", 0.05, "fraction of records with sentinel coordinates")
	flag.Parse()

	if *yearsFlag == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -years")
	}

	years, err := parseYears(*yearsFlag)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	resolver := dataset.Resolver{Dir: *dataDir}
	for _, year := range years {
		path := resolver.Filename(year)
		df := mockYear(year, *rows, *seed, *missingShare)
		if err := dataset.WriteArchive(path, df); err != nil {
			return fmt.Errorf("year %d: %w", year, err)
		}
		log.Printf("wrote %s: %d records", path, *rows)
	}
	return nil
}

func parseYears(csv string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(csv, ",") {
		y, err := domain.ParseYear(part)
		if err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, nil
}

// mockYear builds one year of records. The RNG is seeded from the year so
// regeneration is deterministic per archive.
func mockYear(year, rows int, seed int64, missingShare float64) dataframe.DataFrame {
	rng := rand.New(rand.NewSource(seed + int64(year)))

	states := make([]int, rows)
	stCases := make([]int, rows)
	months := make([]int, rows)
	days := make([]int, rows)
	fatals := make([]int, rows)
	lons := make([]float64, rows)
	lats := make([]float64, rows)

	for i := 0; i < rows; i++ {
		states[i] = 1 + rng.Intn(56)
		stCases[i] = states[i]*10000 + i + 1
		months[i] = 1 + rng.Intn(12)
		days[i] = 1 + rng.Intn(28)
		fatals[i] = 1 + rng.Intn(3)

		if rng.Float64() < missingShare {
			lons[i] = lonUnknown
			lats[i] = latUnknown
			continue
		}
		lons[i] = lonMin + rng.Float64()*(lonMax-lonMin)
		lats[i] = latMin + rng.Float64()*(latMax-latMin)
	}

	return dataframe.New(
		series.New(states, series.Int, domain.ColState),
		series.New(stCases, series.Int, "ST_CASE"),
		series.New(months, series.Int, domain.ColMonth),
		series.New(days, series.Int, "DAY"),
		series.New(fatals, series.Int, "FATALS"),
		series.New(lons, series.Float, domain.ColLongitude),
		series.New(lats, series.Float, domain.ColLatitude),
	)
}
