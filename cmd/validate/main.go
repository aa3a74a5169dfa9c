// Command validate audits a FARS data directory: every archive must be
// discoverable by the year-naming scheme, decode as bzip2 CSV, carry the
// columns the pipeline reads, and hold in-range month and state values.
// It prints a PASS/FAIL line per phase and exits 1 on any failure.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-gota/gota/dataframe"

	"github.com/trafficsafety/fars/internal/dataset"
	"github.com/trafficsafety/fars/internal/domain"
	"github.com/trafficsafety/fars/internal/observability"
)

var requiredColumns = []string{
	domain.ColState,
	domain.ColMonth,
	domain.ColLongitude,
	domain.ColLatitude,
}

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "data", "directory containing accident archives")
	flag.Parse()

	if code := run(*dataDir); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir string) int {
	fmt.Println("=== FARS Data Directory Validation ===")
	fmt.Println()

	resolver := dataset.Resolver{Dir: dataDir}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := dataset.NewLoader(logger, observability.NewMetrics())

	discovery, years := validateDiscovery(resolver)
	tables := map[int]dataframe.DataFrame{}
	loading := validateLoading(resolver, loader, years, tables)
	schema := validateSchema(years, tables)
	ranges := validateRanges(years, tables)

	phases := []*phase{discovery, loading, schema, ranges}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-40s %s\n", p.name, status)
	}

	totalRows := 0
	for _, df := range tables {
		totalRows += df.Nrow()
	}
	fmt.Printf("\nArchives: %d, records: %d\n", len(tables), totalRows)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Discovery ──

func validateDiscovery(resolver dataset.Resolver) (*phase, []int) {
	p := &phase{name: "Phase 1: Archive Discovery"}

	years, err := resolver.Years()
	if err != nil {
		p.errorf("list archives: %v", err)
		return p, nil
	}
	if len(years) == 0 {
		p.errorf("no accident_<year>.csv.bz2 archives in %s", resolver.Dir)
	}
	return p, years
}

// ── Phase 2: Loadability ──

func validateLoading(resolver dataset.Resolver, loader *dataset.Loader, years []int, tables map[int]dataframe.DataFrame) *phase {
	p := &phase{name: "Phase 2: Archive Loadability"}

	for _, year := range years {
		df, err := loader.Load(resolver.Filename(year))
		if err != nil {
			p.errorf("year %d: %v", year, err)
			continue
		}
		tables[year] = df
	}
	return p
}

// ── Phase 3: Schema ──

func validateSchema(years []int, tables map[int]dataframe.DataFrame) *phase {
	p := &phase{name: "Phase 3: Required Columns"}

	for _, year := range years {
		df, ok := tables[year]
		if !ok {
			continue // already failed in phase 2
		}
		for _, col := range requiredColumns {
			if !domain.HasColumn(df, col) {
				p.errorf("year %d: missing column %s", year, col)
			}
		}
	}
	return p
}

// ── Phase 4: Value Ranges ──

func validateRanges(years []int, tables map[int]dataframe.DataFrame) *phase {
	p := &phase{name: "Phase 4: Value Ranges"}

	for _, year := range years {
		df, ok := tables[year]
		if !ok || !domain.HasColumn(df, domain.ColMonth) || !domain.HasColumn(df, domain.ColState) {
			continue
		}

		monthCol := df.Col(domain.ColMonth)
		for i := 0; i < monthCol.Len(); i++ {
			m, err := monthCol.Elem(i).Int()
			if err != nil {
				p.errorf("year %d row %d: non-integer MONTH", year, i+1)
				continue
			}
			if m < 1 || m > 12 {
				p.errorf("year %d row %d: MONTH %d out of range", year, i+1, m)
			}
		}

		stateCol := df.Col(domain.ColState)
		for i := 0; i < stateCol.Len(); i++ {
			s, err := stateCol.Elem(i).Int()
			if err != nil {
				p.errorf("year %d row %d: non-integer STATE", year, i+1)
				continue
			}
			if s < 1 {
				p.errorf("year %d row %d: STATE %d out of range", year, i+1, s)
			}
		}
	}
	return p
}
