// Package pipeline merges yearly accident archives into a month × year
// fatality-count summary.
package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/trafficsafety/fars/internal/dataset"
	"github.com/trafficsafety/fars/internal/domain"
	"github.com/trafficsafety/fars/internal/observability"
)

// Loader reads one archive into a data frame.
type Loader interface {
	Load(path string) (dataframe.DataFrame, error)
}

// YearResult is the outcome of loading one requested year: either a
// (MONTH, year) table or an absent placeholder carrying the failure.
type YearResult struct {
	Year  int
	Table dataframe.DataFrame
	Err   error
}

// Ok reports whether the year loaded.
func (r YearResult) Ok() bool { return r.Err == nil }

// Pipeline orchestrates the read-reduce-aggregate flow over yearly
// archives. It holds no state between calls; identical inputs against
// identical files produce identical output.
type Pipeline struct {
	resolver dataset.Resolver
	loader   Loader
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Pipeline with the given resolver, loader, and observability.
func New(resolver dataset.Resolver, loader Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		loader:   loader,
		logger:   logger,
		metrics:  metrics,
	}
}

// ReadYears loads each requested year and reduces it to a (MONTH, year)
// table, the year column constant regardless of file content. This is the
// pipeline's sole catch point: a missing or malformed archive becomes a
// warning and an absent placeholder, never an aborted batch. Results keep
// the input order, one per requested year.
func (p *Pipeline) ReadYears(years []int) []YearResult {
	results := make([]YearResult, 0, len(years))
	for _, year := range years {
		results = append(results, p.readYear(year))
	}
	return results
}

func (p *Pipeline) readYear(year int) YearResult {
	path := p.resolver.Filename(year)

	df, err := p.loader.Load(path)
	if err != nil {
		return p.skipYear(year, err)
	}

	if !domain.HasColumn(df, domain.ColMonth) {
		err := &domain.ParseError{Path: path, Err: fmt.Errorf("missing %s column", domain.ColMonth)}
		return p.skipYear(year, err)
	}

	yearCol := make([]int, df.Nrow())
	for i := range yearCol {
		yearCol[i] = year
	}

	table := df.
		Mutate(series.New(yearCol, series.Int, domain.ColYear)).
		Select([]string{domain.ColMonth, domain.ColYear})
	if table.Err != nil {
		err := &domain.ParseError{Path: path, Err: table.Err}
		return p.skipYear(year, err)
	}

	return YearResult{Year: year, Table: table}
}

func (p *Pipeline) skipYear(year int, err error) YearResult {
	p.logger.Warn("invalid year", "year", year, "error", err)
	p.metrics.YearsSkipped.Inc()
	return YearResult{Year: year, Err: err}
}

// SummarizeYears merges all loadable years and pivots fatality counts by
// month and year. Failed years are omitted from the pivot entirely; if
// every year fails, the summary has zero rows and no year columns.
func (p *Pipeline) SummarizeYears(years []int) (domain.Summary, error) {
	start := time.Now()
	defer func() {
		p.metrics.SummarizeDuration.Observe(time.Since(start).Seconds())
	}()

	results := p.ReadYears(years)

	var loaded []int
	var merged dataframe.DataFrame
	for _, r := range results {
		if !r.Ok() {
			continue
		}
		loaded = append(loaded, r.Year)
		if merged.Nrow() == 0 && merged.Ncol() == 0 {
			merged = r.Table
			continue
		}
		merged = merged.RBind(r.Table)
		if merged.Err != nil {
			return domain.Summary{}, fmt.Errorf("merge year %d: %w", r.Year, merged.Err)
		}
	}

	counts := make(map[int]map[int]int, len(loaded))
	for _, year := range loaded {
		counts[year] = map[int]int{}
	}

	if len(loaded) == 0 {
		p.logger.Warn("no years loaded", "requested", len(years))
		return domain.NewSummary(nil, nil), nil
	}

	if err := countByMonthYear(merged, counts); err != nil {
		return domain.Summary{}, err
	}

	summary := domain.NewSummary(loaded, counts)
	p.logger.Info("summary built",
		"years_requested", len(years),
		"years_loaded", len(loaded),
		"months", len(summary.Months),
	)
	return summary, nil
}

// countByMonthYear groups the merged (MONTH, year) table and fills the
// counts map with per-group row counts.
func countByMonthYear(merged dataframe.DataFrame, counts map[int]map[int]int) error {
	groups := merged.GroupBy(domain.ColYear, domain.ColMonth)
	if groups.Err != nil {
		return fmt.Errorf("group by month and year: %w", groups.Err)
	}

	agg := groups.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_COUNT},
		[]string{domain.ColMonth},
	)
	if agg.Err != nil {
		return fmt.Errorf("count groups: %w", agg.Err)
	}

	countCol := fmt.Sprintf("%s_COUNT", domain.ColMonth)
	for i := 0; i < agg.Nrow(); i++ {
		year, err := agg.Col(domain.ColYear).Elem(i).Int()
		if err != nil {
			return fmt.Errorf("aggregated year: %w", err)
		}
		month, err := agg.Col(domain.ColMonth).Elem(i).Int()
		if err != nil {
			return fmt.Errorf("aggregated month: %w", err)
		}
		counts[year][month] = int(agg.Col(countCol).Elem(i).Float())
	}
	return nil
}
