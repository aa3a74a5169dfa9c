package pipeline_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficsafety/fars/internal/dataset"
	"github.com/trafficsafety/fars/internal/domain"
	"github.com/trafficsafety/fars/internal/observability"
	"github.com/trafficsafety/fars/internal/pipeline"
)

// testPipeline wires a real loader against a temp data directory and
// captures log output for warning assertions.
func testPipeline(t *testing.T) (*pipeline.Pipeline, dataset.Resolver, *bytes.Buffer) {
	t.Helper()
	resolver := dataset.Resolver{Dir: t.TempDir()}
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	metrics := observability.NewMetrics()
	loader := dataset.NewLoader(logger, metrics)
	return pipeline.New(resolver, loader, logger, metrics), resolver, logs
}

func writeFixture(t *testing.T, resolver dataset.Resolver, year int, months []int) {
	t.Helper()
	states := make([]int, len(months))
	lons := make([]float64, len(months))
	lats := make([]float64, len(months))
	for i := range months {
		states[i] = 1
		lons[i] = -86.25
		lats[i] = 32.36
	}
	df := dataframe.New(
		series.New(states, series.Int, domain.ColState),
		series.New(months, series.Int, domain.ColMonth),
		series.New(lons, series.Float, domain.ColLongitude),
		series.New(lats, series.Float, domain.ColLatitude),
	)
	require.NoError(t, dataset.WriteArchive(resolver.Filename(year), df))
}

func TestReadYears(t *testing.T) {
	p, resolver, logs := testPipeline(t)
	writeFixture(t, resolver, 2013, []int{1, 1, 2})

	results := p.ReadYears([]int{2013, 9999})
	require.Len(t, results, 2)

	t.Run("loaded year reduces to MONTH and year", func(t *testing.T) {
		r := results[0]
		require.True(t, r.Ok())
		assert.Equal(t, 2013, r.Year)
		assert.Equal(t, []string{domain.ColMonth, domain.ColYear}, r.Table.Names())
		assert.Equal(t, 3, r.Table.Nrow())

		for i := 0; i < r.Table.Nrow(); i++ {
			y, err := r.Table.Col(domain.ColYear).Elem(i).Int()
			require.NoError(t, err)
			assert.Equal(t, 2013, y, "year column is constant per request")
		}
	})

	t.Run("missing year becomes absent placeholder", func(t *testing.T) {
		r := results[1]
		assert.False(t, r.Ok())
		assert.Equal(t, 9999, r.Year)

		var nf *domain.NotFoundError
		assert.ErrorAs(t, r.Err, &nf)
	})

	t.Run("a warning names the failed year", func(t *testing.T) {
		assert.Contains(t, logs.String(), "invalid year")
		assert.Contains(t, logs.String(), "9999")
	})
}

func TestReadYears_MissingMonthColumn(t *testing.T) {
	p, resolver, _ := testPipeline(t)
	malformed := dataframe.New(series.New([]int{1}, series.Int, domain.ColState))
	require.NoError(t, dataset.WriteArchive(resolver.Filename(2013), malformed))

	results := p.ReadYears([]int{2013})
	require.Len(t, results, 1)
	assert.False(t, results[0].Ok())

	var pe *domain.ParseError
	require.ErrorAs(t, results[0].Err, &pe)
	assert.Contains(t, pe.Error(), domain.ColMonth)
}

func TestSummarizeYears(t *testing.T) {
	p, resolver, _ := testPipeline(t)
	writeFixture(t, resolver, 2013, []int{1, 1, 2, 12})
	writeFixture(t, resolver, 2014, []int{2, 2, 2})

	s, err := p.SummarizeYears([]int{2013, 2014})
	require.NoError(t, err)

	assert.Equal(t, []int{2013, 2014}, s.Years)
	assert.Equal(t, []int{1, 2, 12}, s.Months)

	n, ok := s.Count(1, 2013)
	require.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = s.Count(2, 2014)
	require.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = s.Count(1, 2014)
	assert.False(t, ok, "2014 had no January fatalities")

	// Per-year totals equal the raw row counts of each archive.
	assert.Equal(t, 4, s.Total(2013))
	assert.Equal(t, 3, s.Total(2014))
}

func TestSummarizeYears_FailedYearOmitted(t *testing.T) {
	p, resolver, _ := testPipeline(t)
	writeFixture(t, resolver, 2013, []int{1})

	s, err := p.SummarizeYears([]int{2013, 9999})
	require.NoError(t, err)

	assert.Equal(t, []int{2013}, s.Years)
	assert.Equal(t, []string{domain.ColMonth, "2013"}, s.Frame().Names())
}

func TestSummarizeYears_AllFailed(t *testing.T) {
	p, _, _ := testPipeline(t)

	s, err := p.SummarizeYears([]int{9998, 9999})
	require.NoError(t, err)

	assert.Empty(t, s.Years)
	df := s.Frame()
	assert.Equal(t, []string{domain.ColMonth}, df.Names())
	assert.Equal(t, 0, df.Nrow())
}

func TestSummarizeYears_Idempotent(t *testing.T) {
	p, resolver, _ := testPipeline(t)
	writeFixture(t, resolver, 2013, []int{3, 3, 7})

	first, err := p.SummarizeYears([]int{2013})
	require.NoError(t, err)
	second, err := p.SummarizeYears([]int{2013})
	require.NoError(t, err)

	assert.Equal(t, first.Frame().Records(), second.Frame().Records())
}
