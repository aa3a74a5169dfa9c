package dataset

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficsafety/fars/internal/domain"
	"github.com/trafficsafety/fars/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func accidentFixture() dataframe.DataFrame {
	return dataframe.New(
		series.New([]int{1, 1, 48}, series.Int, domain.ColState),
		series.New([]int{1, 2, 1}, series.Int, domain.ColMonth),
		series.New([]float64{-86.25, -86.80, 999.9999}, series.Float, domain.ColLongitude),
		series.New([]float64{32.36, 33.52, 99.9999}, series.Float, domain.ColLatitude),
	)
}

func TestResolverFilename(t *testing.T) {
	r := Resolver{Dir: "data"}

	assert.Equal(t, "accident_2015.csv.bz2", filepath.Base(r.Filename(2015)))
	assert.Equal(t, filepath.Join("data", "accident_2013.csv.bz2"), r.Filename(2013))

	// Truncating coercion happens before the resolver sees the year.
	assert.Equal(t, "accident_2013.csv.bz2", filepath.Base(r.Filename(domain.CoerceYear(2013.9))))
}

func TestResolverYears(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"accident_2014.csv.bz2",
		"accident_2013.csv.bz2",
		"readme.txt",
		"accident_x.csv.bz2",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	years, err := Resolver{Dir: dir}.Years()
	require.NoError(t, err)
	assert.Equal(t, []int{2013, 2014}, years)
}

func TestLoader_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	r := Resolver{Dir: dir}
	path := r.Filename(2013)
	require.NoError(t, WriteArchive(path, accidentFixture()))

	loader := NewLoader(discardLogger(), observability.NewMetrics())
	df, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, df.Nrow())
	assert.ElementsMatch(t, df.Names(),
		[]string{domain.ColState, domain.ColMonth, domain.ColLongitude, domain.ColLatitude})

	// Types are inferred, not declared: MONTH comes back integral.
	month, convErr := df.Col(domain.ColMonth).Elem(0).Int()
	require.NoError(t, convErr)
	assert.Equal(t, 1, month)
	assert.Equal(t, 999.9999, df.Col(domain.ColLongitude).Float()[2])
}

func TestLoader_NotFound(t *testing.T) {
	loader := NewLoader(discardLogger(), observability.NewMetrics())
	missing := filepath.Join(t.TempDir(), "accident_9999.csv.bz2")

	_, err := loader.Load(missing)

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, missing, nf.Path)
	assert.Contains(t, err.Error(), missing)
}

func TestLoader_OpenFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses file permissions")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "accident_2013.csv.bz2")
	require.NoError(t, WriteArchive(path, accidentFixture()))
	require.NoError(t, os.Chmod(path, 0o000))

	loader := NewLoader(discardLogger(), observability.NewMetrics())
	_, err := loader.Load(path)

	// An unreadable file is an I/O failure, not a malformed archive.
	require.Error(t, err)
	var pe *domain.ParseError
	assert.False(t, errors.As(err, &pe))
	assert.Contains(t, err.Error(), "open")
}

func TestLoader_ParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accident_2013.csv.bz2")
	require.NoError(t, os.WriteFile(path, []byte("this is not bzip2"), 0o644))

	loader := NewLoader(discardLogger(), observability.NewMetrics())
	_, err := loader.Load(path)

	var pe *domain.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path)
}
