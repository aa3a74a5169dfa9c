package dataset

import (
	"compress/bzip2"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/trafficsafety/fars/internal/domain"
	"github.com/trafficsafety/fars/internal/observability"
)

// Loader reads one archive into a data frame with inferred column types.
// It is the single origin of "file doesn't exist" and "malformed file"
// failures; callers decide whether those are fatal.
type Loader struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader with the given observability.
func NewLoader(logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{logger: logger, metrics: metrics}
}

// Load parses a bzip2-compressed CSV archive. A missing path fails with
// *domain.NotFoundError carrying the path; a file that cannot be decoded
// fails with *domain.ParseError wrapping the parser's cause; a file that
// cannot be opened at all fails with a plain wrapped I/O error. The table
// is returned unmodified otherwise.
func (l *Loader) Load(path string) (dataframe.DataFrame, error) {
	if _, err := os.Stat(path); err != nil {
		l.metrics.LoadFailures.WithLabelValues(observability.ReasonNotFound).Inc()
		return dataframe.DataFrame{}, &domain.NotFoundError{Path: path}
	}

	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		// The path existed a moment ago; a vanished file is still not found,
		// anything else (permissions) is an I/O failure, not a parse one.
		if os.IsNotExist(err) {
			l.metrics.LoadFailures.WithLabelValues(observability.ReasonNotFound).Inc()
			return dataframe.DataFrame{}, &domain.NotFoundError{Path: path}
		}
		l.metrics.LoadFailures.WithLabelValues(observability.ReasonIO).Inc()
		return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(
		bzip2.NewReader(f),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
	)
	if df.Err != nil {
		l.metrics.LoadFailures.WithLabelValues(observability.ReasonParse).Inc()
		return dataframe.DataFrame{}, &domain.ParseError{Path: path, Err: df.Err}
	}

	l.metrics.FilesLoaded.Inc()
	l.metrics.RecordsRead.Add(float64(df.Nrow()))
	l.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	l.logger.Debug("archive loaded", "path", path, "rows", df.Nrow(), "cols", df.Ncol())

	return df, nil
}
