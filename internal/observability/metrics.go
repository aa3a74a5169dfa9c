package observability

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Load failure reason labels.
const (
	ReasonNotFound = "not_found"
	ReasonParse    = "parse"
	ReasonIO       = "io"
)

// Metrics holds the Prometheus counters and histograms for the FARS
// pipeline. There is no metrics endpoint — the tool is a local batch
// utility — so the registry is gathered and logged at the end of a run.
type Metrics struct {
	FilesLoaded  prometheus.Counter
	LoadFailures *prometheus.CounterVec // label: reason={not_found,parse,io}
	RecordsRead  prometheus.Counter
	YearsSkipped prometheus.Counter
	LoadDuration prometheus.Histogram

	SummarizeDuration prometheus.Histogram

	// Map rendering metrics.
	MapsRendered  prometheus.Counter
	PointsPlotted prometheus.Counter
	PointsDropped prometheus.Counter // records with a missing coordinate

	registry *prometheus.Registry
}

// NewMetrics creates all pipeline metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FilesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fars",
			Name:      "files_loaded_total",
			Help:      "Total accident archives successfully loaded.",
		}),
		LoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fars",
			Name:      "load_failures_total",
			Help:      "Total archive load failures by reason.",
		}, []string{"reason"}),
		RecordsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fars",
			Name:      "records_read_total",
			Help:      "Total accident records read from archives.",
		}),
		YearsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fars",
			Name:      "years_skipped_total",
			Help:      "Requested years skipped because their archive failed to load.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fars",
			Name:      "load_duration_seconds",
			Help:      "Duration of a single archive load and parse.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		SummarizeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fars",
			Name:      "summarize_duration_seconds",
			Help:      "Duration of a complete multi-year summarize run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
		MapsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fars",
			Name:      "maps_rendered_total",
			Help:      "Total state maps written.",
		}),
		PointsPlotted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fars",
			Name:      "points_plotted_total",
			Help:      "Total accident locations drawn on maps.",
		}),
		PointsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fars",
			Name:      "points_dropped_total",
			Help:      "Accident records excluded from maps for missing coordinates.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.FilesLoaded,
		m.LoadFailures,
		m.RecordsRead,
		m.YearsSkipped,
		m.LoadDuration,
		m.SummarizeDuration,
		m.MapsRendered,
		m.PointsPlotted,
		m.PointsDropped,
	)

	return m
}

// LogSnapshot gathers the registry and logs every non-zero counter at the
// end of a run, giving batch invocations a closing line of accounting.
func (m *Metrics) LogSnapshot(logger *slog.Logger) {
	families, err := m.registry.Gather()
	if err != nil {
		logger.Warn("gather metrics failed", "error", err)
		return
	}

	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			var value float64
			switch {
			case metric.GetCounter() != nil:
				value = metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				// Histograms report their observation count.
				value = float64(metric.GetHistogram().GetSampleCount())
			}
			if value == 0 {
				continue
			}

			attrs := []any{"value", value}
			for _, lp := range metric.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			logger.Debug(mf.GetName(), attrs...)
		}
	}
}
