// Package render draws per-state scatter maps of fatality locations.
package render

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/trafficsafety/fars/internal/dataset"
	"github.com/trafficsafety/fars/internal/domain"
	"github.com/trafficsafety/fars/internal/observability"
)

// Loader reads one archive into a data frame.
type Loader interface {
	Load(path string) (dataframe.DataFrame, error)
}

// Renderer loads one year's records, filters to one state, and plots
// accident locations over a base map frame.
type Renderer struct {
	resolver dataset.Resolver
	loader   Loader
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Renderer with the given resolver, loader, and observability.
func New(resolver dataset.Resolver, loader Loader, logger *slog.Logger, metrics *observability.Metrics) *Renderer {
	return &Renderer{
		resolver: resolver,
		loader:   loader,
		logger:   logger,
		metrics:  metrics,
	}
}

// RenderState writes a scatter map of the state's fatality locations for
// one year to outPath (format by extension, typically PNG). Load failures
// propagate unchanged — this is a single-year operation, so a missing or
// malformed archive is unambiguous. An archive missing a coordinate
// column fails with *domain.ParseError. A state code absent from the year's
// data fails with *domain.UnknownStateError. A state with no matching
// records logs a notice and succeeds without writing a file.
func (r *Renderer) RenderState(stateNum, year int, outPath string) error {
	path := r.resolver.Filename(year)
	df, err := r.loader.Load(path)
	if err != nil {
		return err
	}

	for _, col := range []string{domain.ColLongitude, domain.ColLatitude} {
		if !domain.HasColumn(df, col) {
			return &domain.ParseError{Path: path, Err: fmt.Errorf("missing %s column", col)}
		}
	}

	if !containsState(domain.DistinctStates(df), stateNum) {
		return &domain.UnknownStateError{State: stateNum, Year: year}
	}

	subset := df.Filter(dataframe.F{
		Colname:    domain.ColState,
		Comparator: series.Eq,
		Comparando: stateNum,
	})
	if subset.Err != nil {
		return fmt.Errorf("filter state %d: %w", stateNum, subset.Err)
	}

	return r.renderSubset(subset, stateNum, year, outPath)
}

// renderSubset sanitizes coordinates, frames the axes to the sanitized
// ranges, and writes the plot. Sanitization runs before the range
// computation so sentinel codes never stretch the map frame.
func (r *Renderer) renderSubset(subset dataframe.DataFrame, stateNum, year int, outPath string) error {
	if subset.Nrow() == 0 {
		r.logger.Info("no accidents to plot", "state", stateNum, "year", year)
		return nil
	}

	subset = domain.SanitizeCoordinates(subset)
	lonRange := domain.RangeOf(subset.Col(domain.ColLongitude))
	latRange := domain.RangeOf(subset.Col(domain.ColLatitude))

	points := plottablePoints(subset)
	r.metrics.PointsPlotted.Add(float64(len(points)))
	r.metrics.PointsDropped.Add(float64(subset.Nrow() - len(points)))

	if len(points) == 0 || lonRange.Empty || latRange.Empty {
		r.logger.Info("no accidents to plot", "state", stateNum, "year", year,
			"reason", "all coordinates missing")
		return nil
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("FARS fatalities — state %d, %d\ngenerated %s",
		stateNum, year, domain.Now().UTC().Format("2006-01-02 15:04 UTC"))
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(plotter.NewGrid())

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return fmt.Errorf("build scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(2)
	scatter.GlyphStyle.Color = color.RGBA{R: 0xc0, G: 0x20, B: 0x20, A: 0xff}
	p.Add(scatter)

	p.X.Min, p.X.Max = padRange(lonRange)
	p.Y.Min, p.Y.Max = padRange(latRange)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, outPath); err != nil {
		return fmt.Errorf("save map: %w", err)
	}

	r.metrics.MapsRendered.Inc()
	r.logger.Info("map rendered", "state", stateNum, "year", year,
		"points", len(points), "path", outPath)
	return nil
}

// plottablePoints collects (longitude, latitude) pairs, skipping records
// where either coordinate is the NaN missing marker.
func plottablePoints(subset dataframe.DataFrame) plotter.XYs {
	lon := subset.Col(domain.ColLongitude).Float()
	lat := subset.Col(domain.ColLatitude).Float()

	points := make(plotter.XYs, 0, len(lon))
	for i := range lon {
		if math.IsNaN(lon[i]) || math.IsNaN(lat[i]) {
			continue
		}
		points = append(points, plotter.XY{X: lon[i], Y: lat[i]})
	}
	return points
}

// padRange widens a degenerate single-point range so the plot frame has
// nonzero area.
func padRange(r domain.CoordinateRange) (min, max float64) {
	if r.Min == r.Max {
		return r.Min - 0.5, r.Max + 0.5
	}
	return r.Min, r.Max
}

func containsState(states []int, state int) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}
