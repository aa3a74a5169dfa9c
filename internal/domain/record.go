package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names used by the pipeline. ColYear is not present in the source
// archives; the extractor adds it as a constant column per requested year.
const (
	ColState     = "STATE"
	ColMonth     = "MONTH"
	ColLongitude = "LONGITUD"
	ColLatitude  = "LATITUDE"
	ColYear      = "year"
)

// Coordinate sentinel thresholds. Values at or beyond these mark a
// coordinate the reporting officer did not record.
const (
	longitudeSentinel = 900
	latitudeSentinel  = 90
)

// CoerceYear converts a numeric year to an integer with truncation
// semantics: 2013.9 becomes 2013, matching an integer cast.
func CoerceYear(year float64) int {
	return int(math.Trunc(year))
}

// ParseYear coerces a string year to an integer. Decimal input truncates;
// anything non-numeric fails with a *ConversionError.
func ParseYear(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, &ConversionError{Field: "year", Value: s}
	}
	return CoerceYear(f), nil
}

// ParseStateNum coerces a string state code to an integer, truncating
// decimal input the same way years are coerced.
func ParseStateNum(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, &ConversionError{Field: "state", Value: s}
	}
	return int(math.Trunc(f)), nil
}

// HasColumn reports whether the table carries a column with the given name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// SanitizeCoordinates replaces sentinel-coded coordinates with NaN:
// LONGITUD values ≥ 900 and LATITUDE values > 90. It must run before any
// axis-range computation so sentinels never stretch the map frame.
// Tables lacking either column are returned unchanged.
func SanitizeCoordinates(df dataframe.DataFrame) dataframe.DataFrame {
	if !HasColumn(df, ColLongitude) || !HasColumn(df, ColLatitude) {
		return df
	}

	lon := df.Col(ColLongitude).Float()
	for i, v := range lon {
		if v >= longitudeSentinel {
			lon[i] = math.NaN()
		}
	}

	lat := df.Col(ColLatitude).Float()
	for i, v := range lat {
		if v > latitudeSentinel {
			lat[i] = math.NaN()
		}
	}

	return df.
		Mutate(series.New(lon, series.Float, ColLongitude)).
		Mutate(series.New(lat, series.Float, ColLatitude))
}

// CoordinateRange is a closed interval over one axis of sanitized
// coordinates. Empty is true when every value was missing.
type CoordinateRange struct {
	Min, Max float64
	Empty    bool
}

// RangeOf computes the min/max of a float column, ignoring NaN markers.
func RangeOf(s series.Series) CoordinateRange {
	r := CoordinateRange{Min: math.Inf(1), Max: math.Inf(-1), Empty: true}
	for _, v := range s.Float() {
		if math.IsNaN(v) {
			continue
		}
		r.Empty = false
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	return r
}

// DistinctStates returns the sorted distinct STATE codes present in a table.
func DistinctStates(df dataframe.DataFrame) []int {
	if !HasColumn(df, ColState) {
		return nil
	}
	seen := map[int]bool{}
	var states []int
	col := df.Col(ColState)
	for i := 0; i < col.Len(); i++ {
		v, err := col.Elem(i).Int()
		if err != nil || seen[v] {
			continue
		}
		seen[v] = true
		states = append(states, v)
	}
	sort.Ints(states)
	return states
}
