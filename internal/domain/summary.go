package domain

import (
	"io"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Summary is the month × year pivot of fatality counts. One row per month
// observed across the loaded years, one column per loaded year, NA cells
// where a year recorded no fatalities in that month.
type Summary struct {
	Months      []int // ascending, only months present in the data
	Years       []int // loaded years, in request order
	GeneratedAt time.Time

	counts map[int]map[int]int // year → month → count
}

// NewSummary builds a Summary from grouped counts. Months absent from
// every year produce no row; failed years are expected to be excluded by
// the caller before counting.
func NewSummary(years []int, counts map[int]map[int]int) Summary {
	monthSet := map[int]bool{}
	for _, byMonth := range counts {
		for m := range byMonth {
			monthSet[m] = true
		}
	}
	months := make([]int, 0, len(monthSet))
	for m := 1; m <= 12; m++ {
		if monthSet[m] {
			months = append(months, m)
		}
	}
	return Summary{
		Months:      months,
		Years:       years,
		GeneratedAt: clock.Now(),
		counts:      counts,
	}
}

// Count returns the fatality count for a month/year cell. The second
// return is false for an NA cell.
func (s Summary) Count(month, year int) (int, bool) {
	byMonth, ok := s.counts[year]
	if !ok {
		return 0, false
	}
	n, ok := byMonth[month]
	return n, ok
}

// Total returns the summed count for one year across all months.
func (s Summary) Total(year int) int {
	total := 0
	for _, n := range s.counts[year] {
		total += n
	}
	return total
}

// Frame renders the pivot as a table: a MONTH column followed by one
// column per year. NA cells appear as NaN.
func (s Summary) Frame() dataframe.DataFrame {
	cols := make([]series.Series, 0, len(s.Years)+1)
	cols = append(cols, series.New(s.Months, series.Int, ColMonth))

	for _, year := range s.Years {
		cells := make([]string, len(s.Months))
		for i, month := range s.Months {
			if n, ok := s.Count(month, year); ok {
				cells[i] = strconv.Itoa(n)
			} else {
				cells[i] = "NaN"
			}
		}
		cols = append(cols, series.New(cells, series.Int, strconv.Itoa(year)))
	}
	return dataframe.New(cols...)
}

// WriteCSV writes the pivot in CSV form, header included.
func (s Summary) WriteCSV(w io.Writer) error {
	return s.Frame().WriteCSV(w)
}
