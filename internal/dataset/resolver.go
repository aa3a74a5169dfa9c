// Package dataset owns the filesystem surface of the pipeline: deriving
// archive paths from years and loading archives into data frames.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// archivePattern matches yearly archive filenames, capturing the year.
var archivePattern = regexp.MustCompile(`^accident_(\d+)\.csv\.bz2$`)

// Resolver derives archive paths inside an explicit data directory.
// It performs no I/O; a path is returned whether or not the file exists.
type Resolver struct {
	Dir string
}

// Filename returns the archive path for a year:
// <dir>/accident_<year>.csv.bz2.
func (r Resolver) Filename(year int) string {
	return filepath.Join(r.Dir, fmt.Sprintf("accident_%d.csv.bz2", year))
}

// Years lists the years with an archive present in the data directory,
// ascending. Files not matching the archive naming scheme are ignored.
func (r Resolver) Years() ([]int, error) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	var years []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := archivePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		y, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}
