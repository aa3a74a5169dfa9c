// Package domain models FARS (Fatality Analysis Reporting System)
// accident report data.
//
// # Data Source
//
// Accident records originate from the NHTSA FARS yearly archives, one
// bzip2-compressed CSV per calendar year named "accident_<year>.csv.bz2".
// Each row is a single fatal crash. Archives carry several dozen columns;
// this pipeline reads only the subset below.
//
// # FARS Data Conventions
//
// Columns used by the pipeline:
//
//	STATE     — integer FIPS state code (1 = Alabama, 2 = Alaska, ...).
//	MONTH     — integer month of the crash, 1–12.
//	LONGITUD  — longitude in decimal degrees, negative in the western
//	            hemisphere. Note the dataset's historical 8-character
//	            column name (no trailing E).
//	LATITUDE  — latitude in decimal degrees.
//
// Coordinate sentinels:
//
//	FARS encodes "not recorded" coordinates in-band with out-of-range
//	numeric codes rather than empty cells:
//
//	  LONGITUD ≥ 900  (e.g. 999.9999 "unknown")
//	  LATITUDE > 90   (e.g. 99.9999, 88.8888, 77.7777)
//
//	[SanitizeCoordinates] resolves these to NaN once at the data-model
//	boundary so downstream code can treat NaN as the single missing-value
//	marker instead of re-checking sentinel ranges at each use site.
//
// # Year Coercion
//
// Year inputs arrive as CLI strings or numeric values. Coercion follows
// integer-cast semantics: fractional years truncate toward zero
// (2013.9 → 2013). Non-numeric input fails with [ConversionError]. No
// range validation happens beyond that — an out-of-range year simply
// resolves to a filename that does not exist.
package domain
