package domain

import "fmt"

// ConversionError reports an input that could not be coerced to an integer,
// such as a non-numeric year or state code.
type ConversionError struct {
	Field string
	Value string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s %q to an integer", e.Field, e.Value)
}

// NotFoundError reports a data archive that does not exist. The attempted
// path is part of the message so a misconfigured data directory is obvious
// from the error alone.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file does not exist: %s", e.Path)
}

// ParseError reports an archive that exists but could not be decoded as a
// bzip2-compressed CSV table. The parser's cause is wrapped unmodified.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownStateError reports a state code that does not appear among the
// distinct STATE values of the requested year's data.
type UnknownStateError struct {
	State int
	Year  int
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("invalid state number %d for year %d", e.State, e.Year)
}
