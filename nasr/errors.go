// nasr/errors.go
package nasr

import (
	"errors"
	"fmt"
)

// ErrShortRecord is reported for a tagged line that ends before the last
// column its table layout reads.
var ErrShortRecord = errors.New("record shorter than table layout")

// ParseError is returned when latitude/longitude text does not have the
// D-MM-SS.sssH D-MM-SS.sssH shape.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed latitude/longitude %q", e.Input)
}

// RecordError ties a failure to the input line it came from. Any
// RecordError aborts the run.
type RecordError struct {
	Source string // file name, or "" when reading from an unnamed reader
	Line   int    // 1-based
	Table  string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s:%d: %s record: %v", e.Source, e.Line, e.Table, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
