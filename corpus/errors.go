package corpus

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrNotFound indicates a corpus file does not exist.
	ErrNotFound = errors.New("corpus: file not found")

	// ErrRead indicates a corpus file could not be opened or read.
	ErrRead = errors.New("corpus: read failed")

	// ErrMalformedRecord indicates a row does not split into the expected fields.
	ErrMalformedRecord = errors.New("corpus: malformed record")

	// ErrDuplicateID indicates an id appears twice in a table.
	ErrDuplicateID = fmt.Errorf("%w: duplicate id", ErrMalformedRecord)

	// ErrMalformedList indicates a line-id list literal does not parse.
	ErrMalformedList = errors.New("corpus: malformed line-id list")
)

// RecordError locates a failure at a row of a corpus file.
type RecordError struct {
	Path   string
	Row    int    // 1-based physical row number
	ID     string // offending id, if any
	Record string // raw row text, if known
	Err    error
}

func (e *RecordError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d: %v", e.Path, e.Row, e.Err)
	if e.ID != "" {
		fmt.Fprintf(&b, " %q", e.ID)
	}
	if e.Record != "" {
		fmt.Fprintf(&b, ": record %q", e.Record)
	}
	return b.String()
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
