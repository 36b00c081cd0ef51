package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	initialRowBuf = 64 * 1024
	maxRowLen     = 1024 * 1024
)

// Format describes how a corpus table is encoded on disk.
type Format struct {
	Encoding  encoding.Encoding
	Separator string
}

// DefaultFormat returns the format of the distributed corpus: ISO-8859-1
// text with " +++$+++ " separators.
func DefaultFormat() Format {
	return Format{
		Encoding:  charmap.ISO8859_1,
		Separator: Separator,
	}
}

func (f Format) withDefaults() Format {
	if f.Encoding == nil {
		f.Encoding = charmap.ISO8859_1
	}
	if f.Separator == "" {
		f.Separator = Separator
	}
	return f
}

// Reader yields the non-blank rows of a corpus file decoded to UTF-8.
// Only the line terminator is stripped from each row.
type Reader struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
	row     int
	text    string
	err     error
}

// Open opens path for reading rows through enc. A nil enc means ISO-8859-1.
func Open(path string, enc encoding.Encoding) (*Reader, error) {
	if enc == nil {
		enc = charmap.ISO8859_1
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	scanner := bufio.NewScanner(enc.NewDecoder().Reader(f))
	scanner.Buffer(make([]byte, 0, initialRowBuf), maxRowLen)

	return &Reader{
		path:    path,
		file:    f,
		scanner: scanner,
	}, nil
}

// Next advances to the next non-blank row.
func (r *Reader) Next() bool {
	for r.scanner.Scan() {
		r.row++
		text := r.scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		r.text = text
		return true
	}
	if err := r.scanner.Err(); err != nil {
		r.err = fmt.Errorf("%w: %s:%d: %w", ErrRead, r.path, r.row+1, err)
	}
	r.text = ""
	return false
}

// Text returns the current row.
func (r *Reader) Text() string { return r.text }

// Row returns the 1-based physical row number of the current row.
func (r *Reader) Row() int { return r.row }

// Path returns the file path.
func (r *Reader) Path() string { return r.path }

// Err returns the first read error, if any.
func (r *Reader) Err() error { return r.err }

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// recordError builds a RecordError for the current row.
func (r *Reader) recordError(id string, err error) *RecordError {
	return &RecordError{
		Path:   r.path,
		Row:    r.row,
		ID:     id,
		Record: r.text,
		Err:    err,
	}
}
