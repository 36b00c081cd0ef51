// Package export writes reconstructed dialogs to output streams.
package export

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"sort"

	dialog "github.com/jamesainslie/go-dialog"
)

// ErrUnknownFormat indicates an output format name is not registered.
var ErrUnknownFormat = errors.New("export: unknown format")

// Writer receives dialogs in order. Flush must be called once at the end.
type Writer interface {
	Write(d dialog.Dialog) error
	Flush() error
}

var formats = map[string]func(io.Writer) Writer{
	"text":  func(w io.Writer) Writer { return NewText(w) },
	"jsonl": func(w io.Writer) Writer { return NewJSONL(w) },
	"proto": func(w io.Writer) Writer { return NewProto(w) },
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the Writer registered under format.
func New(format string, w io.Writer) (Writer, error) {
	newWriter, ok := formats[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return newWriter(w), nil
}

// WriteAll drains seq into w and flushes it. It stops at the first error.
func WriteAll(w Writer, seq iter.Seq2[dialog.Dialog, error]) (int, error) {
	n := 0
	for d, err := range seq {
		if err != nil {
			return n, err
		}
		if err := w.Write(d); err != nil {
			return n, fmt.Errorf("writing dialog %d: %w", d.Index, err)
		}
		n++
	}
	if err := w.Flush(); err != nil {
		return n, fmt.Errorf("flush: %w", err)
	}
	return n, nil
}
