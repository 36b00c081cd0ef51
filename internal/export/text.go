package export

import (
	"bufio"
	"io"

	dialog "github.com/jamesainslie/go-dialog"
)

// Text writes one utterance per row, prefixed with the speaker's gender
// when known, and a blank row after every dialog:
//
//	f: some line uttered by a female character
//	m: some line uttered by a male character
//
//	?: a line from the next conversation
type Text struct {
	w *bufio.Writer
}

// NewText returns a Text writer on w.
func NewText(w io.Writer) *Text {
	return &Text{w: bufio.NewWriter(w)}
}

// Write writes the utterances of d followed by a blank row.
func (t *Text) Write(d dialog.Dialog) error {
	for _, u := range d.Utterances {
		if u.Gender != "" {
			_, _ = t.w.WriteString(u.Gender)
			_, _ = t.w.WriteString(": ")
		}
		_, _ = t.w.WriteString(u.Text)
		_ = t.w.WriteByte('\n')
	}
	// bufio.Writer keeps the first error; report it here.
	return t.w.WriteByte('\n')
}

// Flush writes any buffered output.
func (t *Text) Flush() error {
	return t.w.Flush()
}
