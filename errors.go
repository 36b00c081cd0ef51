package dialog

import (
	"errors"

	"github.com/jamesainslie/go-dialog/corpus"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrCorpusNotFound indicates a corpus file does not exist.
	ErrCorpusNotFound = corpus.ErrNotFound

	// ErrRead indicates a corpus file could not be opened or read.
	ErrRead = corpus.ErrRead

	// ErrMalformedRecord indicates a table row has the wrong number of fields.
	ErrMalformedRecord = corpus.ErrMalformedRecord

	// ErrMalformedList indicates a conversation's line-id list does not parse.
	ErrMalformedList = corpus.ErrMalformedList

	// ErrUnresolvedLine indicates a conversation references a line id
	// missing from the line table.
	ErrUnresolvedLine = errors.New("dialog: unresolved line id")

	// ErrUnresolvedCharacter indicates a line's speaker is missing from the
	// character table.
	ErrUnresolvedCharacter = errors.New("dialog: unresolved character id")
)
