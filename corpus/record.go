// Package corpus reads the Cornell Movie-Dialogs corpus tables.
//
// Every table is a text file with one record per row and fields separated
// by Separator. The files are not UTF-8; rows are decoded through a
// Format's encoding before parsing.
package corpus

import (
	"fmt"
	"strings"
)

// Separator is the field separator used by every corpus table.
const Separator = " +++$+++ "

// Gender labels used by the character table.
const (
	GenderFemale  = "f"
	GenderMale    = "m"
	GenderUnknown = "?"
)

// Line is one utterance from movie_lines.txt.
type Line struct {
	ID            string
	CharacterID   string
	MovieID       string
	CharacterName string // may be empty
	Text          string
}

// Conversation is one row of movie_conversations.txt.
type Conversation struct {
	CharacterA string
	CharacterB string
	MovieID    string
	LineIDs    []string // chronological order

	Path   string
	Row    int
	Record string // raw row text
}

// Character is one row of movie_characters_metadata.txt.
type Character struct {
	ID             string
	Name           string
	MovieID        string
	MovieTitle     string
	Gender         string // GenderFemale, GenderMale or GenderUnknown
	CreditPosition string // "?" when unknown
}

// ParseLine parses a movie_lines.txt row.
// Example: L1045 +++$+++ u0 +++$+++ m0 +++$+++ BIANCA +++$+++ They do not!
//
// The name and text fields may be empty but must be present. The text
// field is kept verbatim, separators included.
func ParseLine(row, sep string) (Line, error) {
	fields := strings.SplitN(row, sep, 5)
	if len(fields) != 5 {
		return Line{}, fmt.Errorf("%w: got %d fields, want 5", ErrMalformedRecord, len(fields))
	}

	line := Line{
		ID:            strings.TrimSpace(fields[0]),
		CharacterID:   strings.TrimSpace(fields[1]),
		MovieID:       strings.TrimSpace(fields[2]),
		CharacterName: fields[3],
		Text:          fields[4],
	}
	if line.ID == "" {
		return Line{}, fmt.Errorf("%w: empty line id", ErrMalformedRecord)
	}
	return line, nil
}

// ParseConversation parses a movie_conversations.txt row.
// Example: u0 +++$+++ u2 +++$+++ m0 +++$+++ ['L194', 'L195', 'L196', 'L197']
func ParseConversation(row, sep string) (Conversation, error) {
	fields := strings.Split(row, sep)
	if len(fields) != 4 {
		return Conversation{}, fmt.Errorf("%w: got %d fields, want 4", ErrMalformedRecord, len(fields))
	}

	ids, err := ParseIDList(fields[3])
	if err != nil {
		return Conversation{}, err
	}

	return Conversation{
		CharacterA: strings.TrimSpace(fields[0]),
		CharacterB: strings.TrimSpace(fields[1]),
		MovieID:    strings.TrimSpace(fields[2]),
		LineIDs:    ids,
	}, nil
}

// ParseCharacter parses a movie_characters_metadata.txt row.
// Example: u0 +++$+++ BIANCA +++$+++ m0 +++$+++ 10 things i hate about you +++$+++ f +++$+++ 4
func ParseCharacter(row, sep string) (Character, error) {
	fields := strings.Split(row, sep)
	if len(fields) != 6 {
		return Character{}, fmt.Errorf("%w: got %d fields, want 6", ErrMalformedRecord, len(fields))
	}

	id := strings.TrimSpace(fields[0])
	if id == "" {
		return Character{}, fmt.Errorf("%w: empty character id", ErrMalformedRecord)
	}

	return Character{
		ID:             id,
		Name:           fields[1],
		MovieID:        strings.TrimSpace(fields[2]),
		MovieTitle:     fields[3],
		Gender:         normalizeGender(fields[4]),
		CreditPosition: strings.TrimSpace(fields[5]),
	}, nil
}

// normalizeGender maps the table's mixed-case labels onto f, m or ?.
func normalizeGender(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case GenderFemale:
		return GenderFemale
	case GenderMale:
		return GenderMale
	default:
		return GenderUnknown
	}
}
