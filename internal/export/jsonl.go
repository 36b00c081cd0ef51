package export

import (
	"bufio"
	"encoding/json"
	"io"

	dialog "github.com/jamesainslie/go-dialog"
)

// jsonDialog is the JSON Lines record for one dialog.
type jsonDialog struct {
	Index      int             `json:"index"`
	MovieID    string          `json:"movie_id"`
	Characters [2]string       `json:"characters"`
	Utterances []jsonUtterance `json:"utterances"`
}

type jsonUtterance struct {
	LineID      string `json:"line_id"`
	CharacterID string `json:"character_id"`
	Gender      string `json:"gender,omitempty"`
	Text        string `json:"text"`
}

// JSONL writes one JSON object per dialog per row.
type JSONL struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONL returns a JSONL writer on w.
func NewJSONL(w io.Writer) *JSONL {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &JSONL{w: bw, enc: enc}
}

// Write encodes d as one JSON row.
func (j *JSONL) Write(d dialog.Dialog) error {
	rec := jsonDialog{
		Index:      d.Index,
		MovieID:    d.Conversation.MovieID,
		Characters: [2]string{d.Conversation.CharacterA, d.Conversation.CharacterB},
		Utterances: make([]jsonUtterance, len(d.Utterances)),
	}
	for i, u := range d.Utterances {
		rec.Utterances[i] = jsonUtterance(u)
	}
	return j.enc.Encode(rec)
}

// Flush writes any buffered output.
func (j *JSONL) Flush() error {
	return j.w.Flush()
}
