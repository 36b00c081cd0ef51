package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"

	"google.golang.org/protobuf/encoding/protowire"

	dialog "github.com/jamesainslie/go-dialog"
	"github.com/jamesainslie/go-dialog/corpus"
)

// Field numbers of the Dialog message:
//
//	message Dialog {
//	  uint64 index = 1;
//	  string movie_id = 2;
//	  string character_a = 3;
//	  string character_b = 4;
//	  repeated Utterance utterances = 5;
//	}
//
//	message Utterance {
//	  string line_id = 1;
//	  string character_id = 2;
//	  string gender = 3;
//	  string text = 4;
//	}
const (
	fieldIndex      protowire.Number = 1
	fieldMovieID    protowire.Number = 2
	fieldCharacterA protowire.Number = 3
	fieldCharacterB protowire.Number = 4
	fieldUtterance  protowire.Number = 5

	fieldLineID      protowire.Number = 1
	fieldCharacterID protowire.Number = 2
	fieldGender      protowire.Number = 3
	fieldText        protowire.Number = 4
)

// maxRecordLen bounds a single length-delimited record when decoding.
const maxRecordLen = 64 << 20

// Proto writes varint length-delimited Dialog messages.
type Proto struct {
	w   *bufio.Writer
	buf []byte
}

// NewProto returns a Proto writer on w.
func NewProto(w io.Writer) *Proto {
	return &Proto{w: bufio.NewWriter(w)}
}

// Write appends d as a length-prefixed Dialog message.
func (p *Proto) Write(d dialog.Dialog) error {
	p.buf = protowire.AppendBytes(p.buf[:0], MarshalDialog(d))
	_, err := p.w.Write(p.buf)
	return err
}

// Flush writes any buffered output.
func (p *Proto) Flush() error {
	return p.w.Flush()
}

// MarshalDialog encodes d as a Dialog message. Source positions are not
// encoded.
func MarshalDialog(d dialog.Dialog) []byte {
	var b []byte
	if d.Index != 0 {
		b = protowire.AppendTag(b, fieldIndex, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(d.Index))
	}
	b = appendString(b, fieldMovieID, d.Conversation.MovieID)
	b = appendString(b, fieldCharacterA, d.Conversation.CharacterA)
	b = appendString(b, fieldCharacterB, d.Conversation.CharacterB)

	var ub []byte
	for _, u := range d.Utterances {
		ub = ub[:0]
		ub = appendString(ub, fieldLineID, u.LineID)
		ub = appendString(ub, fieldCharacterID, u.CharacterID)
		ub = appendString(ub, fieldGender, u.Gender)
		ub = appendString(ub, fieldText, u.Text)

		b = protowire.AppendTag(b, fieldUtterance, protowire.BytesType)
		b = protowire.AppendBytes(b, ub)
	}
	return b
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// UnmarshalDialog decodes a Dialog message. Unknown fields are skipped.
func UnmarshalDialog(b []byte) (dialog.Dialog, error) {
	var d dialog.Dialog
	var conv corpus.Conversation

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return dialog.Dialog{}, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == fieldIndex && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return dialog.Dialog{}, protowire.ParseError(n)
			}
			d.Index = int(v)
			b = b[n:]
		case num == fieldUtterance && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return dialog.Dialog{}, protowire.ParseError(n)
			}
			u, err := unmarshalUtterance(v)
			if err != nil {
				return dialog.Dialog{}, fmt.Errorf("utterance %d: %w", len(d.Utterances), err)
			}
			d.Utterances = append(d.Utterances, u)
			b = b[n:]
		case typ == protowire.BytesType && (num == fieldMovieID || num == fieldCharacterA || num == fieldCharacterB):
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return dialog.Dialog{}, protowire.ParseError(n)
			}
			switch num {
			case fieldMovieID:
				conv.MovieID = v
			case fieldCharacterA:
				conv.CharacterA = v
			case fieldCharacterB:
				conv.CharacterB = v
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return dialog.Dialog{}, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}

	for _, u := range d.Utterances {
		conv.LineIDs = append(conv.LineIDs, u.LineID)
	}
	d.Conversation = conv
	return d, nil
}

func unmarshalUtterance(b []byte) (dialog.Utterance, error) {
	var u dialog.Utterance
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return dialog.Utterance{}, protowire.ParseError(n)
		}
		b = b[n:]

		if typ != protowire.BytesType || num < fieldLineID || num > fieldText {
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return dialog.Utterance{}, protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeString(b)
		if n < 0 {
			return dialog.Utterance{}, protowire.ParseError(n)
		}
		switch num {
		case fieldLineID:
			u.LineID = v
		case fieldCharacterID:
			u.CharacterID = v
		case fieldGender:
			u.Gender = v
		case fieldText:
			u.Text = v
		}
		b = b[n:]
	}
	return u, nil
}

// ReadProto streams the length-delimited dialogs written by Proto.
func ReadProto(r io.Reader) iter.Seq2[dialog.Dialog, error] {
	return func(yield func(dialog.Dialog, error) bool) {
		br := bufio.NewReader(r)
		for record := 0; ; record++ {
			size, err := binary.ReadUvarint(br)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(dialog.Dialog{}, fmt.Errorf("record %d: length: %w", record, err))
				return
			}
			if size > maxRecordLen {
				yield(dialog.Dialog{}, fmt.Errorf("record %d: length %d exceeds %d", record, size, maxRecordLen))
				return
			}

			buf := make([]byte, size)
			if _, err := io.ReadFull(br, buf); err != nil {
				yield(dialog.Dialog{}, fmt.Errorf("record %d: %w", record, err))
				return
			}

			d, err := UnmarshalDialog(buf)
			if err != nil {
				yield(dialog.Dialog{}, fmt.Errorf("record %d: %w", record, err))
				return
			}
			if !yield(d, nil) {
				return
			}
		}
	}
}
