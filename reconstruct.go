package dialog

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"

	"github.com/jamesainslie/go-dialog/corpus"
)

// Utterance is one resolved line of a dialog.
type Utterance struct {
	LineID      string
	CharacterID string
	Gender      string // empty unless a character table is loaded
	Text        string
}

// Dialog is a conversation with its line ids resolved to utterances.
type Dialog struct {
	Index        int // position in the conversation table, from 0
	Conversation corpus.Conversation
	Utterances   []Utterance
}

// Texts returns the utterance texts in conversation order.
func (d Dialog) Texts() []string {
	texts := make([]string, len(d.Utterances))
	for i, u := range d.Utterances {
		texts[i] = u.Text
	}
	return texts
}

// Reconstructor joins the line table with the conversation table.
// The tables are read-only after New; a Reconstructor may be iterated any
// number of times.
type Reconstructor struct {
	conversationsPath string
	lines             corpus.LineTable
	characters        corpus.CharacterTable // nil without WithCharacters
	format            corpus.Format
	validate          bool
	logger            *slog.Logger
}

// New loads the line table (and the character table, if configured) and
// prepares to stream the conversation table.
func New(linesPath, conversationsPath string, opts ...Option) (*Reconstructor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	// Check conversation file exists
	info, err := os.Stat(conversationsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCorpusNotFound, conversationsPath)
		}
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrRead, conversationsPath)
	}

	lines, err := corpus.LoadLines(linesPath, cfg.format)
	if err != nil {
		return nil, fmt.Errorf("loading lines: %w", err)
	}
	cfg.logger.Debug("loaded line table", "path", linesPath, "lines", len(lines))

	var characters corpus.CharacterTable
	if cfg.charactersPath != "" {
		characters, err = corpus.LoadCharacters(cfg.charactersPath, cfg.format)
		if err != nil {
			return nil, fmt.Errorf("loading characters: %w", err)
		}
		cfg.logger.Debug("loaded character table", "path", cfg.charactersPath, "characters", len(characters))
	}

	return &Reconstructor{
		conversationsPath: conversationsPath,
		lines:             lines,
		characters:        characters,
		format:            cfg.format,
		validate:          cfg.validate,
		logger:            cfg.logger,
	}, nil
}

// Lines returns the number of loaded lines.
func (r *Reconstructor) Lines() int {
	return len(r.lines)
}

// Characters returns the number of loaded characters.
func (r *Reconstructor) Characters() int {
	return len(r.characters)
}

// Dialogs returns the dialogs in conversation-table order.
//
// The sequence is finite and forward-only. Each range over it re-reads the
// conversation table. The first error is yielded once and ends the
// sequence; with validation enabled, parse and resolution errors arrive
// before any dialog.
func (r *Reconstructor) Dialogs() iter.Seq2[Dialog, error] {
	return func(yield func(Dialog, error) bool) {
		if r.validate {
			if err := r.Validate(); err != nil {
				yield(Dialog{}, err)
				return
			}
		}

		index := 0
		for conv, err := range corpus.ScanConversations(r.conversationsPath, r.format) {
			if err != nil {
				yield(Dialog{}, err)
				return
			}
			d, err := r.resolve(index, conv)
			if err != nil {
				yield(Dialog{}, err)
				return
			}
			if !yield(d, nil) {
				return
			}
			index++
		}
	}
}

// Reconstruct materializes every dialog. On error no dialogs are returned.
func (r *Reconstructor) Reconstruct() ([]Dialog, error) {
	var dialogs []Dialog
	for d, err := range r.Dialogs() {
		if err != nil {
			return nil, err
		}
		dialogs = append(dialogs, d)
	}
	return dialogs, nil
}

// Validate parses every conversation and resolves every reference without
// producing dialogs.
func (r *Reconstructor) Validate() error {
	n := 0
	for conv, err := range corpus.ScanConversations(r.conversationsPath, r.format) {
		if err != nil {
			return err
		}
		for _, id := range conv.LineIDs {
			if _, err := r.utterance(conv, id); err != nil {
				return err
			}
		}
		n++
	}
	r.logger.Debug("validated conversation table", "path", r.conversationsPath, "conversations", n)
	return nil
}

func (r *Reconstructor) resolve(index int, conv corpus.Conversation) (Dialog, error) {
	utterances := make([]Utterance, 0, len(conv.LineIDs))
	for _, id := range conv.LineIDs {
		u, err := r.utterance(conv, id)
		if err != nil {
			return Dialog{}, err
		}
		utterances = append(utterances, u)
	}

	return Dialog{
		Index:        index,
		Conversation: conv,
		Utterances:   utterances,
	}, nil
}

func (r *Reconstructor) utterance(conv corpus.Conversation, id string) (Utterance, error) {
	line, ok := r.lines[id]
	if !ok {
		return Utterance{}, &corpus.RecordError{
			Path:   conv.Path,
			Row:    conv.Row,
			ID:     id,
			Record: conv.Record,
			Err:    ErrUnresolvedLine,
		}
	}

	u := Utterance{
		LineID:      line.ID,
		CharacterID: line.CharacterID,
		Text:        line.Text,
	}

	if r.characters != nil {
		c, ok := r.characters[line.CharacterID]
		if !ok {
			return Utterance{}, &corpus.RecordError{
				Path:   conv.Path,
				Row:    conv.Row,
				ID:     line.CharacterID,
				Record: conv.Record,
				Err:    ErrUnresolvedCharacter,
			}
		}
		u.Gender = c.Gender
	}

	return u, nil
}
