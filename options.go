package dialog

import (
	"log/slog"

	"golang.org/x/text/encoding"

	"github.com/jamesainslie/go-dialog/corpus"
)

// Option configures a Reconstructor.
type Option func(*config)

type config struct {
	charactersPath string
	format         corpus.Format
	validate       bool
	logger         *slog.Logger
}

func defaultConfig() config {
	return config{
		format:   corpus.DefaultFormat(),
		validate: true,
		logger:   slog.Default(),
	}
}

// WithCharacters loads movie_characters_metadata.txt from path so that each
// utterance carries its speaker's gender.
func WithCharacters(path string) Option {
	return func(c *config) {
		c.charactersPath = path
	}
}

// WithEncoding sets the encoding of the corpus files (default: ISO-8859-1).
func WithEncoding(enc encoding.Encoding) Option {
	return func(c *config) {
		if enc != nil {
			c.format.Encoding = enc
		}
	}
}

// WithSeparator sets the field separator (default: " +++$+++ ").
func WithSeparator(sep string) Option {
	return func(c *config) {
		if sep != "" {
			c.format.Separator = sep
		}
	}
}

// WithValidation controls whether Dialogs checks the whole conversation
// table before yielding the first dialog (default: true).
func WithValidation(v bool) Option {
	return func(c *config) {
		c.validate = v
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
