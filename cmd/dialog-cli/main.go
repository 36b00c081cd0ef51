package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	dialog "github.com/jamesainslie/go-dialog"
	"github.com/jamesainslie/go-dialog/corpus"
	"github.com/jamesainslie/go-dialog/internal/config"
	"github.com/jamesainslie/go-dialog/internal/export"
	"github.com/jamesainslie/go-dialog/internal/stats"
	"github.com/jamesainslie/go-dialog/internal/store"
)

// Set by the build via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.LinesPath, "lines", cfg.LinesPath, "Path to movie_lines.txt")
	flag.StringVar(&cfg.ConversationsPath, "conversations", cfg.ConversationsPath, "Path to movie_conversations.txt")
	flag.StringVar(&cfg.CharactersPath, "characters", cfg.CharactersPath, "Path to movie_characters_metadata.txt (optional, adds speaker gender)")
	flag.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "Corpus file encoding")
	flag.StringVar(&cfg.Format, "format", cfg.Format, "Output format: "+strings.Join(export.Formats(), ", "))
	flag.StringVar(&cfg.OutPath, "out", cfg.OutPath, "Output file (default: stdout)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Export into this SQLite database; stdout output is skipped unless -out is set")
	flag.BoolVar(&cfg.Stats, "stats", cfg.Stats, "Print a corpus summary to stderr")
	noValidate := flag.Bool("no-validate", !cfg.Validate, "Stream without the up-front validation pass")
	verbose := flag.Bool("v", false, "Debug logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("dialog-cli %s (%s, %s)\n", version, commit, date)
		return
	}
	cfg.Validate = !*noValidate

	level, _ := config.ParseLevel(cfg.LogLevel) // Checked by config.Load
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	enc, err := corpus.LookupEncoding(cfg.Encoding)
	if err != nil {
		return err
	}

	opts := []dialog.Option{
		dialog.WithEncoding(enc),
		dialog.WithValidation(cfg.Validate),
		dialog.WithLogger(logger),
	}
	if cfg.CharactersPath != "" {
		opts = append(opts, dialog.WithCharacters(cfg.CharactersPath))
	}

	r, err := dialog.New(cfg.LinesPath, cfg.ConversationsPath, opts...)
	if err != nil {
		return err
	}
	logger.Info("corpus loaded", "lines", r.Lines(), "characters", r.Characters())

	if cfg.DBPath != "" {
		if err := exportDB(ctx, cfg, r, logger); err != nil {
			return err
		}
	}

	if cfg.OutPath != "" || cfg.DBPath == "" {
		if err := writeOutput(cfg, r, logger); err != nil {
			return err
		}
	}

	if cfg.Stats {
		summary, err := stats.Summarize(r.Dialogs())
		if err != nil {
			return err
		}
		summary.Print(os.Stderr)
	}
	return nil
}

func exportDB(ctx context.Context, cfg config.Config, r *dialog.Reconstructor, logger *slog.Logger) error {
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	runID, err := s.Export(ctx, store.Source{
		LinesPath:         cfg.LinesPath,
		ConversationsPath: cfg.ConversationsPath,
	}, r.Dialogs())
	if err != nil {
		return fmt.Errorf("export to %s: %w", cfg.DBPath, err)
	}
	logger.Info("exported to database", "db", cfg.DBPath, "run", runID)
	return nil
}

func writeOutput(cfg config.Config, r *dialog.Reconstructor, logger *slog.Logger) error {
	out, err := openOutput(cfg.OutPath)
	if err != nil {
		return err
	}

	w, err := export.New(cfg.Format, out)
	if err != nil {
		_ = out.Abort()
		return err
	}

	n, err := export.WriteAll(w, r.Dialogs())
	if err != nil {
		_ = out.Abort()
		return err
	}
	if err := out.Commit(); err != nil {
		return err
	}
	logger.Info("dialogs written", "dialogs", n, "format", cfg.Format, "out", cfg.OutPath)
	return nil
}

// output is stdout or a temp file renamed onto its destination on Commit,
// so a failed run never leaves a partial file behind.
type output struct {
	io.Writer
	file *os.File
	dest string
}

func openOutput(path string) (*output, error) {
	if path == "" || path == "-" {
		return &output{Writer: os.Stdout}, nil
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	return &output{Writer: f, file: f, dest: path}, nil
}

func (o *output) Commit() error {
	if o.file == nil {
		return nil
	}
	if err := o.file.Close(); err != nil {
		_ = os.Remove(o.file.Name())
		return fmt.Errorf("closing output: %w", err)
	}
	if err := os.Rename(o.file.Name(), o.dest); err != nil {
		_ = os.Remove(o.file.Name())
		return fmt.Errorf("renaming output: %w", err)
	}
	return nil
}

func (o *output) Abort() error {
	if o.file == nil {
		return nil
	}
	_ = o.file.Close()
	return os.Remove(o.file.Name())
}
