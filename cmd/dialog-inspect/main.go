package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jamesainslie/go-dialog/internal/export"
	"github.com/jamesainslie/go-dialog/internal/store"
)

func main() {
	var (
		protoPath = flag.String("proto", "", "Length-delimited protobuf file written by dialog-cli -format proto")
		dbPath    = flag.String("db", "", "SQLite database written by dialog-cli -db")
		runID     = flag.String("run", "", "Export run id (with -db)")
		index     = flag.Int("index", 0, "Dialog index within the run (with -db -run)")
		format    = flag.String("format", "text", "Output format for -proto: "+strings.Join(export.Formats(), ", "))
	)
	flag.Parse()

	if (*protoPath == "") == (*dbPath == "") {
		fmt.Fprintln(os.Stderr, "error: exactly one of -proto or -db required")
		flag.Usage()
		os.Exit(1)
	}

	var err error
	if *protoPath != "" {
		err = convertProto(*protoPath, *format, os.Stdout)
	} else {
		err = inspectDB(context.Background(), *dbPath, *runID, *index, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// convertProto re-encodes a protobuf dialog stream in another format.
func convertProto(path, format string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := export.New(format, out)
	if err != nil {
		return err
	}
	_, err = export.WriteAll(w, export.ReadProto(f))
	return err
}

// inspectDB lists export runs, or prints one dialog when runID is set.
func inspectDB(ctx context.Context, path, runID string, index int, out io.Writer) error {
	// store.Open creates missing databases; a typo must not.
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("database %s: %w", path, err)
	}

	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if runID == "" {
		runs, err := s.Runs(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-36s %-8s %-20s %s\n", "Run", "Dialogs", "Created", "Conversations")
		fmt.Fprintln(out, strings.Repeat("-", 80))
		for _, r := range runs {
			fmt.Fprintf(out, "%-36s %-8d %-20s %s\n", r.ID, r.Dialogs, r.CreatedAt.Format("2006-01-02 15:04:05"), r.ConversationsPath)
		}
		return nil
	}

	texts, err := s.DialogTexts(ctx, runID, index)
	if err != nil {
		return err
	}
	for _, text := range texts {
		fmt.Fprintln(out, text)
	}
	return nil
}
