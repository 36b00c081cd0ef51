// Package store exports reconstructed dialogs into a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	dialog "github.com/jamesainslie/go-dialog"
)

// ErrRunNotFound indicates no export run matches the requested id.
var ErrRunNotFound = errors.New("store: run not found")

// Store wraps a SQLite database holding export runs.
type Store struct {
	db *sql.DB
}

// Run describes one export.
type Run struct {
	ID                string
	LinesPath         string
	ConversationsPath string
	Dialogs           int
	CreatedAt         time.Time
}

// Source names the corpus files an export was built from.
type Source struct {
	LinesPath         string
	ConversationsPath string
}

// Open opens (or creates) a SQLite database at path, ensuring that the
// parent directory exists and the schema is in place.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open db at %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping db at %s: %w", path, err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			lines_path TEXT NOT NULL,
			conversations_path TEXT NOT NULL,
			dialogs INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL DEFAULT (unixepoch())
		);

		CREATE TABLE IF NOT EXISTS dialogs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			movie_id TEXT NOT NULL,
			character_a TEXT NOT NULL,
			character_b TEXT NOT NULL,
			UNIQUE (run_id, idx)
		);

		CREATE TABLE IF NOT EXISTS utterances (
			dialog_id INTEGER NOT NULL REFERENCES dialogs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			line_id TEXT NOT NULL,
			character_id TEXT NOT NULL,
			gender TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL,
			PRIMARY KEY (dialog_id, position)
		);
	`)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Export writes every dialog of seq as one run inside a single transaction
// and returns the run id. On any error the transaction is rolled back and
// no rows of the run remain.
func (s *Store) Export(ctx context.Context, src Source, seq iter.Seq2[dialog.Dialog, error]) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // No-op after commit

	runID := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, lines_path, conversations_path) VALUES (?, ?, ?)`,
		runID, src.LinesPath, src.ConversationsPath,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	insertDialog, err := tx.PrepareContext(ctx,
		`INSERT INTO dialogs (run_id, idx, movie_id, character_a, character_b) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare dialog insert: %w", err)
	}
	defer insertDialog.Close()

	insertUtterance, err := tx.PrepareContext(ctx,
		`INSERT INTO utterances (dialog_id, position, line_id, character_id, gender, text) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare utterance insert: %w", err)
	}
	defer insertUtterance.Close()

	n := 0
	for d, err := range seq {
		if err != nil {
			return "", err
		}

		res, err := insertDialog.ExecContext(ctx,
			runID, d.Index, d.Conversation.MovieID, d.Conversation.CharacterA, d.Conversation.CharacterB)
		if err != nil {
			return "", fmt.Errorf("insert dialog %d: %w", d.Index, err)
		}
		dialogID, err := res.LastInsertId()
		if err != nil {
			return "", fmt.Errorf("get dialog id: %w", err)
		}

		for pos, u := range d.Utterances {
			if _, err := insertUtterance.ExecContext(ctx,
				dialogID, pos, u.LineID, u.CharacterID, u.Gender, u.Text,
			); err != nil {
				return "", fmt.Errorf("insert utterance %s of dialog %d: %w", u.LineID, d.Index, err)
			}
		}
		n++
	}

	if _, err := tx.ExecContext(ctx, `UPDATE runs SET dialogs = ? WHERE id = ?`, n, runID); err != nil {
		return "", fmt.Errorf("update run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// Runs returns all export runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lines_path, conversations_path, dialogs, created_at FROM runs ORDER BY created_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created int64
		if err := rows.Scan(&r.ID, &r.LinesPath, &r.ConversationsPath, &r.Dialogs, &created); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(created, 0).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DialogTexts returns the utterance texts of dialog index within run runID.
func (s *Store) DialogTexts(ctx context.Context, runID string, index int) ([]string, error) {
	var dialogID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM dialogs WHERE run_id = ? AND idx = ?`, runID, index,
	).Scan(&dialogID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s dialog %d", ErrRunNotFound, runID, index)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT text FROM utterances WHERE dialog_id = ? ORDER BY position`, dialogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	texts := []string{}
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}
	return texts, rows.Err()
}
