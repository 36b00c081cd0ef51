package dialog

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jamesainslie/go-dialog/corpus"
)

const sep = corpus.Separator

type testCorpus struct {
	lines         string
	conversations string
	characters    string
}

// write stores the tables in a temp dir and returns their paths.
func (c testCorpus) write(t *testing.T) (linesPath, conversationsPath, charactersPath string) {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	linesPath = write("movie_lines.txt", c.lines)
	conversationsPath = write("movie_conversations.txt", c.conversations)
	if c.characters != "" {
		charactersPath = write("movie_characters_metadata.txt", c.characters)
	}
	return linesPath, conversationsPath, charactersPath
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func line(id, character, text string) string {
	return id + sep + character + sep + "m0" + sep + "NAME" + sep + text + "\n"
}

func conversation(list string) string {
	return "u0" + sep + "u1" + sep + "m0" + sep + list + "\n"
}

func newTestReconstructor(t *testing.T, c testCorpus, opts ...Option) *Reconstructor {
	t.Helper()
	linesPath, conversationsPath, charactersPath := c.write(t)
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	if charactersPath != "" {
		opts = append(opts, WithCharacters(charactersPath))
	}
	r, err := New(linesPath, conversationsPath, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return r
}

func TestNew(t *testing.T) {
	r := newTestReconstructor(t, testCorpus{
		lines:         line("L1", "u0", "hello") + line("L2", "u1", "world"),
		conversations: conversation("['L1', 'L2']"),
	})

	if r.Lines() != 2 {
		t.Errorf("Lines() = %d, want 2", r.Lines())
	}
	if r.Characters() != 0 {
		t.Errorf("Characters() = %d, want 0", r.Characters())
	}
}

func TestNew_NotFound(t *testing.T) {
	linesPath, conversationsPath, _ := testCorpus{
		lines:         line("L1", "u0", "hello"),
		conversations: conversation("['L1']"),
	}.write(t)
	missing := filepath.Join(t.TempDir(), "missing.txt")

	tests := []struct {
		name              string
		linesPath         string
		conversationsPath string
		opts              []Option
	}{
		{"lines", missing, conversationsPath, nil},
		{"conversations", linesPath, missing, nil},
		{"characters", linesPath, conversationsPath, []Option{WithCharacters(missing)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.linesPath, tt.conversationsPath, tt.opts...)
			if !errors.Is(err, ErrCorpusNotFound) {
				t.Errorf("expected ErrCorpusNotFound, got: %v", err)
			}
		})
	}
}

func TestNew_ReadError(t *testing.T) {
	linesPath, conversationsPath, _ := testCorpus{
		lines:         line("L1", "u0", "hello"),
		conversations: conversation("['L1']"),
	}.write(t)
	dir := t.TempDir()

	tests := []struct {
		name              string
		linesPath         string
		conversationsPath string
	}{
		{"lines is a directory", dir, conversationsPath},
		{"conversations is a directory", linesPath, dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.linesPath, tt.conversationsPath, WithLogger(quietLogger()))
			if !errors.Is(err, ErrRead) {
				t.Errorf("expected ErrRead, got: %v", err)
			}
		})
	}
}

func TestNew_MalformedLine(t *testing.T) {
	linesPath, conversationsPath, _ := testCorpus{
		lines:         line("L1", "u0", "hello") + "L2" + sep + "u0\n",
		conversations: conversation("['L1']"),
	}.write(t)

	_, err := New(linesPath, conversationsPath)
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got: %v", err)
	}
	var recErr *corpus.RecordError
	if !errors.As(err, &recErr) || recErr.Row != 2 {
		t.Errorf("expected RecordError at row 2, got: %v", err)
	}
}

func TestReconstruct_RoundTrip(t *testing.T) {
	r := newTestReconstructor(t, testCorpus{
		lines:         line("L1", "u0", "hello") + line("L2", "u1", "world"),
		conversations: conversation("['L1','L2']"),
	})

	dialogs, err := r.Reconstruct()
	if err != nil {
		t.Fatalf("Reconstruct() failed: %v", err)
	}
	if len(dialogs) != 1 {
		t.Fatalf("got %d dialogs, want 1", len(dialogs))
	}
	if got, want := dialogs[0].Texts(), []string{"hello", "world"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Texts() = %q, want %q", got, want)
	}
}

func TestReconstruct_WithinDialogOrder(t *testing.T) {
	r := newTestReconstructor(t, testCorpus{
		lines:         line("L1", "u0", "one") + line("L2", "u1", "two") + line("L3", "u0", "three"),
		conversations: conversation("['L3', 'L1', 'L2']"),
	})

	dialogs, err := r.Reconstruct()
	if err != nil {
		t.Fatalf("Reconstruct() failed: %v", err)
	}
	if got, want := dialogs[0].Texts(), []string{"three", "one", "two"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Texts() = %q, want %q", got, want)
	}

	var ids []string
	for _, u := range dialogs[0].Utterances {
		ids = append(ids, u.LineID)
	}
	if want := []string{"L3", "L1", "L2"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("line ids = %v, want %v", ids, want)
	}
}

func TestReconstruct_OrderPreservation(t *testing.T) {
	r := newTestReconstructor(t, testCorpus{
		lines: line("L1", "u0", "a") + line("L2", "u1", "b") + line("L3", "u0", "c") +
			line("L4", "u1", "d") + line("L5", "u0", "e"),
		conversations: conversation("['L4', 'L5']") +
			conversation("['L1']") +
			conversation("['L2', 'L3', 'L2']") +
			conversation("[]"),
	})

	dialogs, err := r.Reconstruct()
	if err != nil {
		t.Fatalf("Reconstruct() failed: %v", err)
	}

	want := [][]string{{"d", "e"}, {"a"}, {"b", "c", "b"}, {}}
	if len(dialogs) != len(want) {
		t.Fatalf("got %d dialogs, want %d", len(dialogs), len(want))
	}
	for i, d := range dialogs {
		if d.Index != i {
			t.Errorf("dialog[%d].Index = %d", i, d.Index)
		}
		if d.Conversation.Row != i+1 {
			t.Errorf("dialog[%d].Conversation.Row = %d, want %d", i, d.Conversation.Row, i+1)
		}
		if got := d.Texts(); !reflect.DeepEqual(got, want[i]) {
			t.Errorf("dialog[%d].Texts() = %q, want %q", i, got, want[i])
		}
	}
}

func TestReconstruct_Completeness(t *testing.T) {
	r := newTestReconstructor(t, testCorpus{
		lines: line("L1", "u0", "Na\xefve r\xe9sum\xe9 -- 100% \"quoted\" +++ ") +
			line("L2", "u1", "I'm not.   "),
		conversations: conversation("['L1', 'L2']"),
	})

	dialogs, err := r.Reconstruct()
	if err != nil {
		t.Fatalf("Reconstruct() failed: %v", err)
	}
	want := []string{"Naïve résumé -- 100% \"quoted\" +++ ", "I'm not.   "}
	if got := dialogs[0].Texts(); !reflect.DeepEqual(got, want) {
		t.Errorf("Texts() = %q, want %q", got, want)
	}
}

func TestDialogs_UnresolvedLine(t *testing.T) {
	r := newTestReconstructor(t, testCorpus{
		lines:         line("L1", "u0", "hello") + line("L2", "u1", "world"),
		conversations: conversation("['L1', 'L2']") + conversation("['L1', 'L99']"),
	})

	var yielded int
	var gotErr error
	for _, err := range r.Dialogs() {
		if err != nil {
			gotErr = err
			break
		}
		yielded++
	}

	if yielded != 0 {
		t.Errorf("yielded %d dialogs before error, want 0", yielded)
	}
	if !errors.Is(gotErr, ErrUnresolvedLine) {
		t.Fatalf("expected ErrUnresolvedLine, got: %v", gotErr)
	}
	var recErr *corpus.RecordError
	if !errors.As(gotErr, &recErr) {
		t.Fatalf("expected *corpus.RecordError, got %T", gotErr)
	}
	if recErr.ID != "L99" || recErr.Row != 2 {
		t.Errorf("RecordError = %+v, want ID L99 at row 2", recErr)
	}
	if want := "u0" + sep + "u1" + sep + "m0" + sep + "['L1', 'L99']"; recErr.Record != want {
		t.Errorf("Record = %q, want %q", recErr.Record, want)
	}

	dialogs, err := r.Reconstruct()
	if !errors.Is(err, ErrUnresolvedLine) || dialogs != nil {
		t.Errorf("Reconstruct() = %v, %v; want nil, ErrUnresolvedLine", dialogs, err)
	}
}

func TestDialogs_WithoutValidation(t *testing.T) {
	r := newTestReconstructor(t, testCorpus{
		lines:         line("L1", "u0", "hello"),
		conversations: conversation("['L1']") + conversation("['L99']"),
	}, WithValidation(false))

	var yielded int
	var gotErr error
	for _, err := range r.Dialogs() {
		if err != nil {
			gotErr = err
			break
		}
		yielded++
	}

	if yielded != 1 {
		t.Errorf("yielded %d dialogs before error, want 1", yielded)
	}
	if !errors.Is(gotErr, ErrUnresolvedLine) {
		t.Errorf("expected ErrUnresolvedLine, got: %v", gotErr)
	}
}

func TestDialogs_MalformedList(t *testing.T) {
	r := newTestReconstructor(t, testCorpus{
		lines:         line("L1", "u0", "hello") + line("L2", "u1", "world"),
		conversations: conversation("['L1']") + conversation("[L1, L2"),
	})

	_, err := r.Reconstruct()
	if !errors.Is(err, ErrMalformedList) {
		t.Fatalf("expected ErrMalformedList, got: %v", err)
	}
	if err := r.Validate(); !errors.Is(err, ErrMalformedList) {
		t.Errorf("Validate() error = %v, want ErrMalformedList", err)
	}
}

func TestDialogs_Restartable(t *testing.T) {
	r := newTestReconstructor(t, testCorpus{
		lines:         line("L1", "u0", "hello") + line("L2", "u1", "world"),
		conversations: conversation("['L1']") + conversation("['L2']") + conversation("['L1', 'L2']"),
	})

	seq := r.Dialogs()

	// Stop after the first dialog, then range again from the start.
	for d, err := range seq {
		if err != nil {
			t.Fatalf("Dialogs() error = %v", err)
		}
		if d.Index != 0 {
			t.Errorf("first Index = %d, want 0", d.Index)
		}
		break
	}

	var indexes []int
	for d, err := range seq {
		if err != nil {
			t.Fatalf("Dialogs() error = %v", err)
		}
		indexes = append(indexes, d.Index)
	}
	if want := []int{0, 1, 2}; !reflect.DeepEqual(indexes, want) {
		t.Errorf("indexes = %v, want %v", indexes, want)
	}
}

func TestDialogs_WithCharacters(t *testing.T) {
	characters := "u0" + sep + "BIANCA" + sep + "m0" + sep + "10 things" + sep + "f" + sep + "4\n" +
		"u1" + sep + "CAMERON" + sep + "m0" + sep + "10 things" + sep + "M" + sep + "3\n" +
		"u2" + sep + "CHASTITY" + sep + "m0" + sep + "10 things" + sep + "?" + sep + "?\n"

	r := newTestReconstructor(t, testCorpus{
		lines:         line("L1", "u0", "hi") + line("L2", "u1", "hey") + line("L3", "u2", "yo"),
		conversations: conversation("['L1', 'L2', 'L3']"),
		characters:    characters,
	})

	if r.Characters() != 3 {
		t.Errorf("Characters() = %d, want 3", r.Characters())
	}

	dialogs, err := r.Reconstruct()
	if err != nil {
		t.Fatalf("Reconstruct() failed: %v", err)
	}
	var genders []string
	for _, u := range dialogs[0].Utterances {
		genders = append(genders, u.Gender)
	}
	if want := []string{"f", "m", "?"}; !reflect.DeepEqual(genders, want) {
		t.Errorf("genders = %v, want %v", genders, want)
	}
}

func TestDialogs_UnresolvedCharacter(t *testing.T) {
	r := newTestReconstructor(t, testCorpus{
		lines:         line("L1", "u0", "hi") + line("L2", "u7", "who?"),
		conversations: conversation("['L1', 'L2']"),
		characters:    "u0" + sep + "BIANCA" + sep + "m0" + sep + "10 things" + sep + "f" + sep + "4\n",
	})

	_, err := r.Reconstruct()
	if !errors.Is(err, ErrUnresolvedCharacter) {
		t.Fatalf("expected ErrUnresolvedCharacter, got: %v", err)
	}
	var recErr *corpus.RecordError
	if !errors.As(err, &recErr) || recErr.ID != "u7" {
		t.Errorf("expected RecordError naming u7, got: %v", err)
	}
}

func TestWithSeparator(t *testing.T) {
	r := newTestReconstructor(t, testCorpus{
		lines:         "L1\tu0\tm0\tA\thello\n",
		conversations: "u0\tu1\tm0\t['L1']\n",
	}, WithSeparator("\t"))

	dialogs, err := r.Reconstruct()
	if err != nil {
		t.Fatalf("Reconstruct() failed: %v", err)
	}
	if got := dialogs[0].Texts(); !reflect.DeepEqual(got, []string{"hello"}) {
		t.Errorf("Texts() = %q, want [hello]", got)
	}
}
