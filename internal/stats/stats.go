// Package stats summarizes reconstructed dialogs.
package stats

import (
	"fmt"
	"io"
	"iter"
	"sort"
	"strings"

	dialog "github.com/jamesainslie/go-dialog"
)

// Summary holds corpus-wide counts.
type Summary struct {
	Dialogs      int
	Utterances   int
	EmptyDialogs int
	MaxLength    int            // utterances in the longest dialog
	MeanLength   float64        // utterances per dialog
	ByGender     map[string]int // utterances per speaker gender; "" when unlabelled
	Movies       int            // distinct movie ids
}

// Summarize consumes seq and returns its summary. It stops at the first
// error.
func Summarize(seq iter.Seq2[dialog.Dialog, error]) (Summary, error) {
	s := Summary{ByGender: make(map[string]int)}
	movies := make(map[string]struct{})

	for d, err := range seq {
		if err != nil {
			return Summary{}, err
		}
		s.Add(d)
		movies[d.Conversation.MovieID] = struct{}{}
	}

	s.Movies = len(movies)
	if s.Dialogs > 0 {
		s.MeanLength = float64(s.Utterances) / float64(s.Dialogs)
	}
	return s, nil
}

// Add counts one dialog. MeanLength and Movies are set by Summarize.
func (s *Summary) Add(d dialog.Dialog) {
	if s.ByGender == nil {
		s.ByGender = make(map[string]int)
	}

	n := len(d.Utterances)
	s.Dialogs++
	s.Utterances += n
	if n == 0 {
		s.EmptyDialogs++
	}
	if n > s.MaxLength {
		s.MaxLength = n
	}
	for _, u := range d.Utterances {
		s.ByGender[u.Gender]++
	}
}

// Share returns the fraction of utterances spoken by gender.
func (s Summary) Share(gender string) float64 {
	if s.Utterances == 0 {
		return 0
	}
	return float64(s.ByGender[gender]) / float64(s.Utterances)
}

// Print writes the summary as a small table.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "Dialogs: %d  Utterances: %d  Movies: %d\n", s.Dialogs, s.Utterances, s.Movies)
	fmt.Fprintf(w, "Mean length: %.2f  Max length: %d  Empty: %d\n", s.MeanLength, s.MaxLength, s.EmptyDialogs)

	if len(s.ByGender) == 0 {
		return
	}
	genders := make([]string, 0, len(s.ByGender))
	for g := range s.ByGender {
		genders = append(genders, g)
	}
	sort.Strings(genders)

	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "%-8s %-10s %-8s\n", "Gender", "Lines", "Share")
	for _, g := range genders {
		label := g
		if label == "" {
			label = "(none)"
		}
		fmt.Fprintf(w, "%-8s %-10d %-8.2f\n", label, s.ByGender[g], s.Share(g))
	}
}
