// Package dialog reconstructs chronological dialogs from the Cornell
// Movie-Dialogs corpus.
//
// # Quick Start
//
//	r, err := dialog.New("movie_lines.txt", "movie_conversations.txt",
//	    dialog.WithCharacters("movie_characters_metadata.txt"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for d, err := range r.Dialogs() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, u := range d.Utterances {
//	        fmt.Printf("%s: %s\n", u.Gender, u.Text)
//	    }
//	    fmt.Println()
//	}
//
// # Failure Semantics
//
// The line table is loaded by New. Dialogs streams the conversation table;
// by default it first validates every conversation, so a malformed row or a
// reference to a missing line is reported before any dialog is yielded.
// Errors wrap the sentinels in errors.go and carry the file and row through
// corpus.RecordError.
//
// # Corpus Files
//
// Download from Cornell:
//   - https://www.cs.cornell.edu/~cristian/Cornell_Movie-Dialogs_Corpus.html
package dialog
