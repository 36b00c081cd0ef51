//go:build ignore

// Extract the rows of a few movies from the Cornell corpus into a small
// sample corpus. Bytes are copied unchanged, so the sample keeps the
// original ISO-8859-1 encoding.
// Usage: go run ./scripts/sample-corpus.go -in cornell-movie-dialogs-corpus -movies m0,m1
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/go-dialog/corpus"
)

// Column holding the movie id in each table.
var tables = map[string]int{
	"movie_lines.txt":               2,
	"movie_conversations.txt":       2,
	"movie_characters_metadata.txt": 2,
}

func main() {
	inDir := flag.String("in", "cornell-movie-dialogs-corpus", "Corpus directory")
	outDir := flag.String("out", "testdata/sample", "Output directory")
	movieList := flag.String("movies", "m0", "Comma-separated movie ids")
	flag.Parse()

	movies := make(map[string]bool)
	for _, m := range strings.Split(*movieList, ",") {
		movies[strings.TrimSpace(m)] = true
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	for name, column := range tables {
		in := filepath.Join(*inDir, name)
		out := filepath.Join(*outDir, name)

		n, err := filterTable(in, out, column, movies)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", in, err)
			os.Exit(1)
		}
		fmt.Printf("  -> %s (%d rows)\n", out, n)
	}

	fmt.Printf("\nDone! Sample corpus created in %s/\n", *outDir)
}

func filterTable(in, out string, column int, movies map[string]bool) (int, error) {
	src, err := os.Open(in)
	if err != nil {
		return 0, fmt.Errorf("opening file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}
	defer dst.Close()

	w := bufio.NewWriter(dst)
	sep := []byte(corpus.Separator)

	n := 0
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		row := scanner.Bytes()
		fields := bytes.SplitN(row, sep, column+2)
		if len(fields) <= column || !movies[string(bytes.TrimSpace(fields[column]))] {
			continue
		}
		_, _ = w.Write(row)
		_ = w.WriteByte('\n')
		n++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scanning: %w", err)
	}

	return n, w.Flush()
}
