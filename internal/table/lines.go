// Package table reads delimited localization tables as lazy sequences of numeric rows.
package table

import (
	"bufio"
	"io"
	"iter"
	"strings"
)

// maxLineSize bounds a single table line.
const maxLineSize = 1 << 20

// Lines yields the lines of r with their terminators removed, skipping every line
// that starts with commentPrefix. An empty prefix disables filtering.
// A read error is yielded once and ends the sequence. The sequence is single-pass:
// r is consumed as it is iterated.
func Lines(r io.Reader, commentPrefix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		for scanner.Scan() {
			line := strings.TrimSuffix(scanner.Text(), "\r")
			if commentPrefix != "" && strings.HasPrefix(line, commentPrefix) {
				continue
			}
			if !yield(line, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", err)
		}
	}
}
