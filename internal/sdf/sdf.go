// Package sdf implements the text layer of the SDF/SD structural-data
// format: streaming record iteration, separator counting, and verbatim
// record re-serialization.
//
// The package deliberately knows nothing about chemistry. A record is a
// chunk of text ending at a `$$$$` terminator line; interpreting the
// molfile block inside it is the job of internal/chem.
//
// Design constraints:
//   - Scanning must be streaming: one record in memory at a time.
//   - Record text is preserved verbatim so that failed records can be
//     written back byte-for-byte.
package sdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Terminator is the record-separator token: a line containing exactly
// this four-character string (ignoring surrounding whitespace) ends one
// molecule entry.
const Terminator = "$$$$"

// Record is one raw entry of an SD file.
type Record struct {
	// Index is the 1-based position of the record in the source file.
	Index int
	// Text is the verbatim record text, including the terminator line
	// when one was present in the source.
	Text string
	// Terminated reports whether the record ended with a `$$$$` line
	// (false only for a trailing record cut off by EOF).
	Terminated bool
}

// Scanner iterates the records of an SD stream one at a time.
//
// When to use:
//   - Wrap any io.Reader positioned at the start of an SD document and
//     call Next until it returns io.EOF.
//
// Errors:
//   - Next returns io.EOF after the last record.
//   - Any other error is an I/O-level failure from the underlying reader
//     and should be treated as fatal by the caller.
type Scanner struct {
	br   *bufio.Reader
	next int
	done bool
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{br: bufio.NewReader(r), next: 1}
}

// Next returns the next record in the stream.
//
// Edge cases:
//   - Content after the final `$$$$` that contains at least one
//     non-blank line is returned as one last unterminated record.
//   - Trailing blank lines are not a record.
func (s *Scanner) Next() (Record, error) {
	if s.done {
		return Record{}, io.EOF
	}

	var b strings.Builder
	nonBlank := false

	for {
		line, err := s.br.ReadString('\n')
		if line != "" {
			b.WriteString(line)
			trimmed := strings.TrimSpace(line)
			if trimmed == Terminator {
				rec := Record{Index: s.next, Text: b.String(), Terminated: true}
				s.next++
				if err == io.EOF {
					s.done = true
				}
				return rec, nil
			}
			if trimmed != "" {
				nonBlank = true
			}
		}
		if err == io.EOF {
			s.done = true
			if !nonBlank {
				return Record{}, io.EOF
			}
			rec := Record{Index: s.next, Text: b.String()}
			s.next++
			return rec, nil
		}
		if err != nil {
			return Record{}, fmt.Errorf("sdf: read record %d: %w", s.next, err)
		}
	}
}
