package sdf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// CountRecords counts the `$$$$` separator lines in the file at path.
//
// The count is an estimate used for progress display and for the
// summary's expected total; it is never used to gate correctness.
//
// Edge cases:
//   - Undecodable bytes are replaced rather than failing the scan, so a
//     file with a stray legacy-encoded vendor field still counts.
//   - Line length is unbounded, same as the record scanner.
//   - A file with no separators counts as 0.
//
// Errors:
//   - Only filesystem-level open/read failures are returned.
func CountRecords(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("sdf: count records: %w", err)
	}
	defer f.Close()

	// Lossy UTF-8 decode: invalid sequences become U+FFFD instead of
	// aborting the scan.
	dec := unicode.UTF8.NewDecoder()
	br := bufio.NewReader(dec.Reader(f))

	count := 0
	for {
		line, err := br.ReadString('\n')
		if strings.TrimSpace(line) == Terminator {
			count++
		}
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return 0, fmt.Errorf("sdf: count records: %w", err)
		}
	}
}
