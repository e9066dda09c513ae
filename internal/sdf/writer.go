package sdf

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RecordWriter re-serializes records into a new SD file. It is the sink
// for records that parsed but could not be converted; the engine opens
// it only when a destination path was supplied.
type RecordWriter struct {
	f      *os.File
	bw     *bufio.Writer
	count  int
	closed bool
}

// NewRecordWriter creates (truncating) the file at path.
func NewRecordWriter(path string) (*RecordWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("sdf: open record writer: %w", err)
	}
	return &RecordWriter{f: f, bw: bufio.NewWriter(f)}, nil
}

// Write appends one record verbatim. A terminator line is added when the
// record was cut off by EOF in the source.
func (w *RecordWriter) Write(rec Record) error {
	if w.closed {
		return fmt.Errorf("sdf: record writer already closed")
	}
	text := rec.Text
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := w.bw.WriteString(text); err != nil {
		return fmt.Errorf("sdf: write record %d: %w", rec.Index, err)
	}
	if !rec.Terminated {
		if _, err := w.bw.WriteString(Terminator + "\n"); err != nil {
			return fmt.Errorf("sdf: write record %d: %w", rec.Index, err)
		}
	}
	w.count++
	return nil
}

// Count returns the number of records written so far.
func (w *RecordWriter) Count() int { return w.count }

// Close flushes and closes the file. Safe to call more than once; only
// the first call does work.
func (w *RecordWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.bw.Flush(); err != nil {
		w.f.Close()
		return fmt.Errorf("sdf: flush record writer: %w", err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("sdf: close record writer: %w", err)
	}
	return nil
}
