// Package output renders conversion results: the CSV row set and the
// JSON run-summary document. Pure data shaping, no conversion logic.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/santuchal/sdf-to-smiles/internal/convert"
)

// Header derives the CSV header from a row set: the sorted union of all
// row keys. A run that produced no rows still gets the fixed five-column
// header so the output file is never headerless.
func Header(rows []convert.Row) []string {
	if len(rows) == 0 {
		return append([]string(nil), convert.FixedColumns...)
	}
	seen := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	header := make([]string, 0, len(seen))
	for k := range seen {
		header = append(header, k)
	}
	sort.Strings(header)
	return header
}

// WriteCSV writes the header plus one line per row. Columns a row lacks
// are left empty.
func WriteCSV(w io.Writer, rows []convert.Row) error {
	header := Header(rows)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("output: write csv header: %w", err)
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			record[i] = row[col]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("output: write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("output: flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes the row set to path, creating or truncating it.
func WriteCSVFile(path string, rows []convert.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create csv: %w", err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("output: close csv: %w", err)
	}
	return nil
}
