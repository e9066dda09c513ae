package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/santuchal/sdf-to-smiles/internal/convert"
)

// WriteSummaryJSON writes the run summary as indented JSON with a
// trailing newline.
func WriteSummaryJSON(w io.Writer, s *convert.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("output: encode summary: %w", err)
	}
	return nil
}

// WriteSummaryJSONFile writes the run summary to path, creating or
// truncating it.
func WriteSummaryJSONFile(path string, s *convert.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create summary: %w", err)
	}
	if err := WriteSummaryJSON(f, s); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("output: close summary: %w", err)
	}
	return nil
}
