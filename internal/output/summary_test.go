package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/santuchal/sdf-to-smiles/internal/convert"
)

func TestWriteSummaryJSON_KeysAndShape(t *testing.T) {
	t.Parallel()

	s := &convert.Summary{
		InputSDF:        "/data/library.sdf",
		RunTimestampUTC: "2026-08-23T10:00:00Z",
		Counts: convert.Counts{
			TotalRecordsSeen:                   5,
			TotalRecordsExpectedFromSeparators: 5,
			ParsedOK:                           4,
			SmilesConvertedOK:                  3,
			ParseFailures:                      1,
			SmilesFailures:                     1,
		},
		OutputCSV: "/data/library.csv",
		BadSDF:    "/data/bad_file.sdf",
	}

	var buf bytes.Buffer
	if err := WriteSummaryJSON(&buf, s); err != nil {
		t.Fatalf("WriteSummaryJSON: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Fatal("missing trailing newline")
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"input_sdf", "run_timestamp_utc", "counts", "output_csv", "bad_sdf"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("missing top-level key %q in %s", key, buf.String())
		}
	}
	counts, ok := doc["counts"].(map[string]any)
	if !ok {
		t.Fatalf("counts is %T, want object", doc["counts"])
	}
	if counts["smiles_converted_ok"] != float64(3) {
		t.Fatalf("smiles_converted_ok = %v, want 3", counts["smiles_converted_ok"])
	}
	if counts["total_records_expected_from_separators"] != float64(5) {
		t.Fatalf("separator count = %v, want 5", counts["total_records_expected_from_separators"])
	}
}

func TestWriteSummaryJSON_OmitsUnsetOutputPaths(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteSummaryJSON(&buf, &convert.Summary{InputSDF: "x.sdf"}); err != nil {
		t.Fatalf("WriteSummaryJSON: %v", err)
	}
	if strings.Contains(buf.String(), "output_csv") || strings.Contains(buf.String(), "bad_sdf") {
		t.Fatalf("unset paths should be omitted: %s", buf.String())
	}
}
