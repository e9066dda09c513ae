package convert

import (
	"fmt"
	"strings"
)

// Counts holds the six run counters. By construction
// ParsedOK + ParseFailures == TotalRecordsSeen and
// SmilesConvertedOK + SmilesFailures == ParsedOK.
type Counts struct {
	TotalRecordsSeen                   int `json:"total_records_seen"`
	TotalRecordsExpectedFromSeparators int `json:"total_records_expected_from_separators"`
	ParsedOK                           int `json:"parsed_ok"`
	SmilesConvertedOK                  int `json:"smiles_converted_ok"`
	ParseFailures                      int `json:"parse_failures"`
	SmilesFailures                     int `json:"smiles_failures"`
}

// Summary is the immutable record of one conversion run. The engine
// finalizes it after the last record; the caller appends the output
// paths after writing the files.
type Summary struct {
	InputSDF        string `json:"input_sdf"`
	RunTimestampUTC string `json:"run_timestamp_utc"`
	Counts          Counts `json:"counts"`
	OutputCSV       string `json:"output_csv,omitempty"`
	BadSDF          string `json:"bad_sdf,omitempty"`
}

// Text renders the summary as a human-readable block.
func (s *Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "input:              %s\n", s.InputSDF)
	fmt.Fprintf(&b, "run timestamp:      %s\n", s.RunTimestampUTC)
	fmt.Fprintf(&b, "records seen:       %d (expected from separators: %d)\n",
		s.Counts.TotalRecordsSeen, s.Counts.TotalRecordsExpectedFromSeparators)
	fmt.Fprintf(&b, "parsed ok:          %d\n", s.Counts.ParsedOK)
	fmt.Fprintf(&b, "smiles ok:          %d\n", s.Counts.SmilesConvertedOK)
	fmt.Fprintf(&b, "parse failures:     %d\n", s.Counts.ParseFailures)
	fmt.Fprintf(&b, "smiles failures:    %d\n", s.Counts.SmilesFailures)
	if s.OutputCSV != "" {
		fmt.Fprintf(&b, "output csv:         %s\n", s.OutputCSV)
	}
	if s.BadSDF != "" {
		fmt.Fprintf(&b, "bad records sdf:    %s\n", s.BadSDF)
	}
	return b.String()
}
