// Package convert implements the record-by-record conversion pipeline:
// streaming SDF iteration, per-record canonicalization with failure
// triage, dynamic row building, and run-summary accounting.
//
// Design constraints:
//   - Strictly sequential: one record is fully processed before the
//     next is read; no buffering beyond the returned row slice.
//   - A malformed record never aborts a run. Only failure to open the
//     input is fatal, and it is reported before any output is touched.
//   - The failed-record sink is opened at most once and closed exactly
//     once, whether or not the run completes normally.
package convert

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/santuchal/sdf-to-smiles/internal/chem"
	"github.com/santuchal/sdf-to-smiles/internal/metrics"
	"github.com/santuchal/sdf-to-smiles/internal/sdf"
)

// TimestampLayout is the run-timestamp format: ISO-8601 UTC at second
// precision with a trailing Z.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Logger is the minimal logging interface used by the engine.
// *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

// Options configure one conversion run.
type Options struct {
	// InputPath is the SDF/SD file to convert. Required.
	InputPath string

	// BadSDFPath, when non-empty, receives the records that parsed but
	// failed SMILES serialization, verbatim and in original order.
	BadSDFPath string

	// EnforceALCOA stamps the nine alcoa_* columns into every row.
	EnforceALCOA bool

	// AlcoaMetadata is the run-level provenance used when EnforceALCOA
	// is set.
	AlcoaMetadata AlcoaMetadata

	// RunTimestampUTC fixes the run timestamp (TimestampLayout).
	// Empty means "now".
	RunTimestampUTC string

	// Progress, when non-nil, is called after every record with the
	// number of records seen and the separator-count estimate.
	Progress func(done, expected int)

	// Logger receives stage logs. Nil means silent.
	Logger Logger
}

// Run converts one SDF file into output rows plus a run summary.
//
// The row sequence preserves original file order filtered to successes;
// record_index is the 1-based position in the source file and never
// compacts around failures.
//
// Errors:
//   - A missing/unopenable input file is the only fatal condition.
//   - Mid-stream I/O failure on an already-open input is also returned
//     as an error (nothing sensible can be reported for a run that
//     could not read its input to the end).
func Run(opts Options) ([]Row, *Summary, error) {
	start := time.Now()
	logf := loggerOf(opts.Logger)

	info, err := os.Stat(opts.InputPath)
	if err != nil || info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is a directory", opts.InputPath)
		}
		return nil, nil, fmt.Errorf("input SDF not found: %w", err)
	}

	expected, err := sdf.CountRecords(opts.InputPath)
	if err != nil {
		return nil, nil, err
	}
	logf("stage=count ok expected=%d", expected)

	runTS := opts.RunTimestampUTC
	if runTS == "" {
		runTS = time.Now().UTC().Format(TimestampLayout)
	}

	f, err := os.Open(opts.InputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open input SDF: %w", err)
	}
	defer f.Close()

	var bad *sdf.RecordWriter
	if opts.BadSDFPath != "" {
		bad, err = sdf.NewRecordWriter(opts.BadSDFPath)
		if err != nil {
			return nil, nil, err
		}
		defer bad.Close()
	}

	sourceFile := filepath.Base(opts.InputPath)
	var alcoa map[string]string
	if opts.EnforceALCOA {
		// Run-level metadata: computed once, identical in every row.
		alcoa = alcoaColumns(runTS, sourceFile, opts.AlcoaMetadata)
	}

	var (
		rows    []Row
		counts  Counts
		scanner = sdf.NewScanner(f)
	)
	counts.TotalRecordsExpectedFromSeparators = expected

	for {
		rec, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		counts.TotalRecordsSeen++
		metrics.IncCounter(metrics.RecordsTotal, 1, metrics.Labels{"kind": "seen"})

		mol, perr := chem.ParseRecord(rec.Text)
		if perr != nil {
			// No molecule exists to re-serialize; count and move on.
			counts.ParseFailures++
			metrics.IncCounter(metrics.RecordsTotal, 1, metrics.Labels{"kind": "parse_failed"})
			reportProgress(opts.Progress, counts.TotalRecordsSeen, expected)
			continue
		}
		counts.ParsedOK++
		metrics.IncCounter(metrics.RecordsTotal, 1, metrics.Labels{"kind": "parsed"})

		smiles, serr := chem.ToSMILES(mol, chem.SMILESOptions{Isomeric: true})
		if serr != nil {
			counts.SmilesFailures++
			metrics.IncCounter(metrics.RecordsTotal, 1, metrics.Labels{"kind": "smiles_failed"})
			if bad != nil {
				if werr := bad.Write(rec); werr != nil {
					return nil, nil, werr
				}
			}
			reportProgress(opts.Progress, counts.TotalRecordsSeen, expected)
			continue
		}
		counts.SmilesConvertedOK++
		metrics.IncCounter(metrics.RecordsTotal, 1, metrics.Labels{"kind": "smiles_ok"})

		row := Row{
			"record_index":             fmt.Sprintf("%d", rec.Index),
			"smiles":                   smiles,
			"source_file":              sourceFile,
			"processing_timestamp_utc": runTS,
			"mol_name":                 mol.Name(),
		}
		row.Merge(mol.Properties())
		for k, v := range alcoa {
			row[k] = v
		}
		rows = append(rows, row)
		reportProgress(opts.Progress, counts.TotalRecordsSeen, expected)
	}

	if bad != nil {
		if err := bad.Close(); err != nil {
			return nil, nil, err
		}
	}

	absInput, err := filepath.Abs(opts.InputPath)
	if err != nil {
		absInput = opts.InputPath
	}
	summary := &Summary{
		InputSDF:        absInput,
		RunTimestampUTC: runTS,
		Counts:          counts,
	}

	metrics.ObserveHistogram(metrics.RunDurationSeconds, time.Since(start).Seconds(), nil)
	logf("stage=convert ok rows=%d parse_failures=%d smiles_failures=%d duration=%s",
		len(rows), counts.ParseFailures, counts.SmilesFailures,
		time.Since(start).Truncate(time.Millisecond))

	return rows, summary, nil
}

func reportProgress(fn func(done, expected int), done, expected int) {
	if fn != nil {
		fn(done, expected)
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func loggerOf(l Logger) func(format string, v ...any) {
	if l == nil {
		return log.New(discardWriter{}, "", 0).Printf
	}
	return l.Printf
}
