// Command sdf2smiles converts an SDF/SD file with many small molecules
// into a CSV with canonical SMILES, logging non-convertible records into
// a separate SDF.
//
// Usage:
//
//	sdf2smiles molecules.sdf
//
// Custom output locations and an audit summary:
//
//	sdf2smiles -out-csv out.csv -bad-sdf rejects.sdf -summary-json run.json molecules.sdf
//
// ALCOA+ provenance columns from a YAML config:
//
//	sdf2smiles -alcoa-config alcoa.yaml molecules.sdf
//
// Ship run metrics to Datadog (DD_API_KEY must be set):
//
//	sdf2smiles -metrics-backend datadog -metrics-tags team:chem molecules.sdf
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/santuchal/sdf-to-smiles/internal/alcoaconf"
	"github.com/santuchal/sdf-to-smiles/internal/convert"
	"github.com/santuchal/sdf-to-smiles/internal/metrics"
	"github.com/santuchal/sdf-to-smiles/internal/metrics/datadog"
	"github.com/santuchal/sdf-to-smiles/internal/output"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run is split out from main so we can unit test the command without
// spawning an OS process.
//
// It returns a Unix-style exit code:
//   - 0 for success
//   - 2 for usage/config errors
//   - 1 for operational/runtime errors
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sdf2smiles", flag.ContinueOnError)
	fs.SetOutput(stderr)

	outCSV := fs.String("out-csv", "", "Path to output .csv file (default: <input_basename>.csv next to the input)")
	badSDF := fs.String("bad-sdf", "", "Path to SDF receiving molecules that failed SMILES conversion (default: bad_file.sdf next to the input)")
	summaryJSON := fs.String("summary-json", "", "Optional JSON file summarising the run for audit/traceability")
	alcoaConfig := fs.String("alcoa-config", "", "YAML file with ALCOA+ provenance; enables the alcoa_* columns")
	metricsBackend := fs.String("metrics-backend", "none", "Metrics backend: none or datadog")
	metricsTags := fs.String("metrics-tags", "", "Extra Datadog tags, comma separated (e.g. env:prod,team:chem)")
	quiet := fs.Bool("quiet", false, "Suppress progress and stage logs; the summary still prints")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "usage: sdf2smiles [flags] <input.sdf>\n")
		fs.PrintDefaults()
		return 2
	}
	inputPath := fs.Arg(0)

	dir := filepath.Dir(inputPath)
	if *outCSV == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		*outCSV = filepath.Join(dir, base+".csv")
	}
	if *badSDF == "" {
		*badSDF = filepath.Join(dir, "bad_file.sdf")
	}

	opts := convert.Options{
		InputPath:  inputPath,
		BadSDFPath: *badSDF,
	}
	if !*quiet {
		opts.Logger = log.New(stderr, "sdf2smiles: ", 0)
		opts.Progress = progressPrinter(stderr)
	}

	if *alcoaConfig != "" {
		cfg, err := alcoaconf.Load(*alcoaConfig)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 2
		}
		hash, err := fileSHA256(inputPath)
		if err != nil {
			fmt.Fprintf(stderr, "hash input: %v\n", err)
			return 1
		}
		opts.EnforceALCOA = true
		opts.AlcoaMetadata = cfg.Metadata(hash)
	}

	switch *metricsBackend {
	case "none":
	case "datadog":
		backend, err := datadog.NewBackend(ctx, datadog.Options{
			Tags: datadog.ParseTagsCSV(*metricsTags),
		})
		if err != nil {
			fmt.Fprintf(stderr, "metrics backend: %v\n", err)
			return 2
		}
		metrics.SetBackend(backend)
		defer func() {
			metrics.SetBackend(nil)
			if err := backend.Close(); err != nil && !*quiet {
				fmt.Fprintf(stderr, "metrics flush: %v\n", err)
			}
		}()
	default:
		fmt.Fprintf(stderr, "unknown -metrics-backend %q (want none or datadog)\n", *metricsBackend)
		return 2
	}

	rows, summary, err := convert.Run(opts)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if !*quiet {
		fmt.Fprintf(stderr, "\n") // end the progress line
	}

	if err := output.WriteCSVFile(*outCSV, rows); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	summary.OutputCSV = absOr(*outCSV)
	summary.BadSDF = absOr(*badSDF)

	if *summaryJSON != "" {
		if err := output.WriteSummaryJSONFile(*summaryJSON, summary); err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 1
		}
	}

	fmt.Fprint(stdout, summary.Text())
	return 0
}

// progressPrinter rewrites one stderr line per record, tqdm style.
func progressPrinter(w io.Writer) func(done, expected int) {
	return func(done, expected int) {
		if expected > 0 {
			fmt.Fprintf(w, "\rconverting %d/%d", done, expected)
			return
		}
		fmt.Fprintf(w, "\rconverting %d", done)
	}
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func absOr(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
