package convert

// DefaultProcessingLabel identifies the producing tool in the
// alcoa_consistent_processing_label column when the caller supplies no
// label of its own.
const DefaultProcessingLabel = "sdf2smiles_v1"

// AlcoaMetadata is the run-level provenance supplied once per run and
// stamped identically into every output row when ALCOA+ mode is on.
type AlcoaMetadata struct {
	Operator        string
	Contact         string
	Purpose         string
	StoragePlan     string
	DatasetID       string
	FileHash        string
	ProcessingLabel string
}

// alcoaColumns builds the nine alcoa_* columns for one run.
//
// Edge cases:
//   - An empty DatasetID defaults to "<source_file>::<run_timestamp>".
//   - An empty ProcessingLabel defaults to DefaultProcessingLabel.
func alcoaColumns(runTimestampUTC, sourceFile string, md AlcoaMetadata) map[string]string {
	datasetID := md.DatasetID
	if datasetID == "" {
		datasetID = sourceFile + "::" + runTimestampUTC
	}
	label := md.ProcessingLabel
	if label == "" {
		label = DefaultProcessingLabel
	}

	return map[string]string{
		"alcoa_attributable_operator":         md.Operator,
		"alcoa_legible_purpose":               md.Purpose,
		"alcoa_contemporaneous_timestamp_utc": runTimestampUTC,
		"alcoa_original_source_file":          sourceFile,
		"alcoa_accurate_input_sha256":         md.FileHash,
		"alcoa_complete_dataset_id":           datasetID,
		"alcoa_consistent_processing_label":   label,
		"alcoa_enduring_storage_plan":         md.StoragePlan,
		"alcoa_available_contact":             md.Contact,
	}
}
