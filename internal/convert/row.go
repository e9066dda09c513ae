package convert

import "github.com/santuchal/sdf-to-smiles/internal/chem"

// FixedColumns are the columns present in every output row, and the
// header emitted when a run produced no rows at all.
var FixedColumns = []string{
	"record_index",
	"smiles",
	"source_file",
	"processing_timestamp_utc",
	"mol_name",
}

// Row is one output row: column name -> value. The column set varies
// row to row; the final schema is derived after the run as the union of
// all keys.
type Row map[string]string

// Merge folds a molecule's data properties into the row. A property key
// that collides with an existing column is renamed once by prefixing
// "prop_". If the renamed key is itself already taken, the later value
// overwrites it; there is no deeper disambiguation.
func (r Row) Merge(props []chem.Property) {
	for _, p := range props {
		key := p.Key
		if _, taken := r[key]; taken {
			key = "prop_" + key
		}
		r[key] = p.Value
	}
}
