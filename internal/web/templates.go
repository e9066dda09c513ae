package web

import (
	"html/template"

	"github.com/santuchal/sdf-to-smiles/internal/convert"
)

// StoragePlans are the long-term storage options offered on the upload
// form, most regulated first.
var StoragePlans = []string{
	"21 CFR Part 11 compliant document vault",
	"Validated data lake",
	"Regulated LIMS",
	"Local secure drive (with routine backups)",
}

// PreviewLimit caps the number of rows rendered in the browser; the
// download always carries the full set.
const PreviewLimit = 500

type indexParams struct {
	DatasetIDDefault string
	StoragePlans     []string
	Error            string
}

type resultsParams struct {
	ResultID     string
	SourceName   string
	Counts       convert.Counts
	Issues       int
	TotalRows    int
	PreviewRows  int
	Header       []string
	Preview      []convert.Row
	AlcoaEnabled bool
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>ALCOA+ Ready Molecular Converter</title>
</head>
<body>
<h1>ALCOA+ Ready Molecular Converter</h1>
<p>Upload an SDF or SD file containing one or many small molecules and
instantly generate a clean CSV with canonical SMILES plus the original
SD tags.</p>
{{if .Error}}<p class="error" role="alert">{{.Error}}</p>{{end}}
<form method="post" action="/convert" enctype="multipart/form-data">
  <p><input type="file" name="file" accept=".sdf,.sd" required></p>
  <p><label><input type="checkbox" name="alcoa" value="on" checked> ALCOA+ mode</label></p>
  <fieldset>
    <legend>ALCOA+ annotations</legend>
    <p><label>Operator / Analyst name <input name="operator" placeholder="Dr. Jane Doe"></label></p>
    <p><label>Contact / Email <input name="contact" placeholder="jane.doe@lab.org"></label></p>
    <p><label>Purpose or study context <textarea name="purpose" placeholder="Stability screening for candidate ligands"></textarea></label></p>
    <p><label>Dataset identifier <input name="dataset_id" value="{{.DatasetIDDefault}}"></label></p>
    <p><label>Planned long-term storage
      <select name="storage_plan">
      {{range .StoragePlans}}<option value="{{.}}">{{.}}</option>
      {{end}}</select>
    </label></p>
  </fieldset>
  <p><button type="submit">Convert to CSV</button></p>
</form>
</body>
</html>
`))

var resultsTmpl = template.Must(template.New("results").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Conversion results — {{.SourceName}}</title>
</head>
<body>
<h1>Conversion results</h1>
<p>Completed conversion — {{.Counts.SmilesConvertedOK}} structures exported to CSV.</p>
<dl class="metrics">
  <dt>Total records (separators)</dt><dd id="metric-expected">{{.Counts.TotalRecordsExpectedFromSeparators}}</dd>
  <dt>Read successfully</dt><dd id="metric-parsed">{{.Counts.ParsedOK}}</dd>
  <dt>SMILES generated</dt><dd id="metric-smiles">{{.Counts.SmilesConvertedOK}}</dd>
  <dt>Conversion issues</dt><dd id="metric-issues">{{.Issues}}</dd>
</dl>
<p><a href="/results/{{.ResultID}}/csv">Download CSV</a>
   <a href="/results/{{.ResultID}}/summary">Run summary / audit trail (JSON)</a></p>
<h2>Preview ({{.PreviewRows}} of {{.TotalRows}} rows)</h2>
{{if lt .PreviewRows .TotalRows}}<p class="note">Preview truncated for performance. Download for the full dataset.</p>{{end}}
<table>
  <thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
  <tbody>
  {{range $row := .Preview}}<tr>{{range $.Header}}<td>{{index $row .}}</td>{{end}}</tr>
  {{end}}</tbody>
</table>
</body>
</html>
`))
