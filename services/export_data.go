package services

import (
	"strconv"
	"strings"
	"time"
)

const (
	MIMETypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMETypePDF  = "application/pdf"

	ResultsArtifactKind = "RFP_Results"
	SummaryArtifactKind = "RFP_Summary"
)

// RunMetadata tags one export action.
type RunMetadata struct {
	RunID     string
	Timestamp string
}

// NewRunMetadata stamps an export made at now. RunID has the form
// RUN-YYYYMMDDHHMMSS.
func NewRunMetadata(now time.Time) RunMetadata {
	return RunMetadata{
		RunID:     "RUN-" + now.Format("20060102150405"),
		Timestamp: now.Format("2006-01-02 15:04:05"),
	}
}

// Pairs returns the metadata as ordered key/value rows.
func (m RunMetadata) Pairs() []LabeledValue {
	return []LabeledValue{
		{Label: "RunID", Value: m.RunID},
		{Label: "Timestamp", Value: m.Timestamp},
	}
}

// LabeledValue is one line of an ordered label/value listing.
type LabeledValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Table is a named grid written to its own workbook sheet.
// Every row must have exactly len(Columns) cells.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Artifact is a generated download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ArtifactFilename builds {kind}_{runID}.{ext}.
func ArtifactFilename(kind, runID, ext string) string {
	return kind + "_" + runID + "." + ext
}

// Solution table column headers, as written to the workbook.
var solutionColumns = []string{"Solution", "License Cost", "Development Cost", "User License Cost", "Total Cost"}

// SolutionsTable converts cost rows into a workbook table with numeric cells.
func SolutionsTable(rows []SolutionCostRow) Table {
	t := Table{
		Name:    "Solutions",
		Columns: append([]string(nil), solutionColumns...),
		Rows:    make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.Technology,
			r.LicenseCost.InexactFloat64(),
			r.DevCost.InexactFloat64(),
			r.UserLicenseCost.InexactFloat64(),
			r.TotalCost.InexactFloat64(),
		})
	}
	return t
}

// InputsTable lists the request inputs as Field/Value rows.
func InputsTable(in RunInputs) Table {
	t := Table{
		Name:    "Inputs",
		Columns: []string{"Field", "Value"},
	}
	for _, lv := range InputsDisplay(in) {
		var v any = lv.Value
		if lv.Label == "Headcount" {
			v = in.Headcount
		}
		t.Rows = append(t.Rows, []any{lv.Label, v})
	}
	return t
}

// InputsDisplay renders the request inputs for the summary document.
func InputsDisplay(in RunInputs) []LabeledValue {
	techs := "None"
	if len(in.SelectedTechs) > 0 {
		techs = strings.Join(in.SelectedTechs, ", ")
	}
	return []LabeledValue{
		{Label: "Headcount", Value: strconv.Itoa(in.Headcount)},
		{Label: "Region", Value: in.Region},
		{Label: "HC Category", Value: in.HCCategory},
		{Label: "Process Type", Value: in.ProcessType},
		{Label: "Transformation Scale", Value: in.TransformScale},
		{Label: "Technologies", Value: techs},
	}
}

// SummaryDisplay renders the financial summary. Savings are shown as a
// negative amount; payback is listed only when defined and non-zero.
func SummaryDisplay(s FinancialSummary) []LabeledValue {
	out := []LabeledValue{
		{Label: "Annual Labor", Value: FormatMoney(s.HeadcountCost)},
		{Label: "Annual Savings", Value: FormatMoney(s.AnnualSavings.Neg())},
		{Label: "Annual Tooling", Value: FormatMoney(s.TechCost)},
		{Label: "Implementation", Value: FormatMoney(s.ImplementationCost)},
		{Label: "Net Annual Cost", Value: FormatMoney(s.NetAnnualCost)},
	}
	if s.PaybackYears.Valid && !s.PaybackYears.Decimal.IsZero() {
		out = append(out, LabeledValue{Label: "Payback (years)", Value: FormatYears(s.PaybackYears)})
	}
	return out
}

// ExportWorkbook builds the results workbook for an estimate.
func ExportWorkbook(est Estimate, meta RunMetadata) (Artifact, error) {
	data, err := GenerateWorkbook([]Table{SolutionsTable(est.Rows), InputsTable(est.Inputs)}, meta)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Filename:    ArtifactFilename(ResultsArtifactKind, meta.RunID, "xlsx"),
		ContentType: MIMETypeXLSX,
		Data:        data,
	}, nil
}

// ExportSummaryPDF builds the printable summary for an estimate.
func ExportSummaryPDF(est Estimate, meta RunMetadata) (Artifact, error) {
	data, err := GenerateSummaryPDF(meta, InputsDisplay(est.Inputs), est.Rows, SummaryDisplay(est.Summary))
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Filename:    ArtifactFilename(SummaryArtifactKind, meta.RunID, "pdf"),
		ContentType: MIMETypePDF,
		Data:        data,
	}, nil
}
