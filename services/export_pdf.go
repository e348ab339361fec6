package services

import (
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

const (
	summaryTitle = "RFP Simulator Summary"

	// A4 is 210mm wide; with 15mm side margins a 36 column grid gives 5mm per unit.
	pdfGridSize   = 36
	pdfSideMargin = 15
)

// breakdownColumns are the cost table columns with fixed widths in grid
// units (45, 30, 35, 35 and 35 mm).
var breakdownColumns = []struct {
	header string
	width  int
}{
	{"Solution", 9},
	{"License", 6},
	{"Dev", 7},
	{"User Lic", 7},
	{"Total", 7},
}

// summaryDocument is the content of the summary PDF in page order.
type summaryDocument struct {
	Title    string
	Header   []string
	Sections []docSection
}

// docSection is a heading followed by either label/value lines or a table.
type docSection struct {
	Heading string
	Lines   []string
	Columns []string
	Table   [][]string
}

// buildSummaryDocument lays out the report content. Money cells are
// formatted with FormatMoney.
func buildSummaryDocument(meta RunMetadata, inputs []LabeledValue, rows []SolutionCostRow, summary []LabeledValue) summaryDocument {
	doc := summaryDocument{
		Title: summaryTitle,
		Header: []string{
			"Run ID: " + meta.RunID,
			"Timestamp: " + meta.Timestamp,
		},
	}

	inputSection := docSection{Heading: "Inputs"}
	for _, lv := range inputs {
		inputSection.Lines = append(inputSection.Lines, lv.Label+": "+lv.Value)
	}

	tableSection := docSection{Heading: "Solution Cost Breakdown"}
	for _, c := range breakdownColumns {
		tableSection.Columns = append(tableSection.Columns, c.header)
	}
	for _, r := range rows {
		tableSection.Table = append(tableSection.Table, []string{
			r.Technology,
			FormatMoney(r.LicenseCost),
			FormatMoney(r.DevCost),
			FormatMoney(r.UserLicenseCost),
			FormatMoney(r.TotalCost),
		})
	}

	summarySection := docSection{Heading: "Financial Summary"}
	for _, lv := range summary {
		summarySection.Lines = append(summarySection.Lines, lv.Label+": "+lv.Value)
	}

	doc.Sections = []docSection{inputSection, tableSection, summarySection}
	return doc
}

// GenerateSummaryPDF renders the one-page (or longer, when content overflows)
// summary report and returns the raw PDF bytes.
func GenerateSummaryPDF(meta RunMetadata, inputs []LabeledValue, rows []SolutionCostRow, summary []LabeledValue) ([]byte, error) {
	doc := buildSummaryDocument(meta, inputs, rows, summary)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithMaxGridSize(pdfGridSize).
		WithLeftMargin(pdfSideMargin).
		WithTopMargin(10).
		WithRightMargin(pdfSideMargin).
		Build()

	m := maroto.New(cfg)

	addTitle(m, doc)
	for _, s := range doc.Sections {
		m.AddRows(row.New(4))
		addSectionHeading(m, s.Heading)
		if s.Columns != nil {
			addBreakdownTable(m, s.Columns, s.Table)
			continue
		}
		addLines(m, s.Lines, 10)
	}

	pdf, err := m.Generate()
	if err != nil {
		return nil, &ExportError{Format: "pdf", Reason: "generate document", Err: err}
	}

	return pdf.GetBytes(), nil
}

func addTitle(m core.Maroto, doc summaryDocument) {
	m.AddRows(
		row.New(10).Add(
			col.New(pdfGridSize).Add(
				text.New(doc.Title, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
		),
	)
	addLines(m, doc.Header, 10)
}

func addSectionHeading(m core.Maroto, heading string) {
	m.AddRows(
		row.New(6).Add(
			col.New(pdfGridSize).Add(
				text.New(heading, props.Text{
					Size:  11,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
		),
	)
}

func addLines(m core.Maroto, lines []string, size float64) {
	for _, line := range lines {
		m.AddRows(
			row.New(6).Add(
				col.New(pdfGridSize).Add(
					text.New(line, props.Text{Size: size, Align: align.Left}),
				),
			),
		)
	}
}

// addBreakdownTable renders the bordered cost table with its header row.
func addBreakdownTable(m core.Maroto, columns []string, cells [][]string) {
	cellStyle := &props.Cell{
		BorderType:      border.Full,
		BorderColor:     &props.Color{Red: 0, Green: 0, Blue: 0},
		BorderThickness: 0.2,
	}
	headerText := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left, Left: 1, Top: 1}
	bodyText := props.Text{Size: 9, Align: align.Left, Left: 1, Top: 1}

	header := row.New(6)
	for i, c := range breakdownColumns {
		header = header.Add(col.New(c.width).Add(text.New(columns[i], headerText)).WithStyle(cellStyle))
	}
	m.AddRows(header)

	for _, r := range cells {
		line := row.New(6)
		for i, c := range breakdownColumns {
			value := ""
			if i < len(r) {
				value = r[i]
			}
			line = line.Add(col.New(c.width).Add(text.New(value, bodyText)).WithStyle(cellStyle))
		}
		m.AddRows(line)
	}
}
