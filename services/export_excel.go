package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	// maxSheetNameLen is the longest sheet name Excel accepts.
	maxSheetNameLen = 31
	metaSheetName   = "Meta"
)

// GenerateWorkbook writes one sheet per table, in order, followed by a
// "Meta" sheet holding the run metadata as Key/Value rows. Numeric cells are
// written as numbers, not formatted strings.
func GenerateWorkbook(tables []Table, meta RunMetadata) ([]byte, error) {
	sheetNames, err := checkTables(tables)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	// ── Styles ──────────────────────────────────────────────────────────

	// Column header style: bold, white text, charcoal background, centered.
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, xlsxError("create header style", err)
	}

	// Amount style: thousands separator, no decimals. The cell keeps its raw value.
	amountStyle, err := f.NewStyle(&excelize.Style{
		NumFmt: 3, // #,##0
		Border: thinBorders(),
	})
	if err != nil {
		return nil, xlsxError("create amount style", err)
	}

	textStyle, err := f.NewStyle(&excelize.Style{
		Border: thinBorders(),
	})
	if err != nil {
		return nil, xlsxError("create text style", err)
	}

	// ── Sheets ──────────────────────────────────────────────────────────

	styles := sheetStyles{header: headerStyle, amount: amountStyle, text: textStyle}
	defaultSheet := f.GetSheetName(0)

	for i, t := range tables {
		name := sheetNames[i]
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return nil, xlsxError("set sheet name "+name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, xlsxError("create sheet "+name, err)
		}
		if err := writeTable(f, name, t.Columns, t.Rows, styles); err != nil {
			return nil, err
		}
	}

	metaRows := make([][]any, 0, 2)
	for _, kv := range meta.Pairs() {
		metaRows = append(metaRows, []any{kv.Label, kv.Value})
	}
	if len(tables) == 0 {
		if err := f.SetSheetName(defaultSheet, metaSheetName); err != nil {
			return nil, xlsxError("set sheet name "+metaSheetName, err)
		}
	} else if _, err := f.NewSheet(metaSheetName); err != nil {
		return nil, xlsxError("create sheet "+metaSheetName, err)
	}
	if err := writeTable(f, metaSheetName, []string{"Key", "Value"}, metaRows, styles); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, xlsxError("write workbook", err)
	}

	return buf.Bytes(), nil
}

type sheetStyles struct {
	header, amount, text int
}

// writeTable writes a header row at row 1 and the data rows below it.
func writeTable(f *excelize.File, sheet string, columns []string, rows [][]any, styles sheetStyles) error {
	for i, h := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return xlsxError("header cell", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return xlsxError("write header "+h, err)
		}

		width := float64(len(h) + 4)
		if width < 14 {
			width = 14
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, colName, colName, width); err != nil {
			return xlsxError("set col width "+colName, err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, styles.header); err != nil {
		return xlsxError("style header", err)
	}

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return xlsxError("data cell", err)
			}

			style := styles.text
			switch val := v.(type) {
			case string:
				v = sanitizeExcelCell(val)
			case float64, float32, int, int64:
				style = styles.amount
			}

			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return xlsxError("write "+sheet+"!"+cell, err)
			}
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return xlsxError("style "+sheet+"!"+cell, err)
			}
		}
	}

	return nil
}

// checkTables verifies every table is rectangular and returns the sheet name
// for each one, truncated to the Excel limit.
func checkTables(tables []Table) ([]string, error) {
	names := make([]string, len(tables))
	seen := map[string]bool{metaSheetName: true}

	for i, t := range tables {
		name := truncateSheetName(t.Name)
		if name == "" {
			return nil, &ExportError{Format: "xlsx", Reason: fmt.Sprintf("table %d has no name", i+1)}
		}
		if seen[name] {
			return nil, &ExportError{Format: "xlsx", Reason: fmt.Sprintf("duplicate sheet name %q", name)}
		}
		seen[name] = true

		if len(t.Columns) == 0 {
			return nil, &ExportError{Format: "xlsx", Reason: fmt.Sprintf("table %q has no columns", t.Name)}
		}
		for r, row := range t.Rows {
			if len(row) != len(t.Columns) {
				return nil, &ExportError{
					Format: "xlsx",
					Reason: fmt.Sprintf("table %q row %d has %d cells, want %d", t.Name, r+1, len(row), len(t.Columns)),
				}
			}
		}
		names[i] = name
	}

	return names, nil
}

// truncateSheetName cuts a name to the maximum sheet name length in characters.
func truncateSheetName(name string) string {
	runes := []rune(name)
	if len(runes) > maxSheetNameLen {
		return string(runes[:maxSheetNameLen])
	}
	return name
}

func xlsxError(reason string, err error) error {
	return &ExportError{Format: "xlsx", Reason: reason, Err: err}
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
