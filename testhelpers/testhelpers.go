// Package testhelpers provides assertions for the files produced by the
// estimate exports.
package testhelpers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// OpenWorkbook parses data as an xlsx workbook and fails the test if it is
// not one. The workbook is closed automatically when the test finishes.
func OpenWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()

	if len(data) == 0 {
		t.Fatal("workbook is empty")
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

// SheetRows returns every row of a sheet, failing the test on error.
func SheetRows(t *testing.T, f *excelize.File, sheet string) [][]string {
	t.Helper()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows(%q) error = %v", sheet, err)
	}
	return rows
}

// RequirePDF fails the test unless data carries a PDF header.
func RequirePDF(t *testing.T, data []byte) {
	t.Helper()

	if !strings.HasPrefix(string(data), "%PDF-") {
		n := min(len(data), 8)
		t.Fatalf("result is not a PDF, starts with %q", string(data[:n]))
	}
}
