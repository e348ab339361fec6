package services

import "fmt"

// ExportError reports a workbook or document that could not be produced.
type ExportError struct {
	Format string // "xlsx" or "pdf"
	Reason string
	Err    error
}

func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export %s: %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("export %s: %s", e.Format, e.Reason)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
