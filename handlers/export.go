package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"rfpsimulator/services"
)

// now is replaced in tests.
var now = time.Now

// writeAttachment sends an artifact as a file download.
func writeAttachment(e *core.RequestEvent, art services.Artifact) error {
	e.Response.Header().Set("Content-Type", art.ContentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, art.Filename))
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(art.Data)
	return err
}

// HandleEstimateExportExcel returns a handler that computes an estimate and
// downloads it as an Excel workbook.
func HandleEstimateExportExcel(calc *services.Calculator, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		log := requestLogger(e, logger)

		est, ok, err := readEstimate(e, calc, log)
		if !ok {
			return err
		}

		meta := services.NewRunMetadata(now())
		art, err := services.ExportWorkbook(est, meta)
		if err != nil {
			log.Error("export_excel: failed to generate", zap.String("run_id", meta.RunID), zap.Error(err))
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		log.Info("export_excel: generated", zap.String("run_id", meta.RunID), zap.Int("bytes", len(art.Data)))
		return writeAttachment(e, art)
	}
}

// HandleEstimateExportPDF returns a handler that computes an estimate and
// downloads the printable PDF summary.
func HandleEstimateExportPDF(calc *services.Calculator, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		log := requestLogger(e, logger)

		est, ok, err := readEstimate(e, calc, log)
		if !ok {
			return err
		}

		meta := services.NewRunMetadata(now())
		art, err := services.ExportSummaryPDF(est, meta)
		if err != nil {
			log.Error("export_pdf: failed to generate", zap.String("run_id", meta.RunID), zap.Error(err))
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate PDF file")
		}

		log.Info("export_pdf: generated", zap.String("run_id", meta.RunID), zap.Int("bytes", len(art.Data)))
		return writeAttachment(e, art)
	}
}
