package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"rfpsimulator/services"
)

// Form field names accepted by the estimate endpoints.
const (
	fieldHeadcount      = "headcount"
	fieldRegion         = "region"
	fieldHCCategory     = "hc_category"
	fieldProcessType    = "process_type"
	fieldTransformScale = "transform_scale"
	fieldTechs          = "techs"
)

// displayRow is a cost table row with every amount formatted for display.
type displayRow struct {
	Solution    string `json:"solution"`
	License     string `json:"license"`
	Dev         string `json:"dev"`
	UserLicense string `json:"userLicense"`
	Total       string `json:"total"`
}

type estimateResponse struct {
	Inputs         services.RunInputs         `json:"inputs"`
	Rows           []services.SolutionCostRow `json:"rows"`
	Summary        services.FinancialSummary  `json:"summary"`
	InputsDisplay  []services.LabeledValue    `json:"inputsDisplay"`
	RowsDisplay    []displayRow               `json:"rowsDisplay"`
	SummaryDisplay []services.LabeledValue    `json:"summaryDisplay"`
}

func newEstimateResponse(est services.Estimate) estimateResponse {
	rows := make([]displayRow, 0, len(est.Rows))
	for _, r := range est.Rows {
		rows = append(rows, displayRow{
			Solution:    r.Technology,
			License:     services.FormatMoney(r.LicenseCost),
			Dev:         services.FormatMoney(r.DevCost),
			UserLicense: services.FormatMoney(r.UserLicenseCost),
			Total:       services.FormatMoney(r.TotalCost),
		})
	}
	return estimateResponse{
		Inputs:         est.Inputs,
		Rows:           est.Rows,
		Summary:        est.Summary,
		InputsDisplay:  services.InputsDisplay(est.Inputs),
		RowsDisplay:    rows,
		SummaryDisplay: services.SummaryDisplay(est.Summary),
	}
}

// requestLogger tags log lines and the response with a fresh request id.
func requestLogger(e *core.RequestEvent, logger *zap.Logger) *zap.Logger {
	id := uuid.NewString()
	e.Response.Header().Set("X-Request-Id", id)
	return logger.With(zap.String("request_id", id))
}

// readEstimate parses the submitted form and runs the calculator. On failure
// the error response has already been written and ok is false.
func readEstimate(e *core.RequestEvent, calc *services.Calculator, log *zap.Logger) (est services.Estimate, ok bool, err error) {
	if err := e.Request.ParseForm(); err != nil {
		return est, false, ErrorToast(e, http.StatusBadRequest, "Invalid form data")
	}

	raw := services.RawRunInputs{
		Headcount:      e.Request.FormValue(fieldHeadcount),
		Region:         e.Request.FormValue(fieldRegion),
		HCCategory:     e.Request.FormValue(fieldHCCategory),
		ProcessType:    e.Request.FormValue(fieldProcessType),
		TransformScale: e.Request.FormValue(fieldTransformScale),
		Techs:          e.Request.Form[fieldTechs],
	}

	in, err := services.ParseRunInputs(raw, calc.Rates())
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			log.Info("estimate: rejected inputs", zap.Strings("errors", verr.Messages))
			return est, false, ErrorToast(e, http.StatusBadRequest, verr.Messages...)
		}
		log.Error("estimate: parse inputs", zap.Error(err))
		return est, false, ErrorToast(e, http.StatusInternalServerError, "Failed to read inputs")
	}

	est, err = calc.Estimate(in)
	if err != nil {
		log.Error("estimate: calculate", zap.Error(err))
		return est, false, ErrorToast(e, http.StatusInternalServerError, "Failed to calculate estimate")
	}

	return est, true, nil
}

// HandleEstimateOptions returns the dropdown choices and technology list.
func HandleEstimateOptions(calc *services.Calculator) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, services.NewFormOptions(calc.Rates()))
	}
}

// HandleEstimateSample returns the sample inputs used to prefill the form.
func HandleEstimateSample() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, services.SampleRunInputs())
	}
}

// HandleEstimate validates the submitted form and returns the cost table and
// financial summary, raw and formatted.
func HandleEstimate(calc *services.Calculator, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		log := requestLogger(e, logger)

		est, ok, err := readEstimate(e, calc, log)
		if !ok {
			return err
		}

		log.Debug("estimate: computed",
			zap.Int("headcount", est.Inputs.Headcount),
			zap.Strings("techs", est.Inputs.SelectedTechs),
			zap.String("net_annual_cost", est.Summary.NetAnnualCost.String()),
		)
		SetToast(e, "success", "Estimate calculated")
		return e.JSON(http.StatusOK, newEstimateResponse(est))
	}
}
