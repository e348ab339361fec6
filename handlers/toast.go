package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

// SetToast sets the HX-Trigger response header so an htmx front end can show
// a toast notification. An existing HX-Trigger object is merged, not replaced.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	trigger := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &trigger); err != nil {
			zap.L().Warn("toast: replacing malformed HX-Trigger", zap.String("header", existing), zap.Error(err))
			trigger = map[string]any{}
		}
	}
	trigger["showToast"] = map[string]string{
		"message": message,
		"type":    toastType,
	}

	data, err := json.Marshal(trigger)
	if err != nil {
		zap.L().Error("toast: failed to marshal HX-Trigger", zap.String("message", message), zap.Error(err))
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Errors []string `json:"errors"`
}

// ErrorToast answers with the given messages as JSON and a matching error
// toast. HX-Reswap: none keeps htmx from swapping the body into the page.
func ErrorToast(e *core.RequestEvent, statusCode int, messages ...string) error {
	summary := "Something went wrong. Please try again."
	toastType := "error"
	if statusCode < http.StatusInternalServerError {
		summary = "Please fix the errors below"
		toastType = "warning"
	}
	SetToast(e, toastType, summary)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.JSON(statusCode, errorResponse{Errors: messages})
}
