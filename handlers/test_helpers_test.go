package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"rfpsimulator/services"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.Request = req
	e.Response = rec
	return e
}

// newFormRequest builds a POST request carrying form values.
func newFormRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// sampleForm is the form posted by the "Sample Data" action.
func sampleForm() url.Values {
	return url.Values{
		fieldHeadcount:      {"25"},
		fieldRegion:         {"North America"},
		fieldHCCategory:     {"Ops"},
		fieldProcessType:    {"Claims"},
		fieldTransformScale: {"Large"},
		fieldTechs:          {"RPA", "AI"},
	}
}

func newTestCalculator(t *testing.T) *services.Calculator {
	t.Helper()

	rates, err := services.DefaultRateTables()
	if err != nil {
		t.Fatalf("DefaultRateTables() error = %v", err)
	}
	return services.NewCalculator(rates)
}
