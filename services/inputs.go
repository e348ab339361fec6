package services

import (
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cast"
)

// Option lists offered by the input form.
var (
	RegionOptions         = []string{"North America", "EMEA", "APAC", "LATAM"}
	HCCategoryOptions     = []string{"Ops", "Finance", "IT", "HR"}
	ProcessTypeOptions    = []string{"Claims", "Billing", "Enrollment", "Customer Service"}
	TransformScaleOptions = []string{"Small", "Medium", "Large"}
)

// Validation messages shown to the user.
const (
	MsgHeadcountInteger  = "Headcount must be an integer."
	MsgHeadcountPositive = "Headcount must be > 0."
	MsgDropdownsRequired = "All dropdowns are mandatory."
)

// RunInputs is a validated calculation request.
type RunInputs struct {
	Headcount      int      `json:"headcount"`
	Region         string   `json:"region"`
	HCCategory     string   `json:"hcCategory"`
	ProcessType    string   `json:"processType"`
	TransformScale string   `json:"transformScale"`
	SelectedTechs  []string `json:"selectedTechs"`
}

// RawRunInputs carries form values exactly as submitted.
type RawRunInputs struct {
	Headcount      string
	Region         string
	HCCategory     string
	ProcessType    string
	TransformScale string
	Techs          []string
}

// ValidationError lists every problem found in a request, in form order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid inputs: " + strings.Join(e.Messages, " ")
}

// FormOptions describes the choices available to the input form.
type FormOptions struct {
	Regions         []string `json:"regions"`
	HCCategories    []string `json:"hcCategories"`
	ProcessTypes    []string `json:"processTypes"`
	TransformScales []string `json:"transformScales"`
	Technologies    []string `json:"technologies"`
}

func NewFormOptions(rates *RateTables) FormOptions {
	return FormOptions{
		Regions:         append([]string(nil), RegionOptions...),
		HCCategories:    append([]string(nil), HCCategoryOptions...),
		ProcessTypes:    append([]string(nil), ProcessTypeOptions...),
		TransformScales: append([]string(nil), TransformScaleOptions...),
		Technologies:    rates.TechnologyIDs(),
	}
}

// SampleRunInputs returns the demo request used by the "Sample Data" action.
func SampleRunInputs() RunInputs {
	return RunInputs{
		Headcount:      25,
		Region:         "North America",
		HCCategory:     "Ops",
		ProcessType:    "Claims",
		TransformScale: "Large",
		SelectedTechs:  []string{"RPA", "AI"},
	}
}

// parseHeadcount accepts any numeric string and truncates it to an integer.
func parseHeadcount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// ParseRunInputs converts raw form values into RunInputs. All problems are
// collected into a single *ValidationError.
func ParseRunInputs(raw RawRunInputs, rates *RateTables) (RunInputs, error) {
	in := RunInputs{
		Region:         strings.TrimSpace(raw.Region),
		HCCategory:     strings.TrimSpace(raw.HCCategory),
		ProcessType:    strings.TrimSpace(raw.ProcessType),
		TransformScale: strings.TrimSpace(raw.TransformScale),
		SelectedTechs:  raw.Techs,
	}

	var messages []string
	hc, ok := parseHeadcount(raw.Headcount)
	if !ok {
		messages = append(messages, MsgHeadcountInteger)
	} else {
		in.Headcount = hc
		if msg := validateHeadcount(hc); msg != "" {
			messages = append(messages, msg)
		}
	}
	messages = append(messages, validateSelections(in, rates)...)

	if len(messages) > 0 {
		return RunInputs{}, &ValidationError{Messages: messages}
	}
	in.SelectedTechs = orderedSelection(in.SelectedTechs, rates)
	return in, nil
}

// ValidateRunInputs checks already-typed inputs and returns a normalized copy
// with technologies de-duplicated and in catalog order.
func ValidateRunInputs(in RunInputs, rates *RateTables) (RunInputs, error) {
	var messages []string
	if msg := validateHeadcount(in.Headcount); msg != "" {
		messages = append(messages, msg)
	}
	messages = append(messages, validateSelections(in, rates)...)
	if len(messages) > 0 {
		return RunInputs{}, &ValidationError{Messages: messages}
	}

	out := in
	out.SelectedTechs = orderedSelection(in.SelectedTechs, rates)
	return out, nil
}

func validateHeadcount(hc int) string {
	err := validation.Validate(hc,
		validation.Required.Error(MsgHeadcountPositive),
		validation.Min(1).Error(MsgHeadcountPositive),
	)
	if err != nil {
		return err.Error()
	}
	return ""
}

// validateSelections checks the four dropdowns and the technology list.
func validateSelections(in RunInputs, rates *RateTables) []string {
	var messages []string

	if in.Region == "" || in.HCCategory == "" || in.ProcessType == "" || in.TransformScale == "" {
		messages = append(messages, MsgDropdownsRequired)
	}

	fields := []struct {
		label   string
		value   string
		options []string
	}{
		{"Region", in.Region, RegionOptions},
		{"HC Category", in.HCCategory, HCCategoryOptions},
		{"Process Type", in.ProcessType, ProcessTypeOptions},
		{"Transformation Scale", in.TransformScale, TransformScaleOptions},
	}
	for _, f := range fields {
		err := validation.Validate(f.value,
			validation.In(toAny(f.options)...).Error(f.label+" must be one of: "+strings.Join(f.options, ", ")+"."),
		)
		if err != nil {
			messages = append(messages, err.Error())
		}
	}

	known := validation.In(toAny(rates.TechnologyIDs())...)
	for _, id := range in.SelectedTechs {
		if err := validation.Validate(id, validation.Required, known); err != nil {
			messages = append(messages, "Unknown technology: "+id+".")
		}
	}

	return messages
}

// orderedSelection returns the selected ids in catalog order without duplicates.
func orderedSelection(selected []string, rates *RateTables) []string {
	set := make(map[string]bool, len(selected))
	for _, id := range selected {
		set[id] = true
	}
	out := make([]string, 0, len(set))
	for _, id := range rates.TechnologyIDs() {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
