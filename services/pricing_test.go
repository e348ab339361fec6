package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeSolutionTable_ScenarioA(t *testing.T) {
	calc := newTestCalculator(t)

	rows, err := calc.ComputeSolutionTable(25, []string{"RPA", "AI"})
	if err != nil {
		t.Fatalf("ComputeSolutionTable() error = %v", err)
	}

	want := map[string][4]string{
		"RPA":       {"5000", "20000", "2500", "27500"},
		"VBA":       {"0", "0", "0", "0"},
		"Celonis":   {"0", "0", "0", "0"},
		"Soroco":    {"0", "0", "0", "0"},
		"Analytics": {"0", "0", "0", "0"},
		"AI":        {"12000", "40000", "6250", "58250"},
		TotalsLabel: {"17000", "60000", "8750", "85750"},
	}
	if len(rows) != 7 {
		t.Fatalf("len(rows) = %d, want 7", len(rows))
	}
	for _, r := range rows {
		w, ok := want[r.Technology]
		if !ok {
			t.Errorf("unexpected row %q", r.Technology)
			continue
		}
		got := [4]decimal.Decimal{r.LicenseCost, r.DevCost, r.UserLicenseCost, r.TotalCost}
		for i := range got {
			if !got[i].Equal(dec(w[i])) {
				t.Errorf("%s column %d = %s, want %s", r.Technology, i, got[i], w[i])
			}
		}
	}
	if rows[len(rows)-1].Technology != TotalsLabel {
		t.Errorf("last row = %q, want totals row", rows[len(rows)-1].Technology)
	}
}

func TestComputeSolutionTable_Properties(t *testing.T) {
	calc := newTestCalculator(t)
	ids := calc.Rates().TechnologyIDs()

	selections := [][]string{
		nil,
		{"VBA"},
		{"RPA", "Celonis"},
		{"AI", "Analytics", "Soroco"},
		ids,
	}
	headcounts := []int{1, 7, 25, 1000, 250000}

	for _, sel := range selections {
		for _, hc := range headcounts {
			rows, err := calc.ComputeSolutionTable(hc, sel)
			if err != nil {
				t.Fatalf("ComputeSolutionTable(%d, %v) error = %v", hc, sel, err)
			}
			if len(rows) != len(ids)+1 {
				t.Fatalf("len(rows) = %d, want %d", len(rows), len(ids)+1)
			}

			selected := map[string]bool{}
			for _, id := range sel {
				selected[id] = true
			}

			sum := [4]decimal.Decimal{decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero}
			for i, r := range rows[:len(ids)] {
				if r.Technology != ids[i] {
					t.Errorf("row %d = %q, want catalog order %q", i, r.Technology, ids[i])
				}
				if !selected[r.Technology] {
					if !r.LicenseCost.IsZero() || !r.DevCost.IsZero() || !r.UserLicenseCost.IsZero() {
						t.Errorf("unselected %s has non-zero costs: %+v", r.Technology, r)
					}
				} else {
					rate, _ := calc.Rates().Lookup(r.Technology)
					wantUser := rate.PerUserLicenseCost.Mul(decimal.NewFromInt(int64(hc)))
					if !r.UserLicenseCost.Equal(wantUser) {
						t.Errorf("%s user license = %s, want %s", r.Technology, r.UserLicenseCost, wantUser)
					}
				}
				if !r.TotalCost.Equal(r.LicenseCost.Add(r.DevCost).Add(r.UserLicenseCost)) {
					t.Errorf("%s total %s is not the sum of its parts", r.Technology, r.TotalCost)
				}
				sum[0] = sum[0].Add(r.LicenseCost)
				sum[1] = sum[1].Add(r.DevCost)
				sum[2] = sum[2].Add(r.UserLicenseCost)
				sum[3] = sum[3].Add(r.TotalCost)
			}

			totals := rows[len(rows)-1]
			got := [4]decimal.Decimal{totals.LicenseCost, totals.DevCost, totals.UserLicenseCost, totals.TotalCost}
			for i := range got {
				if !got[i].Equal(sum[i]) {
					t.Errorf("hc=%d sel=%v totals column %d = %s, want %s", hc, sel, i, got[i], sum[i])
				}
			}
		}
	}
}

func TestComputeSolutionTable_Deterministic(t *testing.T) {
	calc := newTestCalculator(t)

	a, _ := calc.ComputeSolutionTable(13, []string{"AI", "RPA"})
	b, _ := calc.ComputeSolutionTable(13, []string{"RPA", "AI", "RPA"})
	for i := range a {
		if a[i].Technology != b[i].Technology || !a[i].TotalCost.Equal(b[i].TotalCost) {
			t.Errorf("row %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestComputeSolutionTable_UnknownTechnology(t *testing.T) {
	calc := newTestCalculator(t)

	_, err := calc.ComputeSolutionTable(10, []string{"RPA", "Quantum"})
	if !errors.Is(err, ErrUnknownTechnology) {
		t.Errorf("error = %v, want ErrUnknownTechnology", err)
	}
}

func TestComputeFinancialSummary_ScenarioB(t *testing.T) {
	calc := newTestCalculator(t)

	s, err := calc.ComputeFinancialSummary(25, []string{"RPA", "AI"})
	if err != nil {
		t.Fatalf("ComputeFinancialSummary() error = %v", err)
	}

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"headcountCost", s.HeadcountCost, "1500000"},
		{"implementationCost", s.ImplementationCost, "300000"},
		{"annualSavings", s.AnnualSavings, "450000"},
		{"techCost", s.TechCost, "17000"},
		{"netAnnualCost", s.NetAnnualCost, "1067000"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}

	if !s.PaybackYears.Valid {
		t.Fatal("PaybackYears should be present")
	}
	if !s.PaybackYears.Decimal.Equal(s.ImplementationCost.Div(s.AnnualSavings)) {
		t.Errorf("PaybackYears = %s, want implementation/savings", s.PaybackYears.Decimal)
	}
	if got := s.PaybackYears.Decimal.Round(2).String(); got != "0.67" {
		t.Errorf("PaybackYears rounded = %s, want 0.67", got)
	}
}

func TestComputeFinancialSummary_ScenarioC(t *testing.T) {
	calc := newTestCalculator(t)

	rows, err := calc.ComputeSolutionTable(10, nil)
	if err != nil {
		t.Fatalf("ComputeSolutionTable() error = %v", err)
	}
	for _, r := range rows {
		if !r.TotalCost.IsZero() || !r.LicenseCost.IsZero() || !r.DevCost.IsZero() || !r.UserLicenseCost.IsZero() {
			t.Errorf("row %s should be all zero: %+v", r.Technology, r)
		}
	}

	s, err := calc.ComputeFinancialSummary(10, nil)
	if err != nil {
		t.Fatalf("ComputeFinancialSummary() error = %v", err)
	}
	if !s.TechCost.IsZero() {
		t.Errorf("TechCost = %s, want 0", s.TechCost)
	}
	if !s.AnnualSavings.Equal(dec("180000")) {
		t.Errorf("AnnualSavings = %s, want 180000", s.AnnualSavings)
	}
	if !s.ImplementationCost.Equal(dec("120000")) {
		t.Errorf("ImplementationCost = %s, want 120000", s.ImplementationCost)
	}
	if got := FormatYears(s.PaybackYears); got != "0.67" {
		t.Errorf("FormatYears(PaybackYears) = %q, want 0.67", got)
	}
}

func TestComputeFinancialSummary_NoSavingsOmitsPayback(t *testing.T) {
	doc := "assumptions:\n  annual_cost_per_fte: \"60000\"\n  implementation_pct: \"0.2\"\n  savings_pct: \"0\"\n" +
		"technologies:\n  - {id: RPA, license_cost: \"5000\", dev_cost: \"20000\", per_user_license_cost: \"100\"}\n"
	rates, err := ParseRateTables([]byte(doc))
	if err != nil {
		t.Fatalf("ParseRateTables() error = %v", err)
	}
	calc := NewCalculator(rates)

	s, err := calc.ComputeFinancialSummary(5, []string{"RPA"})
	if err != nil {
		t.Fatalf("ComputeFinancialSummary() error = %v", err)
	}
	if s.PaybackYears.Valid {
		t.Errorf("PaybackYears = %s, want absent", s.PaybackYears.Decimal)
	}
	if !s.NetAnnualCost.Equal(dec("305000")) {
		t.Errorf("NetAnnualCost = %s, want 305000", s.NetAnnualCost)
	}
	if got := FormatYears(s.PaybackYears); got != "" {
		t.Errorf("FormatYears(absent) = %q, want empty", got)
	}
}

func TestComputeFinancialSummary_NegativeNetCost(t *testing.T) {
	doc := "assumptions:\n  annual_cost_per_fte: \"1000\"\n  implementation_pct: \"0.5\"\n  savings_pct: \"1.5\"\n" +
		"technologies:\n  - {id: X, license_cost: \"100\", dev_cost: \"0\", per_user_license_cost: \"0\"}\n"
	rates, err := ParseRateTables([]byte(doc))
	if err != nil {
		t.Fatalf("ParseRateTables() error = %v", err)
	}

	s, err := NewCalculator(rates).ComputeFinancialSummary(2, []string{"X"})
	if err != nil {
		t.Fatalf("ComputeFinancialSummary() error = %v", err)
	}
	// 2000 - 3000 + 100
	if !s.NetAnnualCost.Equal(dec("-900")) {
		t.Errorf("NetAnnualCost = %s, want -900", s.NetAnnualCost)
	}
}

// Money is fixed-point: amounts that drift in float64 stay exact here, and
// payback carries the decimal package's division precision (16 places).
func TestPrecisionPolicy_FixedPoint(t *testing.T) {
	doc := "assumptions:\n  annual_cost_per_fte: \"0.1\"\n  implementation_pct: \"0.2\"\n  savings_pct: \"0.3\"\n" +
		"technologies:\n  - {id: X, license_cost: \"0.1\", dev_cost: \"0.2\", per_user_license_cost: \"0.1\"}\n"
	rates, err := ParseRateTables([]byte(doc))
	if err != nil {
		t.Fatalf("ParseRateTables() error = %v", err)
	}
	calc := NewCalculator(rates)

	rows, err := calc.ComputeSolutionTable(3, []string{"X"})
	if err != nil {
		t.Fatalf("ComputeSolutionTable() error = %v", err)
	}
	// 0.1 + 0.2 + 0.3 is exactly 0.6, unlike float64.
	if !rows[0].TotalCost.Equal(dec("0.6")) {
		t.Errorf("TotalCost = %s, want exactly 0.6", rows[0].TotalCost)
	}

	s, err := newTestCalculator(t).ComputeFinancialSummary(25, nil)
	if err != nil {
		t.Fatalf("ComputeFinancialSummary() error = %v", err)
	}
	if got := s.PaybackYears.Decimal.String(); got != "0.6666666666666667" {
		t.Errorf("PaybackYears = %s, want 0.6666666666666667", got)
	}
}

func TestEstimate(t *testing.T) {
	calc := newTestCalculator(t)

	est, err := calc.Estimate(SampleRunInputs())
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if len(est.Rows) != 7 {
		t.Errorf("len(Rows) = %d, want 7", len(est.Rows))
	}
	if !est.Summary.NetAnnualCost.Equal(dec("1067000")) {
		t.Errorf("NetAnnualCost = %s, want 1067000", est.Summary.NetAnnualCost)
	}

	bad := SampleRunInputs()
	bad.SelectedTechs = []string{"Nope"}
	if _, err := calc.Estimate(bad); !errors.Is(err, ErrUnknownTechnology) {
		t.Errorf("Estimate(unknown) error = %v, want ErrUnknownTechnology", err)
	}
}
