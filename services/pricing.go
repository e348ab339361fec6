// Package services provides the cost calculations and spreadsheet/PDF exports
// for RFP estimates.
package services

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TotalsLabel is the Solution value of the synthetic totals row.
const TotalsLabel = "Total Cost"

// SolutionCostRow is one line of the per-technology cost table.
type SolutionCostRow struct {
	Technology      string          `json:"technology"`
	LicenseCost     decimal.Decimal `json:"licenseCost"`
	DevCost         decimal.Decimal `json:"devCost"`
	UserLicenseCost decimal.Decimal `json:"userLicenseCost"`
	TotalCost       decimal.Decimal `json:"totalCost"`
}

// FinancialSummary holds the aggregate figures of an estimate.
// PaybackYears is invalid (absent) when annual savings are not positive.
type FinancialSummary struct {
	HeadcountCost      decimal.Decimal     `json:"headcountCost"`
	ImplementationCost decimal.Decimal     `json:"implementationCost"`
	TechCost           decimal.Decimal     `json:"techCost"`
	AnnualSavings      decimal.Decimal     `json:"annualSavings"`
	NetAnnualCost      decimal.Decimal     `json:"netAnnualCost"`
	PaybackYears       decimal.NullDecimal `json:"paybackYears"`
}

// Calculator turns run inputs into cost tables using a fixed set of rate tables.
type Calculator struct {
	rates *RateTables
}

// NewCalculator returns a Calculator pricing against rates.
func NewCalculator(rates *RateTables) *Calculator {
	return &Calculator{rates: rates}
}

// Rates returns the rate tables the calculator was built with.
func (c *Calculator) Rates() *RateTables {
	return c.rates
}

// selectionSet checks every id against the catalog and returns the set of selected ids.
func (c *Calculator) selectionSet(selected []string) (map[string]bool, error) {
	set := make(map[string]bool, len(selected))
	for _, id := range selected {
		if !c.rates.Has(id) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTechnology, id)
		}
		set[id] = true
	}
	return set, nil
}

// ComputeSolutionTable returns one row per catalog technology, in catalog
// order, followed by a totals row. Unselected technologies cost nothing.
func (c *Calculator) ComputeSolutionTable(headcount int, selected []string) ([]SolutionCostRow, error) {
	set, err := c.selectionSet(selected)
	if err != nil {
		return nil, err
	}

	ids := c.rates.TechnologyIDs()
	rows := make([]SolutionCostRow, 0, len(ids)+1)
	totals := SolutionCostRow{
		Technology:      TotalsLabel,
		LicenseCost:     decimal.Zero,
		DevCost:         decimal.Zero,
		UserLicenseCost: decimal.Zero,
		TotalCost:       decimal.Zero,
	}
	seats := decimal.NewFromInt(int64(headcount))

	for _, id := range ids {
		row := SolutionCostRow{
			Technology:      id,
			LicenseCost:     decimal.Zero,
			DevCost:         decimal.Zero,
			UserLicenseCost: decimal.Zero,
		}
		if set[id] {
			rate, err := c.rates.Lookup(id)
			if err != nil {
				return nil, err
			}
			row.LicenseCost = rate.LicenseCost
			row.DevCost = rate.DevCost
			row.UserLicenseCost = rate.PerUserLicenseCost.Mul(seats)
		}
		row.TotalCost = row.LicenseCost.Add(row.DevCost).Add(row.UserLicenseCost)

		totals.LicenseCost = totals.LicenseCost.Add(row.LicenseCost)
		totals.DevCost = totals.DevCost.Add(row.DevCost)
		totals.UserLicenseCost = totals.UserLicenseCost.Add(row.UserLicenseCost)
		totals.TotalCost = totals.TotalCost.Add(row.TotalCost)

		rows = append(rows, row)
	}

	return append(rows, totals), nil
}

// ComputeFinancialSummary derives labor cost, savings, tooling and payback.
// Tooling only counts the flat license cost of the selected technologies.
func (c *Calculator) ComputeFinancialSummary(headcount int, selected []string) (FinancialSummary, error) {
	set, err := c.selectionSet(selected)
	if err != nil {
		return FinancialSummary{}, err
	}

	a := c.rates.Assumptions()
	headcountCost := decimal.NewFromInt(int64(headcount)).Mul(a.AnnualCostPerFTE)

	techCost := decimal.Zero
	for _, id := range c.rates.TechnologyIDs() {
		if !set[id] {
			continue
		}
		rate, err := c.rates.Lookup(id)
		if err != nil {
			return FinancialSummary{}, err
		}
		techCost = techCost.Add(rate.LicenseCost)
	}

	s := FinancialSummary{
		HeadcountCost:      headcountCost,
		ImplementationCost: headcountCost.Mul(a.ImplementationPct),
		AnnualSavings:      headcountCost.Mul(a.SavingsPct),
		TechCost:           techCost,
	}
	s.NetAnnualCost = s.HeadcountCost.Sub(s.AnnualSavings).Add(s.TechCost)
	if s.AnnualSavings.IsPositive() {
		s.PaybackYears = decimal.NewNullDecimal(s.ImplementationCost.Div(s.AnnualSavings))
	}

	return s, nil
}

// Estimate is the full result of one calculation request.
type Estimate struct {
	Inputs  RunInputs         `json:"inputs"`
	Rows    []SolutionCostRow `json:"rows"`
	Summary FinancialSummary  `json:"summary"`
}

// Estimate runs both calculations for validated inputs.
func (c *Calculator) Estimate(in RunInputs) (Estimate, error) {
	rows, err := c.ComputeSolutionTable(in.Headcount, in.SelectedTechs)
	if err != nil {
		return Estimate{}, fmt.Errorf("solution table: %w", err)
	}
	summary, err := c.ComputeFinancialSummary(in.Headcount, in.SelectedTechs)
	if err != nil {
		return Estimate{}, fmt.Errorf("financial summary: %w", err)
	}
	return Estimate{Inputs: in, Rows: rows, Summary: summary}, nil
}
