package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

// newTestCalculator returns a calculator over the embedded default rates.
func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()

	rates, err := DefaultRateTables()
	if err != nil {
		t.Fatalf("DefaultRateTables() error = %v", err)
	}
	return NewCalculator(rates)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
