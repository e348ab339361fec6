package services

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed rates.yaml
var defaultRatesYAML []byte

// ErrUnknownTechnology is returned when a technology id is not in the rate tables.
var ErrUnknownTechnology = errors.New("unknown technology")

// TechnologyRate holds the flat and per-seat costs of one technology.
type TechnologyRate struct {
	LicenseCost        decimal.Decimal
	DevCost            decimal.Decimal
	PerUserLicenseCost decimal.Decimal
}

// Assumptions are the fixed constants used by the financial summary.
type Assumptions struct {
	AnnualCostPerFTE  decimal.Decimal
	ImplementationPct decimal.Decimal
	SavingsPct        decimal.Decimal
}

// RateTables is the immutable technology catalog plus calculation assumptions.
// It is built once and safe to share between goroutines.
type RateTables struct {
	assumptions Assumptions
	ids         []string
	rates       map[string]TechnologyRate
}

type rawTechnology struct {
	ID                 string `yaml:"id"`
	LicenseCost        string `yaml:"license_cost"`
	DevCost            string `yaml:"dev_cost"`
	PerUserLicenseCost string `yaml:"per_user_license_cost"`
}

type rawRateTables struct {
	Assumptions struct {
		AnnualCostPerFTE  string `yaml:"annual_cost_per_fte"`
		ImplementationPct string `yaml:"implementation_pct"`
		SavingsPct        string `yaml:"savings_pct"`
	} `yaml:"assumptions"`
	Technologies []rawTechnology `yaml:"technologies"`
}

var loadDefaultRateTables = sync.OnceValues(func() (*RateTables, error) {
	return ParseRateTables(defaultRatesYAML)
})

// DefaultRateTables returns the rate tables embedded in the binary.
func DefaultRateTables() (*RateTables, error) {
	return loadDefaultRateTables()
}

// LoadRateTablesFile reads rate tables from a YAML file on disk.
func LoadRateTablesFile(path string) (*RateTables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rate tables: %w", err)
	}
	return ParseRateTables(data)
}

// ParseRateTables decodes a YAML rate table document. Technologies keep the
// order in which they are declared.
func ParseRateTables(data []byte) (*RateTables, error) {
	var raw rawRateTables
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse rate tables: %w", err)
	}

	var a Assumptions
	var err error
	if a.AnnualCostPerFTE, err = parseAmount("annual_cost_per_fte", raw.Assumptions.AnnualCostPerFTE); err != nil {
		return nil, err
	}
	if a.ImplementationPct, err = parseAmount("implementation_pct", raw.Assumptions.ImplementationPct); err != nil {
		return nil, err
	}
	if a.SavingsPct, err = parseAmount("savings_pct", raw.Assumptions.SavingsPct); err != nil {
		return nil, err
	}

	if len(raw.Technologies) == 0 {
		return nil, errors.New("parse rate tables: no technologies declared")
	}

	rt := &RateTables{
		assumptions: a,
		ids:         make([]string, 0, len(raw.Technologies)),
		rates:       make(map[string]TechnologyRate, len(raw.Technologies)),
	}
	for i, t := range raw.Technologies {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return nil, fmt.Errorf("parse rate tables: technology %d has no id", i+1)
		}
		if _, dup := rt.rates[id]; dup {
			return nil, fmt.Errorf("parse rate tables: duplicate technology %q", id)
		}

		var rate TechnologyRate
		if rate.LicenseCost, err = parseAmount(id+".license_cost", t.LicenseCost); err != nil {
			return nil, err
		}
		if rate.DevCost, err = parseAmount(id+".dev_cost", t.DevCost); err != nil {
			return nil, err
		}
		if rate.PerUserLicenseCost, err = parseAmount(id+".per_user_license_cost", t.PerUserLicenseCost); err != nil {
			return nil, err
		}

		rt.ids = append(rt.ids, id)
		rt.rates[id] = rate
	}

	return rt, nil
}

// parseAmount parses a non-negative decimal value from the rate document.
func parseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("parse rate tables: %s is required", field)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse rate tables: %s: %w", field, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("parse rate tables: %s must not be negative", field)
	}
	return d, nil
}

// Lookup returns the rates for a technology.
func (rt *RateTables) Lookup(id string) (TechnologyRate, error) {
	rate, ok := rt.rates[id]
	if !ok {
		return TechnologyRate{}, fmt.Errorf("%w: %q", ErrUnknownTechnology, id)
	}
	return rate, nil
}

// Has reports whether id is a known technology.
func (rt *RateTables) Has(id string) bool {
	_, ok := rt.rates[id]
	return ok
}

// TechnologyIDs returns all technology ids in declaration order.
func (rt *RateTables) TechnologyIDs() []string {
	out := make([]string, len(rt.ids))
	copy(out, rt.ids)
	return out
}

// Assumptions returns the constants used by the financial summary.
func (rt *RateTables) Assumptions() Assumptions {
	return rt.assumptions
}
