package services

import (
	"math"
	"math/big"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "$"

// FormatMoney renders an amount rounded to whole units with thousands
// separators, e.g. $1,067,000. Negative amounts keep the sign after the
// symbol ($-450,000).
//
// FormatMoney never fails: nil, NaN, infinities, strings (even numeric ones)
// and anything else that is not a number format as $0.
func FormatMoney(v any) string {
	d, ok := moneyValue(v)
	if !ok {
		d = decimal.Zero
	}
	return CurrencySymbol + humanize.BigComma(d.RoundBank(0).BigInt())
}

// moneyValue coerces v to a decimal, reporting false when v is not numeric.
func moneyValue(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false
		}
		return *n, true
	case decimal.NullDecimal:
		return n.Decimal, n.Valid
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0), true
	case uint32:
		return decimal.NewFromInt(int64(n)), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), true
	case float32:
		return floatValue(float64(n))
	case float64:
		return floatValue(n)
	}
	return decimal.Zero, false
}

func floatValue(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// FormatYears renders a payback period with two decimals, rounding half to
// even like FormatMoney, or "" when absent.
func FormatYears(years decimal.NullDecimal) string {
	if !years.Valid {
		return ""
	}
	return years.Decimal.RoundBank(2).StringFixed(2)
}
