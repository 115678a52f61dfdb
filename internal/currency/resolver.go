// Package currency converts amounts between currencies using best-effort
// market rates and user overrides. Resolution never fails: missing data
// degrades to the identity rate.
package currency

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Pivot is the currency every rate-to-pivot is expressed in.
const Pivot = "USD"

// PairTicker formats the market ticker quoting src in dst, e.g. "EURGBP=X".
func PairTicker(src, dst string) string {
	return src + dst + "=X"
}

// Rates maps a ticker (see PairTicker) to its price.
type Rates map[string]decimal.Decimal

// CustomRates maps a currency code to a user-entered rate to USD.
type CustomRates map[string]decimal.Decimal

// Resolve returns the multiplier converting an amount in src into dst.
func Resolve(src, dst string, fetched Rates, custom CustomRates) decimal.Decimal {
	if src == dst {
		return decimal.NewFromInt(1)
	}

	if direct, ok := fetched[PairTicker(src, dst)]; ok && direct.IsPositive() {
		return direct
	}

	toPivotDst := RateToPivot(dst, fetched, custom)
	if toPivotDst.IsZero() {
		return decimal.NewFromInt(1)
	}
	return RateToPivot(src, fetched, custom).Div(toPivotDst)
}

// RateToPivot returns how many USD one unit of c is worth. Custom rates take
// precedence over fetched ones; with neither, the rate is 1.
func RateToPivot(c string, fetched Rates, custom CustomRates) decimal.Decimal {
	if c == Pivot {
		return decimal.NewFromInt(1)
	}
	if r, ok := custom[c]; ok {
		return r
	}
	if r, ok := fetched[PairTicker(c, Pivot)]; ok {
		return r
	}
	return decimal.NewFromInt(1)
}

// NormalizeCode upper-cases and trims a currency code and reports whether it
// is a known ISO 4217 code.
func NormalizeCode(code string) (string, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return "", false
	}
	return c, money.GetCurrency(c) != nil
}
