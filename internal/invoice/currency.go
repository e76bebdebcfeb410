package invoice

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	GBP Currency = "GBP"
)

// euroRates are fixed multipliers into EUR
var euroRates = map[Currency]decimal.Decimal{
	EUR: decimal.NewFromInt(1),
	USD: decimal.RequireFromString("0.97"),
	GBP: decimal.RequireFromString("1.20"),
}

var amountRe = regexp.MustCompile(`[\d.,]+`)

// DetectCurrency infers the currency of a raw amount. Amounts without a
// dollar or pound marker are taken as EUR.
func DetectCurrency(raw string) Currency {
	switch {
	case strings.Contains(raw, "$") || strings.Contains(raw, "USD"):
		return USD
	case strings.Contains(raw, "£") || strings.Contains(raw, "GBP"):
		return GBP
	default:
		return EUR
	}
}

// ParseAmount extracts the first numeric token of raw. Commas are read as
// decimal separators. Unlike a plain comma-to-dot swap, when that leaves
// several dots all but the last are dropped as thousands separators, so
// "$1,000.00" reads as 1000.00 rather than failing.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	token := amountRe.FindString(raw)
	if token == "" {
		return decimal.Zero, false
	}
	if strings.Contains(token, ",") {
		token = strings.ReplaceAll(token, ",", ".")
		if last := strings.LastIndex(token, "."); strings.Count(token, ".") > 1 {
			token = strings.ReplaceAll(token[:last], ".", "") + token[last:]
		}
	}
	amount, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// NormalizeTotal converts a raw amount to EUR rounded to two decimals.
// Anything that cannot be read yields 0.
func NormalizeTotal(raw *string) float64 {
	if raw == nil {
		return 0
	}
	amount, ok := ParseAmount(*raw)
	if !ok {
		return 0
	}
	eur := amount.Mul(euroRates[DetectCurrency(*raw)]).Round(2).InexactFloat64()
	if math.IsInf(eur, 0) || math.IsNaN(eur) {
		return 0
	}
	return eur
}
