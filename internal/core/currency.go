package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders a monetary value in the Brazilian Real format
// used by the catalog pages, e.g. 29.9 -> "R$ 29,90".
func FormatCurrency(value float64) string {
	fixed := decimal.NewFromFloat(value).StringFixed(2)
	return "R$ " + strings.ReplaceAll(fixed, ".", ",")
}
