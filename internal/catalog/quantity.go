package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseQuantity converts free-form stock text into a decimal quantity.
// Commas are treated as decimal points and any character outside [0-9.]
// is stripped before parsing. Unparseable input yields zero; this never
// returns an error because upstream feeds contain arbitrary text.
func ParseQuantity(raw string) decimal.Decimal {
	cleaned := strings.ReplaceAll(raw, ",", ".")

	var b strings.Builder
	for _, r := range cleaned {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	value, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return value
}

// Available computes the sellable quantity of a product: parsed stock
// minus the reserved counter, clamped at zero when the ledger has
// drifted negative.
func Available(stockQty string, reserved decimal.Decimal) decimal.Decimal {
	available := ParseQuantity(stockQty).Sub(reserved)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}
