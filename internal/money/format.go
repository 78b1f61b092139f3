// Package money formats whole-rupee amounts for display and outbound
// messages. The storefront uses a single locale convention: the rupee symbol
// followed by the amount with comma-grouped thousands (₹125,000).
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Symbol is the currency symbol for all storefront prices.
const Symbol = "₹"

var printer = message.NewPrinter(language.English)

// Format renders a whole-rupee amount as the symbol plus the grouped value,
// e.g. 3000 -> "₹3,000". Amounts are integral by contract; any fractional
// part is truncated.
func Format(amount decimal.Decimal) string {
	return Symbol + printer.Sprintf("%d", amount.IntPart())
}
