package record

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes every formatted amount. The surrounding
// application can change it before rendering; it applies globally so
// a document never mixes symbols.
var CurrencySymbol = "Rs."

var printer = message.NewPrinter(language.English)

// FormatAmount renders a monetary value with group separators and two
// decimal places. It is the single formatting path for every number a
// document prints; sections must not roll their own.
func FormatAmount(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return printer.Sprintf("%.2f", f)
}

// FormatMoney renders an amount with the currency symbol prefix.
func FormatMoney(v decimal.Decimal) string {
	return CurrencySymbol + " " + FormatAmount(v)
}

// FormatQty renders a quantity: whole numbers without decimals,
// fractional quantities with up to two places.
func FormatQty(v decimal.Decimal) string {
	if v.Equal(v.Truncate(0)) {
		return v.Truncate(0).String()
	}
	return v.Round(2).String()
}
