// internal/pkg/money/money.go
package money

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

var display = accounting.Accounting{Symbol: "$", Precision: 2, Thousand: ",", Decimal: "."}

// FromFloat converts a catalog price to a decimal using its shortest representation
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// Cents rounds to two decimal places, half away from zero
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns base * rate rounded to cents
func Percent(base, rate decimal.Decimal) decimal.Decimal {
	return Cents(base.Mul(rate))
}

// LineTotal returns price * quantity rounded to cents
func LineTotal(price float64, quantity int) float64 {
	return Cents(FromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))).InexactFloat64()
}

// DiscountPercent derives a whole discount percentage from an original and current price
func DiscountPercent(originalPrice, price float64) int {
	if originalPrice <= 0 || price >= originalPrice {
		return 0
	}
	orig := FromFloat(originalPrice)
	return int(orig.Sub(FromFloat(price)).Mul(hundred).Div(orig).IntPart())
}

// Format renders an amount for display, e.g. $1,234.50
func Format(d decimal.Decimal) string {
	return display.FormatMoney(d.InexactFloat64())
}

// FormatFloat renders a float amount for display
func FormatFloat(v float64) string {
	return display.FormatMoney(v)
}
