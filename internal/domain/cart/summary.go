package cart

import (
	"github.com/shopspring/decimal"

	"github.com/your-org/storefront/internal/pkg/money"
)

// Summary is derived from the items on demand and never stored
type Summary struct {
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

// ComputeSummary totals the items. Shipping is waived only when the subtotal
// is strictly above the threshold; tax is rounded to cents.
func ComputeSummary(items []LineItem, rules PricingRules) Summary {
	var sum Summary
	for _, it := range items {
		sum.ItemCount += it.Quantity
		sum.Subtotal = sum.Subtotal.Add(money.FromFloat(it.TotalPrice))
	}

	sum.Shipping = rules.ShippingFee
	if sum.Subtotal.GreaterThan(rules.FreeShippingThreshold) {
		sum.Shipping = decimal.Zero
	}

	sum.Tax = money.Percent(sum.Subtotal, rules.TaxRate)
	sum.Total = sum.Subtotal.Add(sum.Shipping).Add(sum.Tax)
	return sum
}
