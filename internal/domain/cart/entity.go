// internal/domain/cart/entity.go
package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/your-org/storefront/internal/config"
)

// LineItem is one product+size+color combination in the cart. Display fields
// are a snapshot taken when the line was first added.
type LineItem struct {
	CartItemID    string  `json:"cartItemId"`
	ProductID     int     `json:"productId"`
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Category      string  `json:"category"`
	Image         string  `json:"image"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice,omitempty"`
	SelectedSize  string  `json:"selectedSize"`
	SelectedColor string  `json:"selectedColor"`
	Quantity      int     `json:"quantity"`
	MaxQuantity   int     `json:"maxQuantity"`
	TotalPrice    float64 `json:"totalPrice"`
	InStock       bool    `json:"inStock"`
	Discount      int     `json:"discount,omitempty"`
	SKU           string  `json:"sku,omitempty"`
}

// State is the whole cart. Items keep insertion order.
type State struct {
	Items  []LineItem `json:"items"`
	IsOpen bool       `json:"isOpen"`
}

// Clone returns a copy that shares no memory with s
func (s State) Clone() State {
	out := State{IsOpen: s.IsOpen, Items: make([]LineItem, len(s.Items))}
	copy(out.Items, s.Items)
	return out
}

// Find returns the line with the given id
func (s State) Find(cartItemID string) (LineItem, bool) {
	if i := indexOf(s.Items, cartItemID); i >= 0 {
		return s.Items[i], true
	}
	return LineItem{}, false
}

// ItemID builds the deterministic line key from a product id and variant
func ItemID(productID int, size, color string) string {
	return fmt.Sprintf("%d%s%s", productID, size, color)
}

// PricingRules are the constants the summary and stock clamp depend on
type PricingRules struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	TaxRate               decimal.Decimal
	FallbackMaxQuantity   int
}

// DefaultPricingRules returns free shipping above 100, a 9.99 flat fee, 8% tax
// and a stock cap of 10 for products without a declared quantity
func DefaultPricingRules() PricingRules {
	return PricingRules{
		FreeShippingThreshold: decimal.NewFromInt(100),
		ShippingFee:           decimal.RequireFromString("9.99"),
		TaxRate:               decimal.RequireFromString("0.08"),
		FallbackMaxQuantity:   10,
	}
}

// RulesFromConfig converts the configured cart settings
func RulesFromConfig(cfg config.CartConfig) PricingRules {
	return PricingRules{
		FreeShippingThreshold: decimal.NewFromFloat(cfg.FreeShippingThreshold),
		ShippingFee:           decimal.NewFromFloat(cfg.ShippingFee),
		TaxRate:               decimal.NewFromFloat(cfg.TaxRate),
		FallbackMaxQuantity:   cfg.FallbackMaxQuantity,
	}
}

func indexOf(items []LineItem, cartItemID string) int {
	for i := range items {
		if items[i].CartItemID == cartItemID {
			return i
		}
	}
	return -1
}
