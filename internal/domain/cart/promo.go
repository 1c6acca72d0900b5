package cart

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/pkg/money"
)

var ErrInvalidPromoCode = errors.New("invalid promo code")

// PromoBook is the allow-list of promo codes. Every code grants the same
// rate off the subtotal.
type PromoBook struct {
	codes map[string]struct{}
	rate  decimal.Decimal
}

// NewPromoBook creates a book; codes are matched case-insensitively
func NewPromoBook(codes []string, rate decimal.Decimal) *PromoBook {
	b := &PromoBook{codes: make(map[string]struct{}, len(codes)), rate: rate}
	for _, c := range codes {
		if c = canonicalCode(c); c != "" {
			b.codes[c] = struct{}{}
		}
	}
	return b
}

// PromoBookFromConfig builds the configured allow-list
func PromoBookFromConfig(cfg config.CartConfig) *PromoBook {
	return NewPromoBook(cfg.PromoCodes, decimal.NewFromFloat(cfg.PromoRate))
}

// Valid reports whether code is on the list
func (b *PromoBook) Valid(code string) bool {
	_, ok := b.codes[canonicalCode(code)]
	return ok
}

// Quote is a summary with an optional promo discount applied
type Quote struct {
	Summary   Summary         `json:"summary"`
	PromoCode string          `json:"promoCode,omitempty"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

// Quote prices the items with code applied. A blank code quotes without a
// discount. An unknown code returns ErrInvalidPromoCode along with the
// undiscounted quote.
func (b *PromoBook) Quote(items []LineItem, rules PricingRules, code string) (Quote, error) {
	sum := ComputeSummary(items, rules)
	q := Quote{Summary: sum, Discount: decimal.Zero, Total: sum.Total}

	code = canonicalCode(code)
	if code == "" {
		return q, nil
	}
	if !b.Valid(code) {
		return q, ErrInvalidPromoCode
	}

	q.PromoCode = code
	q.Discount = money.Percent(sum.Subtotal, b.rate)
	q.Total = sum.Total.Sub(q.Discount)
	return q, nil
}

func canonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
