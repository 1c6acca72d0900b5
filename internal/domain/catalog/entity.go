// internal/domain/catalog/entity.go
package catalog

import (
	"encoding/json"
	"strings"

	"github.com/your-org/storefront/internal/pkg/money"
)

// Document is the static catalog fixture
type Document struct {
	Products        []Product         `json:"products"`
	Brands          []Brand           `json:"brands"`
	Categories      []Category        `json:"categories"`
	Reviews         []Review          `json:"reviews"`
	RelatedProducts []Product         `json:"relatedProducts"`
	HeroOffers      []json.RawMessage `json:"heroOffers"`
	TrendingDeals   []Product         `json:"trendingDeals"`
	Testimonials    []json.RawMessage `json:"testimonials"`
}

// Product is a catalog entry. Prices are in store currency units.
type Product struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Brand         string   `json:"brand"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory,omitempty"`
	Technology    string   `json:"technology,omitempty"`
	Season        string   `json:"season,omitempty"`
	Activity      string   `json:"activity,omitempty"`
	Gender        string   `json:"gender,omitempty"`
	Description   string   `json:"description,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice,omitempty"`
	Discount      int      `json:"discount,omitempty"` // percentage
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"` // review count
	Image         string   `json:"image"`
	Images        []string `json:"images,omitempty"`
	Sizes         []string `json:"size,omitempty"`
	Colors        []string `json:"colors,omitempty"`
	StockQuantity *int     `json:"stockQuantity,omitempty"`
	InStock       *bool    `json:"inStock,omitempty"`
	IsNew         bool     `json:"isNew,omitempty"`
	SKU           string   `json:"sku,omitempty"`
}

// Brand represents a brand listing entry
type Brand struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
	Image       string `json:"image,omitempty"`
	Country     string `json:"country,omitempty"`
	Featured    bool   `json:"featured,omitempty"`
}

// Category represents a category listing entry
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Review is a customer review of a product
type Review struct {
	ID        int     `json:"id"`
	ProductID int     `json:"productId"`
	User      string  `json:"user"`
	Rating    float64 `json:"rating"`
	Title     string  `json:"title,omitempty"`
	Comment   string  `json:"comment"`
	Date      string  `json:"date,omitempty"`
	Verified  bool    `json:"verified,omitempty"`
}

// IsInStock reports availability; products that do not declare it are in stock
func (p *Product) IsInStock() bool {
	if p.StockQuantity != nil && *p.StockQuantity <= 0 {
		return false
	}
	return p.InStock == nil || *p.InStock
}

// DeclaredStock returns the stock quantity when the product declares one
func (p *Product) DeclaredStock() (int, bool) {
	if p.StockQuantity == nil {
		return 0, false
	}
	return *p.StockQuantity, true
}

// DiscountPercentage returns the declared discount, else derives it from originalPrice
func (p *Product) DiscountPercentage() int {
	if p.Discount > 0 {
		return p.Discount
	}
	return money.DiscountPercent(p.OriginalPrice, p.Price)
}

// Slugify lowercases a name and joins its words with dashes
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// normalize fills derived fields the fixture may omit
func (d *Document) normalize() {
	for i := range d.Brands {
		if d.Brands[i].Slug == "" {
			d.Brands[i].Slug = Slugify(d.Brands[i].Name)
		}
	}
	for i := range d.Categories {
		if d.Categories[i].Slug == "" {
			d.Categories[i].Slug = Slugify(d.Categories[i].Name)
		}
	}
}
