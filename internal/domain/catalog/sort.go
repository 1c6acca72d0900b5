package catalog

import (
	"cmp"
	"slices"
	"strings"
)

// SortKey selects the listing order
type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortRating     SortKey = "rating"
	SortPriceLow   SortKey = "price-low"
	SortPriceHigh  SortKey = "price-high"
	SortNewest     SortKey = "newest"
	SortDiscount   SortKey = "discount"
	SortNameAZ     SortKey = "name-az"
	SortNameZA     SortKey = "name-za"
)

// SortKeys lists the supported keys, default first
func SortKeys() []SortKey {
	return []SortKey{SortPopularity, SortRating, SortPriceLow, SortPriceHigh, SortNewest, SortDiscount, SortNameAZ, SortNameZA}
}

// Valid reports whether k is a supported key
func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys(), k)
}

// ParseSortKey maps unknown or empty input to popularity
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return SortPopularity
	}
	return k
}

// Comparator returns the total order for key. Equal primary keys fall back
// to ascending product id.
func Comparator(key SortKey) func(a, b Product) int {
	primary := primaryComparator(ParseSortKey(string(key)))
	return func(a, b Product) int {
		if c := primary(&a, &b); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
}

// Sort orders products in place
func Sort(products []Product, key SortKey) {
	slices.SortStableFunc(products, Comparator(key))
}

func primaryComparator(key SortKey) func(a, b *Product) int {
	switch key {
	case SortPriceLow:
		return func(a, b *Product) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceHigh:
		return func(a, b *Product) int { return cmp.Compare(b.Price, a.Price) }
	case SortRating:
		return func(a, b *Product) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortNewest:
		return func(a, b *Product) int {
			if a.IsNew != b.IsNew {
				if a.IsNew {
					return -1
				}
				return 1
			}
			return cmp.Compare(b.ID, a.ID)
		}
	case SortDiscount:
		return func(a, b *Product) int { return cmp.Compare(b.DiscountPercentage(), a.DiscountPercentage()) }
	case SortNameAZ:
		return func(a, b *Product) int { return compareNames(a.Name, b.Name) }
	case SortNameZA:
		return func(a, b *Product) int { return compareNames(b.Name, a.Name) }
	default:
		return func(a, b *Product) int { return cmp.Compare(b.Reviews, a.Reviews) }
	}
}

func compareNames(a, b string) int {
	if c := cmp.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}
