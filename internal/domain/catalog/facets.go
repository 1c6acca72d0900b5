package catalog

import (
	"cmp"
	"slices"
)

// FacetValue is one selectable value and how many products carry it
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Availability counts products by stock state
type Availability struct {
	InStock    int `json:"inStock"`
	OutOfStock int `json:"outOfStock"`
}

// Facets is what a filter sidebar renders for a product set
type Facets struct {
	Dimensions   map[string][]FacetValue `json:"dimensions"`
	PriceRange   *PriceRange             `json:"priceRange,omitempty"`
	Availability Availability            `json:"availability"`
}

// BuildFacets counts values per dimension. Values are merged case-insensitively
// keeping the first spelling seen, and ordered by that spelling.
func BuildFacets(products []Product, dims []Dimension) Facets {
	facets := Facets{Dimensions: make(map[string][]FacetValue, len(dims))}

	for _, dim := range dims {
		index := make(map[string]int)
		var values []FacetValue
		for i := range products {
			seen := make(map[string]struct{})
			for _, v := range dim.Values(&products[i]) {
				key := normalize(v)
				if key == "" {
					continue
				}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}

				if pos, ok := index[key]; ok {
					values[pos].Count++
					continue
				}
				index[key] = len(values)
				values = append(values, FacetValue{Value: v, Count: 1})
			}
		}
		slices.SortFunc(values, func(a, b FacetValue) int {
			return compareNames(a.Value, b.Value)
		})
		if values == nil {
			values = []FacetValue{}
		}
		facets.Dimensions[dim.Name] = values
	}

	for i := range products {
		p := &products[i]
		if facets.PriceRange == nil {
			facets.PriceRange = &PriceRange{Min: p.Price, Max: p.Price}
		} else {
			facets.PriceRange.Min = min(facets.PriceRange.Min, p.Price)
			facets.PriceRange.Max = max(facets.PriceRange.Max, p.Price)
		}

		if p.IsInStock() {
			facets.Availability.InStock++
		} else {
			facets.Availability.OutOfStock++
		}
	}

	return facets
}

// Popular returns the facet values for a dimension, most common first
func (f Facets) Popular(dimension string) []FacetValue {
	values := slices.Clone(f.Dimensions[dimension])
	slices.SortStableFunc(values, func(a, b FacetValue) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return values
}
