package catalog

import (
	"strings"
)

// Dimension describes one filterable attribute of a product. A product may
// carry several values for a dimension (sizes, colors, tags).
type Dimension struct {
	Name   string
	Values func(p *Product) []string
}

func field(get func(p *Product) string) func(p *Product) []string {
	return func(p *Product) []string {
		v := get(p)
		if v == "" {
			return nil
		}
		return []string{v}
	}
}

var (
	DimensionCategory    = Dimension{Name: "category", Values: field(func(p *Product) string { return p.Category })}
	DimensionBrand       = Dimension{Name: "brand", Values: field(func(p *Product) string { return p.Brand })}
	DimensionSubcategory = Dimension{Name: "subcategory", Values: field(func(p *Product) string { return p.Subcategory })}
	DimensionTechnology  = Dimension{Name: "technology", Values: field(func(p *Product) string { return p.Technology })}
	DimensionSeason      = Dimension{Name: "season", Values: field(func(p *Product) string { return p.Season })}
	DimensionActivity    = Dimension{Name: "activity", Values: field(func(p *Product) string { return p.Activity })}
	DimensionGender      = Dimension{Name: "gender", Values: field(func(p *Product) string { return p.Gender })}
	DimensionSize        = Dimension{Name: "size", Values: func(p *Product) []string { return p.Sizes }}
	DimensionColor       = Dimension{Name: "color", Values: func(p *Product) []string { return p.Colors }}
	DimensionTag         = Dimension{Name: "tag", Values: func(p *Product) []string { return p.Tags }}
)

// AllDimensions lists every dimension the pipeline understands
var AllDimensions = []Dimension{
	DimensionCategory,
	DimensionBrand,
	DimensionSubcategory,
	DimensionTechnology,
	DimensionSeason,
	DimensionActivity,
	DimensionGender,
	DimensionSize,
	DimensionColor,
	DimensionTag,
}

// PriceRange is inclusive on both ends
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports min <= price <= max
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// Criteria is the active filter set and sort key of a listing
type Criteria struct {
	Selections map[string][]string
	PriceRange *PriceRange
	Query      string
	Sort       SortKey
}

// Select returns a copy of c with values selected for the named dimension
func (c Criteria) Select(dimension string, values ...string) Criteria {
	next := make(map[string][]string, len(c.Selections)+1)
	for k, v := range c.Selections {
		next[k] = v
	}
	next[dimension] = append(append([]string(nil), next[dimension]...), values...)
	c.Selections = next
	return c
}

// Active reports whether any predicate is set
func (c Criteria) Active() bool {
	for _, values := range c.Selections {
		if len(normalizeValues(values)) > 0 {
			return true
		}
	}
	return c.PriceRange != nil || strings.TrimSpace(c.Query) != ""
}

// Filter keeps the products that satisfy every active predicate. Within a
// dimension any selected value matches; selections for dimensions not in dims
// are ignored. The input slice is not modified.
func Filter(products []Product, c Criteria, dims []Dimension) []Product {
	type active struct {
		dim      Dimension
		selected map[string]struct{}
	}

	var predicates []active
	for _, dim := range dims {
		values := normalizeValues(c.Selections[dim.Name])
		if len(values) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		predicates = append(predicates, active{dim: dim, selected: set})
	}

	query := strings.ToLower(strings.TrimSpace(c.Query))

	out := make([]Product, 0, len(products))
	for i := range products {
		p := &products[i]

		if c.PriceRange != nil && !c.PriceRange.Contains(p.Price) {
			continue
		}
		if query != "" && !MatchesQuery(p, query) {
			continue
		}

		ok := true
		for _, pred := range predicates {
			if !matchesAny(pred.dim.Values(p), pred.selected) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, *p)
		}
	}
	return out
}

// MatchesQuery reports whether the lowercased query is a substring of the
// product's name, brand, description, category or any tag
func MatchesQuery(p *Product, query string) bool {
	query = strings.ToLower(query)
	fields := []string{p.Name, p.Brand, p.Description, p.Category}
	fields = append(fields, p.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// FilterAndSort applies every dimension and orders the result by c.Sort
func FilterAndSort(products []Product, c Criteria) []Product {
	out := Filter(products, c, AllDimensions)
	Sort(out, c.Sort)
	return out
}

func matchesAny(values []string, selected map[string]struct{}) bool {
	for _, v := range values {
		if _, ok := selected[normalize(v)]; ok {
			return true
		}
	}
	return false
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func normalizeValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := normalize(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}
