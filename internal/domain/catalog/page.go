package catalog

// Page declares which filter dimensions a listing page exposes. Scope names
// the dimension pinned by the page's route (a brand or category page), if any.
type Page struct {
	Name       string
	Dimensions []Dimension
	Scope      *Dimension
}

var (
	ProductsPage = Page{
		Name:       "products",
		Dimensions: []Dimension{DimensionCategory, DimensionBrand, DimensionGender, DimensionSize, DimensionColor},
	}

	BrandPage = Page{
		Name:  "brand",
		Scope: &DimensionBrand,
		Dimensions: []Dimension{
			DimensionCategory, DimensionSubcategory, DimensionTechnology, DimensionSeason,
			DimensionActivity, DimensionGender, DimensionSize, DimensionColor,
		},
	}

	CategoryPage = Page{
		Name:       "category",
		Scope:      &DimensionCategory,
		Dimensions: []Dimension{DimensionBrand, DimensionSubcategory, DimensionGender, DimensionSize, DimensionColor},
	}
)

// Run filters by the page's dimensions, price range and query, then sorts
func (p Page) Run(products []Product, c Criteria) []Product {
	out := Filter(products, c, p.Dimensions)
	Sort(out, c.Sort)
	return out
}

// Within keeps the products whose scope dimension matches one of values.
// A page without a scope returns products unchanged.
func (p Page) Within(products []Product, values ...string) []Product {
	if p.Scope == nil {
		return products
	}
	return Filter(products, Criteria{}.Select(p.Scope.Name, values...), []Dimension{*p.Scope})
}

// DimensionNames returns the names of the page's dimensions in order
func (p Page) DimensionNames() []string {
	names := make([]string, len(p.Dimensions))
	for i, d := range p.Dimensions {
		names[i] = d.Name
	}
	return names
}

// Has reports whether the page exposes the named dimension
func (p Page) Has(name string) bool {
	for _, d := range p.Dimensions {
		if d.Name == name {
			return true
		}
	}
	return false
}
