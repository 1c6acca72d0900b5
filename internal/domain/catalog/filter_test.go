package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func ids(products []Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func sampleProducts() []Product {
	return []Product{
		{ID: 1, Name: "Air Runner", Brand: "Nike", Category: "Running", Gender: "Men", Price: 120, OriginalPrice: 150, Rating: 4.5, Reviews: 300, Sizes: []string{"9", "10"}, Colors: []string{"Red"}, Tags: []string{"Lightweight"}},
		{ID: 2, Name: "Court Classic", Brand: "Nike", Category: "Tennis", Gender: "Women", Price: 80, Rating: 4.8, Reviews: 120, Sizes: []string{"7"}, Colors: []string{"Blue"}, IsNew: true, Description: "A breathable court shoe"},
		{ID: 3, Name: "boost trail", Brand: "Adidas", Category: "Running", Gender: "Men", Price: 100, Discount: 30, Rating: 4.5, Reviews: 300, Sizes: []string{"10"}, Colors: []string{"Red", "Black"}},
		{ID: 4, Name: "Zen Walker", Brand: "Puma", Category: "Lifestyle", Gender: "Unisex", Price: 60, Rating: 3.9, Reviews: 40, Colors: []string{"White"}, StockQuantity: intPtr(0), IsNew: true},
	}
}

func TestFilter_AndAcrossDimensionsOrWithin(t *testing.T) {
	products := sampleProducts()[:3]

	tests := []struct {
		name     string
		criteria Criteria
		want     []int
	}{
		{"brand and color", Criteria{}.Select("brand", "Nike").Select("color", "Red"), []int{1}},
		{"two brands", Criteria{}.Select("brand", "Nike", "Adidas"), []int{1, 2, 3}},
		{"color only", Criteria{}.Select("color", "Red"), []int{1, 3}},
		{"case insensitive values", Criteria{}.Select("brand", "nIKE"), []int{1, 2}},
		{"blank values ignored", Criteria{}.Select("brand", "", "  "), []int{1, 2, 3}},
		{"unknown value", Criteria{}.Select("brand", "Reebok"), []int{}},
		{"no criteria", Criteria{}, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(products, tt.criteria, AllDimensions)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_PriceRangeIsInclusive(t *testing.T) {
	got := Filter(sampleProducts(), Criteria{PriceRange: &PriceRange{Min: 80, Max: 120}}, AllDimensions)
	assert.Equal(t, []int{1, 2, 3}, ids(got))

	got = Filter(sampleProducts(), Criteria{PriceRange: &PriceRange{Min: 121, Max: 130}}, AllDimensions)
	assert.Empty(t, got)
}

func TestFilter_Query(t *testing.T) {
	tests := []struct {
		query string
		want  []int
	}{
		{"AIR", []int{1}},
		{"adidas", []int{3}},
		{"breathable", []int{2}},
		{"running", []int{1, 3}},
		{"lightweight", []int{1}},
		{"   ", []int{1, 2, 3, 4}},
		{"nothing-matches", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Filter(sampleProducts(), Criteria{Query: tt.query}, AllDimensions)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_IgnoresDimensionsOutsideSet(t *testing.T) {
	c := Criteria{}.Select("technology", "Boost").Select("brand", "Puma")
	got := Filter(sampleProducts(), c, []Dimension{DimensionBrand})
	assert.Equal(t, []int{4}, ids(got))
}

func TestFilterAndSort_DoesNotMutateInput(t *testing.T) {
	products := sampleProducts()
	before := sampleProducts()

	got := FilterAndSort(products, Criteria{Sort: SortPriceLow})
	require.Len(t, got, 4)
	assert.Equal(t, []int{4, 2, 3, 1}, ids(got))

	if diff := cmp.Diff(before, products); diff != "" {
		t.Fatalf("input modified (-want +got):\n%s", diff)
	}
}

func TestCriteria_SelectCopies(t *testing.T) {
	base := Criteria{}.Select("brand", "Nike")
	next := base.Select("brand", "Adidas")

	assert.Equal(t, []string{"Nike"}, base.Selections["brand"])
	assert.Equal(t, []string{"Nike", "Adidas"}, next.Selections["brand"])
}

func TestCriteria_Active(t *testing.T) {
	assert.False(t, Criteria{}.Active())
	assert.False(t, Criteria{}.Select("brand", " ").Active())
	assert.True(t, Criteria{}.Select("brand", "Nike").Active())
	assert.True(t, Criteria{Query: "air"}.Active())
	assert.True(t, Criteria{PriceRange: &PriceRange{Max: 10}}.Active())
}
