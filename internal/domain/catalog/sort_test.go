package catalog

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSort_Keys(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []int
	}{
		// 1 and 3 tie on reviews, id breaks the tie
		{SortPopularity, []int{1, 3, 2, 4}},
		{SortRating, []int{2, 1, 3, 4}},
		{SortPriceLow, []int{4, 2, 3, 1}},
		{SortPriceHigh, []int{1, 3, 2, 4}},
		{SortNewest, []int{4, 2, 3, 1}},
		// 3 declares 30%, 1 derives 20% from originalPrice
		{SortDiscount, []int{3, 1, 2, 4}},
		{SortNameAZ, []int{1, 3, 2, 4}},
		{SortNameZA, []int{4, 2, 3, 1}},
		{SortKey("bogus"), []int{1, 3, 2, 4}},
		{SortKey(""), []int{1, 3, 2, 4}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			products := sampleProducts()
			Sort(products, tt.key)
			assert.Equal(t, tt.want, ids(products))
		})
	}
}

func TestSort_IsDeterministicRegardlessOfInputOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, key := range SortKeys() {
		want := sampleProducts()
		Sort(want, key)

		for i := 0; i < 20; i++ {
			shuffled := sampleProducts()
			rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
			Sort(shuffled, key)
			assert.Equal(t, ids(want), ids(shuffled), "key %s", key)
		}
	}
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPriceHigh, ParseSortKey(" Price-High "))
	assert.Equal(t, SortNameZA, ParseSortKey("name-za"))
	assert.Equal(t, SortPopularity, ParseSortKey("cheapest"))
	assert.Equal(t, SortPopularity, ParseSortKey(""))
}

func TestSortKey_Valid(t *testing.T) {
	for _, k := range SortKeys() {
		assert.True(t, k.Valid())
	}
	assert.False(t, SortKey("price").Valid())
}
