package filter_test

import (
	"encoding/json"
	"testing"

	"lavka/internal/catalog"
	"lavka/internal/filter"
	"lavka/internal/models"

	"github.com/stretchr/testify/assert"
)

func shoeProduct(t *testing.T, name string, price float64, style string) models.Product {
	t.Helper()
	payload := `{
		"gender": "Мужской",
		"color": "Чёрный",
		"season": "Лето",
		"availability": "В наличии",
		"purchaseType": "Розница",
		"shoeCategory": "Кроссовки",
		"sizeSystem": "EU",
		"style": "` + style + `"
	}`
	set, err := catalog.DecodeAttributes(models.CategoryShoes, json.RawMessage(payload))
	assert.NoError(t, err)
	return models.Product{
		Name:         name,
		Slug:         name,
		Price:        price,
		CategoryID:   "cat-shoes",
		CategoryType: models.CategoryShoes,
		Brand:        "Runner",
		Country:      "Вьетнам",
		Attributes:   models.AttributeColumn{Set: set},
		Variants: []models.Variant{
			{Type: models.VariantSize, Value: "42"},
			{Type: models.VariantSize, Value: "43"},
		},
		IsActive: true,
	}
}

func TestMatch_AttributeAndPriceRange(t *testing.T) {
	p := shoeProduct(t, "Runner Pro", 4500, "Повседневный")

	// style=Повседневный plus price window [0, 5000] keeps the product.
	state := filter.FilterState{}.
		ToggleAttribute("style", "Повседневный").
		WithPriceRange(0, 5000)
	assert.True(t, filter.Match(p, state))

	// Narrowing the window to [0, 3000] drops it.
	state = state.WithPriceRange(0, 3000)
	assert.False(t, filter.Match(p, state))
}

func TestMatch_PriceRangeMaxZeroIsUnbounded(t *testing.T) {
	p := shoeProduct(t, "Runner Pro", 99999, "Спортивный")
	state := filter.FilterState{}.WithPriceRange(1000, 0)
	assert.True(t, filter.Match(p, state))
}

func TestMatch_AbsentAttributeFailsClosed(t *testing.T) {
	p := shoeProduct(t, "Runner Pro", 4500, "Повседневный")

	// A key outside the SHOES schema never matches, even though the
	// product carries a valid bag.
	state := filter.FilterState{}.ToggleAttribute("lensType", "Солнцезащитные")
	assert.False(t, filter.Match(p, state))

	// A product with no bag at all fails any active attribute filter.
	bare := models.Product{Name: "bare", Price: 100}
	state = filter.FilterState{}.ToggleAttribute("style", "Повседневный")
	assert.False(t, filter.Match(bare, state))
}

func TestMatch_WithinFieldOrAcrossFieldsAnd(t *testing.T) {
	p := shoeProduct(t, "Runner Pro", 4500, "Повседневный")

	// Two values on one key combine with OR.
	state := filter.FilterState{}.WithAttribute("style", "Классический", "Повседневный")
	assert.True(t, filter.Match(p, state))

	// A second field combines with AND.
	state = state.WithBrands("Aviator")
	assert.False(t, filter.Match(p, state))
	state = state.WithBrands("Runner")
	assert.True(t, filter.Match(p, state))
}

func TestMatch_SizeGoesThroughVariants(t *testing.T) {
	p := shoeProduct(t, "Runner Pro", 4500, "Повседневный")
	assert.True(t, filter.Match(p, filter.FilterState{}.WithSizes("43")))
	assert.False(t, filter.Match(p, filter.FilterState{}.WithSizes("45")))
}

func TestMatch_Search(t *testing.T) {
	p := shoeProduct(t, "Runner Pro", 4500, "Повседневный")
	p.Description = "Лёгкие беговые кроссовки"
	assert.True(t, filter.Match(p, filter.FilterState{}.WithSearch("runner")))
	assert.True(t, filter.Match(p, filter.FilterState{}.WithSearch("беговые")))
	assert.False(t, filter.Match(p, filter.FilterState{}.WithSearch("ботинки")))
}

func TestApply_NarrowingShrinksResultSet(t *testing.T) {
	products := []models.Product{
		shoeProduct(t, "a", 1000, "Повседневный"),
		shoeProduct(t, "b", 2000, "Спортивный"),
		shoeProduct(t, "c", 4000, "Повседневный"),
	}

	state := filter.FilterState{}
	all := filter.Apply(products, state)
	assert.Len(t, all, 3)

	narrowed := filter.Apply(products, state.ToggleAttribute("style", "Повседневный"))
	assert.Len(t, narrowed, 2)

	// Every product surviving the narrower state also matched the wider one.
	further := filter.Apply(products, state.ToggleAttribute("style", "Повседневный").WithPriceRange(0, 3000))
	assert.Len(t, further, 1)
	assert.Equal(t, "a", further[0].Name)

	// The input slice is untouched.
	assert.Len(t, products, 3)
}

func TestSort_PriceAndRating(t *testing.T) {
	products := []models.Product{
		{Name: "mid", Price: 200, AverageRating: 4.0, ReviewsCount: 10},
		{Name: "cheap", Price: 100, AverageRating: 5.0, ReviewsCount: 2},
		{Name: "dear", Price: 300, AverageRating: 3.0, ReviewsCount: 50},
	}

	filter.Sort(products, filter.SortPriceLow)
	assert.Equal(t, "cheap", products[0].Name)
	assert.Equal(t, "dear", products[2].Name)

	filter.Sort(products, filter.SortPriceHigh)
	assert.Equal(t, "dear", products[0].Name)

	filter.Sort(products, filter.SortRating)
	assert.Equal(t, "cheap", products[0].Name)
}

func TestSort_PopularityDefault(t *testing.T) {
	products := []models.Product{
		{Name: "unreviewed", Price: 50, AverageRating: 0, ReviewsCount: 0},
		{Name: "beloved", Price: 500, AverageRating: 4.5, ReviewsCount: 40},
		{Name: "niche", Price: 100, AverageRating: 5.0, ReviewsCount: 3},
	}

	// Empty policy falls back to popularity; zero reviews sorts last
	// regardless of price.
	filter.Sort(products, "")
	assert.Equal(t, "beloved", products[0].Name)
	assert.Equal(t, "niche", products[1].Name)
	assert.Equal(t, "unreviewed", products[2].Name)
}

func TestSort_StableOnTies(t *testing.T) {
	products := []models.Product{
		{Name: "first", Price: 100},
		{Name: "second", Price: 100},
		{Name: "third", Price: 100},
	}
	filter.Sort(products, filter.SortPriceLow)
	assert.Equal(t, "first", products[0].Name)
	assert.Equal(t, "second", products[1].Name)
	assert.Equal(t, "third", products[2].Name)
}

func TestFacets_CountsOverUnfilteredList(t *testing.T) {
	products := []models.Product{
		{CategoryID: "shoes", Country: "Вьетнам"},
		{CategoryID: "shoes", Country: "Китай"},
		{CategoryID: "glasses", Country: "Италия"},
		{CategoryID: "glasses"},
	}
	counts := filter.Facets(products)
	assert.Equal(t, 2, counts.Categories["shoes"])
	assert.Equal(t, 2, counts.Categories["glasses"])
	assert.Equal(t, 1, counts.Countries["Италия"])
	_, hasEmpty := counts.Countries[""]
	assert.False(t, hasEmpty)
}

func TestReducers_DoNotMutateReceiver(t *testing.T) {
	base := filter.FilterState{}.
		ToggleAttribute("style", "Повседневный").
		WithBrands("Runner")

	derived := base.
		ToggleAttribute("style", "Спортивный").
		WithBrands("Aviator").
		WithPriceRange(0, 100)

	assert.Equal(t, []string{"Повседневный"}, base.Attributes["style"])
	assert.Equal(t, []string{"Runner"}, base.Brands)
	assert.Nil(t, base.PriceRange)

	assert.ElementsMatch(t, []string{"Повседневный", "Спортивный"}, derived.Attributes["style"])
	assert.Equal(t, []string{"Aviator"}, derived.Brands)
}

func TestToggleAttribute_RemovingLastValueDropsKey(t *testing.T) {
	state := filter.FilterState{}.ToggleAttribute("style", "Повседневный")
	assert.Contains(t, state.Attributes, "style")

	state = state.ToggleAttribute("style", "Повседневный")
	assert.NotContains(t, state.Attributes, "style")

	// With the key gone the field is inactive again.
	p := models.Product{Name: "bare", Price: 10}
	assert.True(t, filter.Match(p, state))
}

func TestReset(t *testing.T) {
	state := filter.FilterState{}.
		WithSearch("runner").
		ToggleAttribute("style", "Повседневный").
		WithSort(filter.SortPriceHigh)
	assert.Equal(t, filter.FilterState{}, state.Reset())
}
