package filter

import (
	"sort"
	"strings"

	"lavka/internal/models"
)

// Match reports whether a single product satisfies every active
// constraint of the state. An inactive field (empty set, nil range)
// always matches; an active attribute key whose field is absent from the
// product's bag never matches. Narrowing any one field can only shrink
// the result set, never widen it.
func Match(p models.Product, f FilterState) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}
	if f.PriceRange != nil {
		if p.Price < f.PriceRange.Min {
			return false
		}
		if f.PriceRange.Max > 0 && p.Price > f.PriceRange.Max {
			return false
		}
	}
	if len(f.CategoryIDs) > 0 && !containsString(f.CategoryIDs, p.CategoryID) {
		return false
	}
	if len(f.Countries) > 0 && !containsString(f.Countries, p.Country) {
		return false
	}
	if len(f.Brands) > 0 && !containsString(f.Brands, p.Brand) {
		return false
	}
	if f.IsBrandNew != nil && p.IsBrandNew != *f.IsBrandNew {
		return false
	}
	if f.IsOnSale != nil && p.IsOnSale != *f.IsOnSale {
		return false
	}
	if len(f.Sizes) > 0 && !hasVariantValue(p.Variants, models.VariantSize, f.Sizes) {
		return false
	}
	for key, selected := range f.Attributes {
		if len(selected) == 0 {
			continue // empty selection deactivates the field
		}
		if p.Attributes.Set == nil {
			return false
		}
		values, ok := p.Attributes.Set.Lookup(key)
		if !ok {
			return false // absent field fails closed
		}
		if !anyOverlap(values, selected) {
			return false
		}
	}
	return true
}

// Apply filters products by the state and stable-sorts the result by the
// state's sort policy. The input slice is never modified.
func Apply(products []models.Product, f FilterState) []models.Product {
	matched := make([]models.Product, 0, len(products))
	for _, p := range products {
		if Match(p, f) {
			matched = append(matched, p)
		}
	}
	Sort(matched, f.SortBy)
	return matched
}

// Sort stable-sorts products in place by the given policy. An empty or
// unknown policy falls back to popularity, the storefront default.
func Sort(products []models.Product, by SortOrder) {
	switch by {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].AverageRating > products[j].AverageRating
		})
	case SortNew:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].IsBrandNew && !products[j].IsBrandNew
		})
	default:
		// popularity: rating × review count, so a product with zero
		// reviews sorts to the bottom regardless of price
		sort.SliceStable(products, func(i, j int) bool {
			return popularity(products[i]) > popularity(products[j])
		})
	}
}

func popularity(p models.Product) float64 {
	return p.AverageRating * float64(p.ReviewsCount)
}

// FacetCounts carries per-option match counts for the facet lists.
type FacetCounts struct {
	Categories map[string]int `json:"categories"`
	Countries  map[string]int `json:"countries"`
}

// Facets counts products per category and per country over the full
// (unfiltered) input list. Facet numbers tell the user how big each
// branch is, not how big it would be under the current filters.
func Facets(products []models.Product) FacetCounts {
	counts := FacetCounts{
		Categories: make(map[string]int),
		Countries:  make(map[string]int),
	}
	for _, p := range products {
		counts.Categories[p.CategoryID]++
		if p.Country != "" {
			counts.Countries[p.Country]++
		}
	}
	return counts
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func anyOverlap(values, selected []string) bool {
	for _, s := range selected {
		if containsString(values, s) {
			return true
		}
	}
	return false
}

func hasVariantValue(variants []models.Variant, t models.VariantType, selected []string) bool {
	for _, v := range variants {
		if v.Type == t && containsString(selected, v.Value) {
			return true
		}
	}
	return false
}
