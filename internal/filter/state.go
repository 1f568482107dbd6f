// Package filter is the faceted filter/sort engine. It is pure: a
// FilterState value goes in, a filtered and sorted product list comes
// out, with no shared mutable state. The paginated catalog query and the
// instant preview endpoint both run through this one package, so the two
// can never disagree on what matches.
package filter

// SortOrder is a sort policy name. All sorts are stable; ties keep the
// input (creation) order.
type SortOrder string

const (
	SortPriceLow   SortOrder = "price-low"
	SortPriceHigh  SortOrder = "price-high"
	SortRating     SortOrder = "rating"
	SortNew        SortOrder = "new"
	SortPopularity SortOrder = "popularity" // default: averageRating × reviewCount, descending
)

// PriceRange is an inclusive price window. Max <= 0 means unbounded above.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterState is an immutable snapshot of every active constraint.
// Transitions go through the With*/Toggle* reducers, which return a new
// value and never mutate the receiver, so handlers and UI layers can hold
// onto old states safely. All active fields combine with AND; values
// within one field combine with OR.
type FilterState struct {
	Search      string              `json:"search,omitempty"`
	PriceRange  *PriceRange         `json:"priceRange,omitempty"`
	CategoryIDs []string            `json:"categoryIds,omitempty"`
	Countries   []string            `json:"countries,omitempty"`
	Brands      []string            `json:"brands,omitempty"`
	Sizes       []string            `json:"sizes,omitempty"`
	Attributes  map[string][]string `json:"attributeFilters,omitempty"`
	IsBrandNew  *bool               `json:"isBrandNew,omitempty"`
	IsOnSale    *bool               `json:"isOnSale,omitempty"`
	SortBy      SortOrder           `json:"sortBy,omitempty"`
}

// WithSearch returns a copy with the free-text search term set.
func (f FilterState) WithSearch(term string) FilterState {
	f.Search = term
	return f
}

// WithPriceRange returns a copy constrained to [min, max].
func (f FilterState) WithPriceRange(min, max float64) FilterState {
	f.PriceRange = &PriceRange{Min: min, Max: max}
	return f
}

// WithCategories returns a copy with the category constraint replaced.
func (f FilterState) WithCategories(ids ...string) FilterState {
	f.CategoryIDs = append([]string(nil), ids...)
	return f
}

// WithCountries returns a copy with the country constraint replaced.
func (f FilterState) WithCountries(countries ...string) FilterState {
	f.Countries = append([]string(nil), countries...)
	return f
}

// WithBrands returns a copy with the brand constraint replaced.
func (f FilterState) WithBrands(brands ...string) FilterState {
	f.Brands = append([]string(nil), brands...)
	return f
}

// WithSizes returns a copy constrained to products carrying one of the
// given SIZE variant values.
func (f FilterState) WithSizes(sizes ...string) FilterState {
	f.Sizes = append([]string(nil), sizes...)
	return f
}

// WithSort returns a copy with the sort policy set.
func (f FilterState) WithSort(by SortOrder) FilterState {
	f.SortBy = by
	return f
}

// ToggleAttribute returns a copy with value toggled inside the selected
// set of the given attribute key. Removing the last value of a key drops
// the key entirely, deactivating that field.
func (f FilterState) ToggleAttribute(key, value string) FilterState {
	next := make(map[string][]string, len(f.Attributes)+1)
	for k, vs := range f.Attributes {
		next[k] = append([]string(nil), vs...)
	}
	current := next[key]
	for i, v := range current {
		if v == value {
			current = append(current[:i], current[i+1:]...)
			if len(current) == 0 {
				delete(next, key)
			} else {
				next[key] = current
			}
			f.Attributes = next
			return f
		}
	}
	next[key] = append(current, value)
	f.Attributes = next
	return f
}

// WithAttribute returns a copy with the selected-value list of one
// attribute key replaced. An empty list drops the key.
func (f FilterState) WithAttribute(key string, values ...string) FilterState {
	next := make(map[string][]string, len(f.Attributes)+1)
	for k, vs := range f.Attributes {
		next[k] = append([]string(nil), vs...)
	}
	if len(values) == 0 {
		delete(next, key)
	} else {
		next[key] = append([]string(nil), values...)
	}
	f.Attributes = next
	return f
}

// Reset returns the zero state: no constraints, default sort.
func (f FilterState) Reset() FilterState {
	return FilterState{}
}
