package catalog

import (
	"fmt"
	"sort"

	"lavka/internal/apperrors"
	"lavka/internal/models"
)

// MissingSelectionError is returned from ValidateSelection when a variant
// axis that requires an explicit choice was left unselected.
type MissingSelectionError struct {
	Axis models.VariantType
}

func (e *MissingSelectionError) Error() string {
	return fmt.Sprintf("a %s selection is required for this product", e.Axis)
}

// Axes groups a product's variants by axis, deduplicated and sorted so
// the storefront renders the same option order on every load.
func Axes(variants []models.Variant) map[models.VariantType][]string {
	seen := make(map[models.VariantType]map[string]bool)
	out := make(map[models.VariantType][]string)
	for _, v := range variants {
		if seen[v.Type] == nil {
			seen[v.Type] = make(map[string]bool)
		}
		if seen[v.Type][v.Value] {
			continue
		}
		seen[v.Type][v.Value] = true
		out[v.Type] = append(out[v.Type], v.Value)
	}
	for _, values := range out {
		sort.Strings(values)
	}
	return out
}

// RequiresSelection returns the axes that must be explicitly chosen
// before the product can go into a cart. Only SIZE and COLOR gate
// add-to-cart: cart line identity carries exactly those two fields, so a
// choice on any other axis would have nowhere to live. A product with no
// SIZE variants never requires a size.
func RequiresSelection(variants []models.Variant) []models.VariantType {
	axes := Axes(variants)
	var required []models.VariantType
	for _, t := range []models.VariantType{models.VariantSize, models.VariantColor} {
		if len(axes[t]) > 0 {
			required = append(required, t)
		}
	}
	return required
}

// ValidateSelection checks an add-to-cart selection against the product's
// variants. Each required axis needs a selection, and a given selection
// must name one of the axis values.
func ValidateSelection(variants []models.Variant, size, color string) error {
	axes := Axes(variants)
	selected := map[models.VariantType]string{
		models.VariantSize:  size,
		models.VariantColor: color,
	}
	for _, axis := range RequiresSelection(variants) {
		value := selected[axis]
		if value == "" {
			return &MissingSelectionError{Axis: axis}
		}
		if !contains(axes[axis], value) {
			return apperrors.NewValidation("unknown %s value %q", axis, value)
		}
	}
	return nil
}

// ValidateDistinct rejects variant lists where one axis carries the same
// value twice.
func ValidateDistinct(variants []models.Variant) error {
	seen := make(map[models.VariantType]map[string]bool)
	for _, v := range variants {
		if !v.Type.Valid() {
			return apperrors.NewValidation("unknown variant type %q", v.Type)
		}
		if v.Value == "" {
			return apperrors.NewValidation("variant of type %s has an empty value", v.Type)
		}
		if seen[v.Type] == nil {
			seen[v.Type] = make(map[string]bool)
		}
		if seen[v.Type][v.Value] {
			return apperrors.NewValidation("duplicate %s variant value %q", v.Type, v.Value)
		}
		seen[v.Type][v.Value] = true
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
