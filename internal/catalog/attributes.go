package catalog

import (
	"encoding/json"
	"fmt"

	"lavka/internal/apperrors"
	"lavka/internal/models"
)

// DecodeAttributes builds the attribute set for a product from raw JSON
// submitted by the admin form, scoped to the category type resolved
// server-side (a client-supplied categoryType is never trusted). Keys not
// present in the schema for the type are silently dropped; the
// tolerant-reader policy that lets old clients keep writing while the
// schema evolves. An unknown category type yields a nil set.
func DecodeAttributes(t models.CategoryType, raw json.RawMessage) (models.AttributeSet, error) {
	set := models.NewAttributeSet(t)
	if set == nil {
		return nil, nil
	}
	if len(raw) == 0 {
		return set, nil
	}
	if err := json.Unmarshal(raw, set); err != nil {
		return nil, apperrors.NewValidation("malformed attributes payload: %v", err)
	}
	return set, nil
}

// ValidateAttributes checks a decoded set against the schema for the
// product's category type: every required common field must carry a
// value. It is a write-path check only, the filter engine never
// validates, it just fails closed on absent fields.
func ValidateAttributes(t models.CategoryType, set models.AttributeSet) error {
	required := RequiredKeys(t)
	if len(required) == 0 {
		return nil
	}
	if set == nil {
		return apperrors.NewValidation("attributes are required for category type %s", t)
	}
	if set.CategoryType() != t {
		return apperrors.NewValidation("attributes are tagged %s but the product's category resolves to %s", set.CategoryType(), t)
	}
	var missing []string
	for _, key := range required {
		if _, ok := set.Lookup(key); !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidation("missing required attribute field(s): %s", fmt.Sprint(missing))
	}
	return nil
}
