package catalog_test

import (
	"testing"

	"lavka/internal/catalog"
	"lavka/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSchemaFor_CommonFieldsFirst(t *testing.T) {
	schema := catalog.SchemaFor(models.CategoryShoes)
	assert.NotEmpty(t, schema)

	// The five shared fields lead every schema, in a stable order.
	keys := make([]string, 0, len(schema))
	for _, f := range schema {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"gender", "color", "season", "availability", "purchaseType"}, keys[:5])
	assert.Contains(t, keys, "shoeCategory")
	assert.Contains(t, keys, "sizeSystem")
	assert.Contains(t, keys, "style")
}

func TestSchemaFor_EveryTypeHasCommonFields(t *testing.T) {
	types := []models.CategoryType{
		models.CategoryGlasses,
		models.CategoryShoes,
		models.CategoryClothing,
		models.CategoryAccessories,
	}
	for _, ct := range types {
		schema := catalog.SchemaFor(ct)
		keys := make(map[string]bool, len(schema))
		for _, f := range schema {
			keys[f.Key] = true
		}
		for _, required := range catalog.RequiredKeys(ct) {
			assert.True(t, keys[required], "type %s missing field %s", ct, required)
		}
	}
}

func TestSchemaFor_UnknownTypeYieldsEmptySchema(t *testing.T) {
	assert.Nil(t, catalog.SchemaFor(models.CategoryType("FURNITURE")))
	assert.Nil(t, catalog.SchemaFor(""))
	assert.Nil(t, catalog.RequiredKeys(models.CategoryType("FURNITURE")))
}

func TestSchemaFor_DistinctTypesDifferInSpecificFields(t *testing.T) {
	glasses := catalog.SchemaFor(models.CategoryGlasses)
	clothing := catalog.SchemaFor(models.CategoryClothing)

	glassesKeys := make(map[string]bool)
	for _, f := range glasses {
		glassesKeys[f.Key] = true
	}
	assert.True(t, glassesKeys["lensType"])
	assert.False(t, glassesKeys["fabric"])

	clothingKeys := make(map[string]bool)
	for _, f := range clothing {
		clothingKeys[f.Key] = true
	}
	assert.True(t, clothingKeys["fabric"])
	assert.False(t, clothingKeys["lensType"])
}
