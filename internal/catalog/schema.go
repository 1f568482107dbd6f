// Package catalog holds the category-typed attribute schemas, attribute
// validation, and the variant matrix logic shared by the admin write path
// and the storefront query path.
package catalog

import "lavka/internal/models"

// FieldKind tells the storefront how to render a facet for a field.
type FieldKind string

const (
	KindSingleSelect FieldKind = "SINGLE_SELECT"
	KindMultiSelect  FieldKind = "MULTI_SELECT"
	KindRange        FieldKind = "RANGE"
	KindColorSwatch  FieldKind = "COLOR_SWATCH"
)

// FieldDefinition describes one attribute field of a category type's schema.
type FieldDefinition struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Kind    FieldKind `json:"kind"`
	Options []string  `json:"options,omitempty"`
}

// commonFields are shared by every category type. All of them are
// required on product write.
var commonFields = []FieldDefinition{
	{Key: "gender", Label: "Пол", Kind: KindSingleSelect, Options: []string{"Мужской", "Женский", "Унисекс", "Детский"}},
	{Key: "color", Label: "Цвет", Kind: KindColorSwatch},
	{Key: "season", Label: "Сезон", Kind: KindSingleSelect, Options: []string{"Лето", "Зима", "Демисезон", "Всесезонный"}},
	{Key: "availability", Label: "Наличие", Kind: KindSingleSelect, Options: []string{"В наличии", "Под заказ"}},
	{Key: "purchaseType", Label: "Тип покупки", Kind: KindSingleSelect, Options: []string{"Розница", "Опт"}},
}

var schemas = map[models.CategoryType][]FieldDefinition{
	models.CategoryGlasses: {
		{Key: "frameMaterial", Label: "Материал оправы", Kind: KindSingleSelect, Options: []string{"Металл", "Пластик", "Титан", "Комбинированный"}},
		{Key: "frameStyle", Label: "Тип оправы", Kind: KindSingleSelect, Options: []string{"FULL_RIM", "RIMLESS", "SEMI_RIMLESS"}},
		{Key: "lensType", Label: "Тип линз", Kind: KindSingleSelect, Options: []string{"Солнцезащитные", "Фотохромные", "Поляризационные", "Прозрачные"}},
	},
	models.CategoryShoes: {
		{Key: "shoeCategory", Label: "Категория обуви", Kind: KindSingleSelect, Options: []string{"Кроссовки", "Ботинки", "Сандалии", "Туфли"}},
		{Key: "sizeSystem", Label: "Размерная сетка", Kind: KindSingleSelect, Options: []string{"RUS", "EU", "US", "CM"}},
		{Key: "upperMaterial", Label: "Материал верха", Kind: KindSingleSelect, Options: []string{"Кожа", "Замша", "Текстиль", "Синтетика"}},
		{Key: "soleType", Label: "Подошва", Kind: KindSingleSelect, Options: []string{"Резина", "EVA", "Полиуретан"}},
		{Key: "brandTechnology", Label: "Технологии бренда", Kind: KindMultiSelect},
		{Key: "features", Label: "Особенности", Kind: KindMultiSelect},
		{Key: "style", Label: "Стиль", Kind: KindSingleSelect, Options: []string{"Повседневный", "Спортивный", "Классический"}},
	},
	models.CategoryClothing: {
		{Key: "clothingCategory", Label: "Категория одежды", Kind: KindSingleSelect, Options: []string{"Куртки", "Брюки", "Футболки", "Худи"}},
		{Key: "sizeSystem", Label: "Размерная сетка", Kind: KindSingleSelect, Options: []string{"INT", "RUS", "US"}},
		{Key: "fabric", Label: "Ткань", Kind: KindSingleSelect, Options: []string{"Хлопок", "Шерсть", "Полиэстер", "Мембрана"}},
		{Key: "pattern", Label: "Узор", Kind: KindSingleSelect, Options: []string{"Однотонный", "Принт", "Клетка", "Полоска"}},
		{Key: "style", Label: "Стиль", Kind: KindSingleSelect, Options: []string{"Повседневный", "Спортивный", "Классический"}},
		{Key: "technologies", Label: "Технологии", Kind: KindMultiSelect},
		{Key: "features", Label: "Особенности", Kind: KindMultiSelect},
	},
	models.CategoryAccessories: {
		{Key: "material", Label: "Материал", Kind: KindSingleSelect, Options: []string{"Кожа", "Металл", "Текстиль", "Пластик"}},
		{Key: "style", Label: "Стиль", Kind: KindSingleSelect, Options: []string{"Повседневный", "Спортивный", "Классический"}},
	},
}

// SchemaFor returns the attribute field definitions for a category type:
// the common fields followed by the type-specific ones. An unknown type
// yields an empty schema, never an error; category type is typo-adjacent
// data coming in from admin forms, so the registry fails closed and the
// storefront simply shows no attribute facets.
func SchemaFor(t models.CategoryType) []FieldDefinition {
	specific, ok := schemas[t]
	if !ok {
		return nil
	}
	out := make([]FieldDefinition, 0, len(commonFields)+len(specific))
	out = append(out, commonFields...)
	out = append(out, specific...)
	return out
}

// RequiredKeys returns the keys that must be present on product write for
// the given category type. Only the common fields are required; an
// unknown type requires nothing.
func RequiredKeys(t models.CategoryType) []string {
	if _, ok := schemas[t]; !ok {
		return nil
	}
	keys := make([]string, 0, len(commonFields))
	for _, f := range commonFields {
		keys = append(keys, f.Key)
	}
	return keys
}
