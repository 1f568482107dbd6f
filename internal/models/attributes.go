package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AttributeSet is the category-typed attribute bag of a product. Each
// category type has its own concrete struct, so a field that does not
// exist for the type cannot be set at all. Lookup is the untyped access
// path used by the filter engine: it returns the value(s) stored under a
// schema key, or ok=false when the key is not part of this set's schema
// or holds no value (filters fail closed on it).
type AttributeSet interface {
	CategoryType() CategoryType
	Lookup(key string) ([]string, bool)
}

// NewAttributeSet returns an empty attribute set for the given category
// type, or nil when the type is unknown.
func NewAttributeSet(t CategoryType) AttributeSet {
	switch t {
	case CategoryGlasses:
		return &GlassesAttributes{}
	case CategoryShoes:
		return &ShoesAttributes{}
	case CategoryClothing:
		return &ClothingAttributes{}
	case CategoryAccessories:
		return &AccessoriesAttributes{}
	}
	return nil
}

// CommonAttributes are the fields shared by every category type. Color
// here is the product-level default color; when the product carries COLOR
// variants those are authoritative for purchasable options and this field
// is display-only swatch metadata.
type CommonAttributes struct {
	Gender       string `json:"gender"`
	Color        string `json:"color"`
	Season       string `json:"season"`
	Availability string `json:"availability"`
	PurchaseType string `json:"purchaseType"`
}

func (c CommonAttributes) lookupCommon(key string) ([]string, bool) {
	switch key {
	case "gender":
		return scalar(c.Gender)
	case "color":
		return scalar(c.Color)
	case "season":
		return scalar(c.Season)
	case "availability":
		return scalar(c.Availability)
	case "purchaseType":
		return scalar(c.PurchaseType)
	}
	return nil, false
}

func scalar(v string) ([]string, bool) {
	if v == "" {
		return nil, false
	}
	return []string{v}, true
}

func multi(vs []string) ([]string, bool) {
	if len(vs) == 0 {
		return nil, false
	}
	return vs, true
}

// GlassesAttributes is the GLASSES schema.
type GlassesAttributes struct {
	CommonAttributes
	FrameMaterial string `json:"frameMaterial"`
	FrameStyle    string `json:"frameStyle"` // FULL_RIM, RIMLESS, SEMI_RIMLESS
	LensType      string `json:"lensType"`
}

func (a *GlassesAttributes) CategoryType() CategoryType { return CategoryGlasses }

func (a *GlassesAttributes) Lookup(key string) ([]string, bool) {
	switch key {
	case "frameMaterial":
		return scalar(a.FrameMaterial)
	case "frameStyle":
		return scalar(a.FrameStyle)
	case "lensType":
		return scalar(a.LensType)
	}
	return a.lookupCommon(key)
}

// ShoesAttributes is the SHOES schema.
type ShoesAttributes struct {
	CommonAttributes
	ShoeCategory    string   `json:"shoeCategory"`
	SizeSystem      string   `json:"sizeSystem"` // RUS, EU, US, CM
	UpperMaterial   string   `json:"upperMaterial"`
	SoleType        string   `json:"soleType"`
	Style           string   `json:"style"`
	BrandTechnology []string `json:"brandTechnology"`
	Features        []string `json:"features"`
}

func (a *ShoesAttributes) CategoryType() CategoryType { return CategoryShoes }

func (a *ShoesAttributes) Lookup(key string) ([]string, bool) {
	switch key {
	case "shoeCategory":
		return scalar(a.ShoeCategory)
	case "sizeSystem":
		return scalar(a.SizeSystem)
	case "upperMaterial":
		return scalar(a.UpperMaterial)
	case "soleType":
		return scalar(a.SoleType)
	case "style":
		return scalar(a.Style)
	case "brandTechnology":
		return multi(a.BrandTechnology)
	case "features":
		return multi(a.Features)
	}
	return a.lookupCommon(key)
}

// ClothingAttributes is the CLOTHING schema.
type ClothingAttributes struct {
	CommonAttributes
	ClothingCategory string   `json:"clothingCategory"`
	SizeSystem       string   `json:"sizeSystem"` // INT, RUS, US
	Fabric           string   `json:"fabric"`
	Pattern          string   `json:"pattern"`
	Style            string   `json:"style"`
	Technologies     []string `json:"technologies"`
	Features         []string `json:"features"`
}

func (a *ClothingAttributes) CategoryType() CategoryType { return CategoryClothing }

func (a *ClothingAttributes) Lookup(key string) ([]string, bool) {
	switch key {
	case "clothingCategory":
		return scalar(a.ClothingCategory)
	case "sizeSystem":
		return scalar(a.SizeSystem)
	case "fabric":
		return scalar(a.Fabric)
	case "pattern":
		return scalar(a.Pattern)
	case "style":
		return scalar(a.Style)
	case "technologies":
		return multi(a.Technologies)
	case "features":
		return multi(a.Features)
	}
	return a.lookupCommon(key)
}

// AccessoriesAttributes is the ACCESSORIES schema.
type AccessoriesAttributes struct {
	CommonAttributes
	Material string `json:"material"`
	Style    string `json:"style"`
}

func (a *AccessoriesAttributes) CategoryType() CategoryType { return CategoryAccessories }

func (a *AccessoriesAttributes) Lookup(key string) ([]string, bool) {
	switch key {
	case "material":
		return scalar(a.Material)
	case "style":
		return scalar(a.Style)
	}
	return a.lookupCommon(key)
}

// AttributeColumn stores an AttributeSet as a single self-tagged JSON
// column: {"categoryType": "...", ...fields}. Decoding is tolerant:
// keys that are not part of the tagged type's schema are dropped, and an
// unknown tag yields a nil Set rather than an error, so rows written by
// a newer schema version still load.
type AttributeColumn struct {
	Set AttributeSet
}

func (a AttributeColumn) MarshalJSON() ([]byte, error) {
	if a.Set == nil {
		return []byte("null"), nil
	}
	fields, err := json.Marshal(a.Set)
	if err != nil {
		return nil, err
	}
	tag, err := json.Marshal(map[string]CategoryType{"categoryType": a.Set.CategoryType()})
	if err != nil {
		return nil, err
	}
	if string(fields) == "{}" {
		return tag, nil
	}
	// splice the tag into the fields object
	out := append(tag[:len(tag)-1], ',')
	out = append(out, fields[1:]...)
	return out, nil
}

func (a *AttributeColumn) UnmarshalJSON(data []byte) error {
	a.Set = nil
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	var tag struct {
		CategoryType CategoryType `json:"categoryType"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("failed to read attribute type tag: %w", err)
	}
	set := NewAttributeSet(tag.CategoryType)
	if set == nil {
		return nil
	}
	if err := json.Unmarshal(data, set); err != nil {
		return fmt.Errorf("failed to decode %s attributes: %w", tag.CategoryType, err)
	}
	a.Set = set
	return nil
}

// Value implements driver.Valuer so GORM can persist the column.
func (a AttributeColumn) Value() (driver.Value, error) {
	b, err := a.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (a *AttributeColumn) Scan(value interface{}) error {
	if value == nil {
		a.Set = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return a.UnmarshalJSON(v)
	case string:
		return a.UnmarshalJSON([]byte(v))
	}
	return fmt.Errorf("unsupported attribute column type %T", value)
}
