package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VariantType is one dimension of purchasable variation on a product.
type VariantType string

const (
	VariantSize       VariantType = "SIZE"
	VariantColor      VariantType = "COLOR"
	VariantMaterial   VariantType = "MATERIAL"
	VariantStyle      VariantType = "STYLE"
	VariantSeason     VariantType = "SEASON"
	VariantTechnology VariantType = "TECHNOLOGY"
)

// Valid reports whether t is one of the known variant axes.
func (t VariantType) Valid() bool {
	switch t {
	case VariantSize, VariantColor, VariantMaterial, VariantStyle, VariantSeason, VariantTechnology:
		return true
	}
	return false
}

// Variant is a single axis value attached to a product, optionally
// overriding price or stock. Values must be distinct within one axis of
// one product. There is no per-combination record: a product with SIZE
// and COLOR variants exposes every (size, color) pair implicitly, and
// stock stays product-level.
type Variant struct {
	ID        uint        `json:"-" gorm:"primaryKey"`
	ProductID string      `json:"-" gorm:"index;type:varchar(36)"`
	Type      VariantType `json:"type" gorm:"type:varchar(20)" validate:"required"`
	Value     string      `json:"value" gorm:"type:varchar(100)" validate:"required"`
	Price     *float64    `json:"price,omitempty"`
	Stock     *int        `json:"stock,omitempty"`
}

// Product is a catalog entry. CategoryType is a denormalized copy of the
// referenced category's Type, a cache rather than a source of truth. It is
// recomputed server-side on every category reassignment; a client-supplied
// value is ignored.
type Product struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Slug          string          `json:"slug" gorm:"uniqueIndex;type:varchar(150)"`
	Name          string          `json:"name" gorm:"type:varchar(150)" validate:"required,min=3,max=150"`
	Description   string          `json:"description" validate:"omitempty,max=2000"`
	Price         float64         `json:"price" validate:"required,gt=0"`
	OriginalPrice *float64        `json:"originalPrice,omitempty" validate:"omitempty,gt=0"`
	Stock         int             `json:"stock" validate:"gte=0"`
	CategoryID    string          `json:"categoryId" gorm:"index;type:varchar(36)" validate:"required"`
	CategoryType  CategoryType    `json:"categoryType" gorm:"type:varchar(20)"`
	Brand         string          `json:"brand" gorm:"type:varchar(100)"`
	Country       string          `json:"country" gorm:"type:varchar(100)"`
	Attributes    AttributeColumn `json:"attributes" gorm:"type:text"`
	Variants      []Variant       `json:"variants" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images        datatypes.JSON  `json:"images"`
	IsActive      bool            `json:"isActive"`
	IsBrandNew    bool            `json:"isBrandNew"`
	IsOnSale      bool            `json:"isOnSale"`
	IsFeatured    bool            `json:"isFeatured"`

	// Resolved from approved reviews at query time, not stored.
	AverageRating float64 `json:"rating" gorm:"-"`
	ReviewsCount  int     `json:"reviewsCount" gorm:"-"`

	gorm.Model `json:"-"`
}

// MainImage returns the first image URL, or "" when the product has none.
func (p Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	var urls []string
	if err := json.Unmarshal(p.Images, &urls); err != nil || len(urls) == 0 {
		return ""
	}
	return urls[0]
}
