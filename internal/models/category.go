package models

import "gorm.io/gorm"

// CategoryType is the product domain a category (and every product in it) belongs to.
type CategoryType string

const (
	CategoryGlasses     CategoryType = "GLASSES"
	CategoryShoes       CategoryType = "SHOES"
	CategoryClothing    CategoryType = "CLOTHING"
	CategoryAccessories CategoryType = "ACCESSORIES"
)

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	switch t {
	case CategoryGlasses, CategoryShoes, CategoryClothing, CategoryAccessories:
		return true
	}
	return false
}

// Category is a node in the category tree. Subcategories inherit their
// parent's Type: the two must always be equal, and the parent chain must
// be acyclic. Categories are never hard-deleted; deactivation flips
// IsActive and is blocked while products still reference the category.
type Category struct {
	ID         string       `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string       `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Slug       string       `json:"slug" gorm:"uniqueIndex;type:varchar(120)"`
	ParentID   *string      `json:"parentId" gorm:"type:varchar(36)"`
	Level      int          `json:"level"` // 0 = root
	Type       CategoryType `json:"type" gorm:"type:varchar(20)" validate:"required"`
	IsActive   bool         `json:"isActive"`
	SortOrder  int          `json:"sortOrder"`
	gorm.Model `json:"-"`
}
