package models

import "time"

// CartLine is one row of a user's cart. Line identity is the full
// (UserID, ProductID, Size, Color) tuple, enforced by a composite unique
// index: adds with the same tuple merge into one row by incrementing
// Quantity. Lines are hard-deleted; a soft-deleted row would keep
// holding the identity index and block re-adding the item.
type CartLine struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string `json:"userId" gorm:"uniqueIndex:idx_cart_line_identity;type:varchar(36)" validate:"required"`
	ProductID string `json:"productId" gorm:"uniqueIndex:idx_cart_line_identity;type:varchar(36)" validate:"required"`
	Size      string `json:"size,omitempty" gorm:"uniqueIndex:idx_cart_line_identity;type:varchar(50)"`
	Color     string `json:"color,omitempty" gorm:"uniqueIndex:idx_cart_line_identity;type:varchar(50)"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
