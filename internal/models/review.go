package models

import "gorm.io/gorm"

// Review is a user's rating of a product. Only approved reviews count
// toward the aggregated rating.
type Review struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID  string `json:"productId" gorm:"index;type:varchar(36)" validate:"required"`
	UserID     string `json:"userId" gorm:"type:varchar(36)" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"omitempty,max=1000"`
	IsApproved bool   `json:"isApproved"`
	gorm.Model `json:"-"`
}

// Rating is the aggregate derived from a product's approved reviews,
// recomputed on read. Average is rounded to one decimal place.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
