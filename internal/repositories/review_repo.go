package repositories

import (
	"lavka/internal/models"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id string) (*models.Review, error)
	ListByProduct(productID string) ([]models.Review, error)
	ListApprovedByProduct(productID string) ([]models.Review, error)
	SetApproved(id string, approved bool) error
}
