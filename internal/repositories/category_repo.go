package repositories

import (
	"lavka/internal/models"
)

// CategoryRepository defines the interface for category data access.
// There is no Delete: categories are deactivated via Update, never removed.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
}
