package repositories

import (
	"errors"
	"fmt"

	"lavka/internal/apperrors"
	"lavka/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

// Create stores a new review.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByID returns a review by its ID.
func (r *GORMReviewRepository) GetByID(id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("review", id)
		}
		return nil, fmt.Errorf("failed to get review %s: %w", id, err)
	}
	return &review, nil
}

// ListByProduct returns every review of a product, moderation queue included.
func (r *GORMReviewRepository) ListByProduct(productID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Where("product_id = ?", productID).Order("created_at desc").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews for product %s: %w", productID, err)
	}
	return reviews, nil
}

// ListApprovedByProduct returns only the approved reviews of a product.
func (r *GORMReviewRepository) ListApprovedByProduct(productID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Where("product_id = ? AND is_approved = ?", productID, true).Order("created_at desc").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list approved reviews for product %s: %w", productID, err)
	}
	return reviews, nil
}

// SetApproved flips a review's moderation flag.
func (r *GORMReviewRepository) SetApproved(id string, approved bool) error {
	res := r.db.Model(&models.Review{}).Where("id = ?", id).Update("is_approved", approved)
	if res.Error != nil {
		return fmt.Errorf("failed to set approval for review %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("review", id)
	}
	return nil
}
