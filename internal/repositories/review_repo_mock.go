package repositories

import (
	"sync"
	"time"

	"lavka/internal/apperrors"
	"lavka/internal/models"

	"github.com/google/uuid"
)

// MockReviewRepository is an in-memory implementation of ReviewRepository.
type MockReviewRepository struct {
	reviews map[string]models.Review
	mu      sync.RWMutex
}

// NewMockReviewRepository creates a new instance of MockReviewRepository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{
		reviews: make(map[string]models.Review),
	}
}

// Create stores a new review.
func (r *MockReviewRepository) Create(review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	review.CreatedAt = time.Now()
	review.UpdatedAt = time.Now()
	r.reviews[review.ID] = *review
	return nil
}

// GetByID returns a review by its ID.
func (r *MockReviewRepository) GetByID(id string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	review, ok := r.reviews[id]
	if !ok {
		return nil, apperrors.NewNotFound("review", id)
	}
	return &review, nil
}

// ListByProduct returns every review of a product.
func (r *MockReviewRepository) ListByProduct(productID string) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Review, 0)
	for _, rev := range r.reviews {
		if rev.ProductID == productID {
			list = append(list, rev)
		}
	}
	return list, nil
}

// ListApprovedByProduct returns only the approved reviews of a product.
func (r *MockReviewRepository) ListApprovedByProduct(productID string) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Review, 0)
	for _, rev := range r.reviews {
		if rev.ProductID == productID && rev.IsApproved {
			list = append(list, rev)
		}
	}
	return list, nil
}

// SetApproved flips a review's moderation flag.
func (r *MockReviewRepository) SetApproved(id string, approved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	review, ok := r.reviews[id]
	if !ok {
		return apperrors.NewNotFound("review", id)
	}
	review.IsApproved = approved
	review.UpdatedAt = time.Now()
	r.reviews[id] = review
	return nil
}
