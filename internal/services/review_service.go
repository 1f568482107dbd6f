package services

import (
	"math"

	"lavka/internal/apperrors"
	"lavka/internal/models"
	"lavka/internal/repositories"
)

// ReviewService owns review submission, moderation, and the rating
// aggregate the storefront sorts by. Ratings are recomputed on read,
// there is no cached column to drift out of date.
type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	productRepo repositories.ProductRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repositories.ReviewRepository, productRepo repositories.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// Submit stores a new review in the moderation queue. It only counts
// toward the product rating once approved.
func (s *ReviewService) Submit(userID, productID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidation("rating must be between 1 and 5, got %d", rating)
	}
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, err
	}
	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// Approve releases a review from the moderation queue.
func (s *ReviewService) Approve(id string) error {
	return s.reviewRepo.SetApproved(id, true)
}

// ListApproved returns the approved reviews of a product.
func (s *ReviewService) ListApproved(productID string) ([]models.Review, error) {
	return s.reviewRepo.ListApprovedByProduct(productID)
}

// ListAll returns every review of a product, for the moderation screen.
func (s *ReviewService) ListAll(productID string) ([]models.Review, error) {
	return s.reviewRepo.ListByProduct(productID)
}

// RatingFor aggregates the approved reviews of a product. A product with
// no approved reviews gets {0, 0}. The average is rounded to one decimal.
func (s *ReviewService) RatingFor(productID string) (models.Rating, error) {
	reviews, err := s.reviewRepo.ListApprovedByProduct(productID)
	if err != nil {
		return models.Rating{}, err
	}
	if len(reviews) == 0 {
		return models.Rating{}, nil
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return models.Rating{
		Average: math.Round(avg*10) / 10,
		Count:   len(reviews),
	}, nil
}

// AttachRatings resolves ratings for a product slice in place, so the
// filter engine's rating and popularity sorts have something to chew on.
func (s *ReviewService) AttachRatings(products []models.Product) error {
	for i := range products {
		rating, err := s.RatingFor(products[i].ID)
		if err != nil {
			return err
		}
		products[i].AverageRating = rating.Average
		products[i].ReviewsCount = rating.Count
	}
	return nil
}
