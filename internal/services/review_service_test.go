package services_test

import (
	"testing"

	"lavka/internal/apperrors"
	"lavka/internal/models"
	"lavka/internal/repositories"
	"lavka/internal/services"

	"github.com/stretchr/testify/assert"
)

func newReviewFixture(t *testing.T) (*services.ReviewService, *repositories.MockReviewRepository) {
	t.Helper()
	reviewRepo := repositories.NewMockReviewRepository()
	productRepo := repositories.NewMockProductRepository()
	assert.NoError(t, productRepo.Create(&models.Product{
		ID:       "prod-1",
		Name:     "Кроссовки Runner Pro",
		Slug:     "krossovki-runner-pro",
		Price:    100,
		IsActive: true,
	}))
	return services.NewReviewService(reviewRepo, productRepo), reviewRepo
}

func TestReviewService_SubmitStartsUnapproved(t *testing.T) {
	service, _ := newReviewFixture(t)

	review, err := service.Submit("user-1", "prod-1", 5, "Отличные кроссовки")
	assert.NoError(t, err)
	assert.False(t, review.IsApproved)

	approved, err := service.ListApproved("prod-1")
	assert.NoError(t, err)
	assert.Empty(t, approved)

	all, err := service.ListAll("prod-1")
	assert.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReviewService_SubmitValidations(t *testing.T) {
	service, _ := newReviewFixture(t)

	_, err := service.Submit("user-1", "prod-1", 0, "")
	assert.Error(t, err)
	_, err = service.Submit("user-1", "prod-1", 6, "")
	assert.Error(t, err)

	var nfErr *apperrors.NotFoundError
	_, err = service.Submit("user-1", "prod-missing", 4, "")
	assert.ErrorAs(t, err, &nfErr)
}

func TestReviewService_RatingCountsApprovedOnly(t *testing.T) {
	service, _ := newReviewFixture(t)

	for _, rating := range []int{5, 4, 4} {
		review, err := service.Submit("user-1", "prod-1", rating, "")
		assert.NoError(t, err)
		assert.NoError(t, service.Approve(review.ID))
	}
	// A pending review stays out of the aggregate.
	_, err := service.Submit("user-2", "prod-1", 1, "")
	assert.NoError(t, err)

	rating, err := service.RatingFor("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, 3, rating.Count)
	// (5+4+4)/3 = 4.333…, rounded to one decimal.
	assert.Equal(t, 4.3, rating.Average)
}

func TestReviewService_RatingWithoutReviews(t *testing.T) {
	service, _ := newReviewFixture(t)

	rating, err := service.RatingFor("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, models.Rating{}, rating)
}

func TestReviewService_ApproveMissingReview(t *testing.T) {
	service, _ := newReviewFixture(t)

	var nfErr *apperrors.NotFoundError
	assert.ErrorAs(t, service.Approve("rev-missing"), &nfErr)
}

func TestReviewService_AttachRatings(t *testing.T) {
	service, _ := newReviewFixture(t)

	review, err := service.Submit("user-1", "prod-1", 4, "")
	assert.NoError(t, err)
	assert.NoError(t, service.Approve(review.ID))

	products := []models.Product{{ID: "prod-1"}, {ID: "prod-unknown"}}
	assert.NoError(t, service.AttachRatings(products))
	assert.Equal(t, 4.0, products[0].AverageRating)
	assert.Equal(t, 1, products[0].ReviewsCount)
	assert.Zero(t, products[1].AverageRating)
	assert.Zero(t, products[1].ReviewsCount)
}
