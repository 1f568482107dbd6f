package handlers

import (
	"fmt"
	"log"

	"lavka/internal/apperrors"
	"lavka/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for product reviews and their
// moderation.
type ReviewHandler struct {
	reviewService *services.ReviewService
	validate      *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the public review routes.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products/:id/reviews", h.HandleList)
}

// RegisterUserRoutes registers the authenticated review routes.
func (h *ReviewHandler) RegisterUserRoutes(router fiber.Router) {
	router.Post("/products/:id/reviews", h.HandleSubmit)
}

// RegisterAdminRoutes registers the moderation routes.
func (h *ReviewHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/products/:id/reviews", h.HandleModerationList)
	router.Patch("/reviews/:id/approve", h.HandleApprove)
}

// SubmitReviewRequest is the body of POST /products/:id/reviews.
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

// HandleList returns the approved reviews of a product.
func (h *ReviewHandler) HandleList(c *fiber.Ctx) error {
	productID := c.Params("id")
	reviews, err := h.reviewService.ListApproved(productID)
	if err != nil {
		log.Printf("Error listing reviews for product %s: %v", productID, err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": "Could not retrieve reviews",
			"error":   err.Error(),
		})
	}
	return c.JSON(reviews)
}

// HandleSubmit stores a new review in the moderation queue.
func (h *ReviewHandler) HandleSubmit(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthenticated(c)
	}
	productID := c.Params("id")

	var req SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing review body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	review, err := h.reviewService.Submit(userID, productID, req.Rating, req.Comment)
	if err != nil {
		log.Printf("Error submitting review for product %s: %v", productID, err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": "Could not submit review",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// HandleModerationList returns every review of a product, pending ones
// included.
func (h *ReviewHandler) HandleModerationList(c *fiber.Ctx) error {
	productID := c.Params("id")
	reviews, err := h.reviewService.ListAll(productID)
	if err != nil {
		log.Printf("Error listing all reviews for product %s: %v", productID, err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": "Could not retrieve reviews",
			"error":   err.Error(),
		})
	}
	return c.JSON(reviews)
}

// HandleApprove releases a review from the moderation queue.
func (h *ReviewHandler) HandleApprove(c *fiber.Ctx) error {
	reviewID := c.Params("id")
	if err := h.reviewService.Approve(reviewID); err != nil {
		log.Printf("Error approving review %s: %v", reviewID, err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": fmt.Sprintf("Could not approve review %s", reviewID),
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Review %s approved", reviewID),
	})
}
