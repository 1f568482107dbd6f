package handlers

import (
	"fmt"
	"log"

	"lavka/internal/apperrors"
	"lavka/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	cartService *services.CartService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the cart routes. All of them require the auth
// middleware to have resolved user_id already.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/add", h.HandleAddItem)
	cartRoutes.Put("/:lineId", h.HandleUpdateQuantity)
	cartRoutes.Delete("/:lineId", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClear)
}

// AddItemRequest is the body of POST /cart/add.
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// UpdateQuantityRequest is the body of PUT /cart/:lineId.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleGetCart returns the user's line items plus summary totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthenticated(c)
	}
	summary, err := h.cartService.Cart(userID)
	if err != nil {
		log.Printf("Error getting cart for user %s: %v", userID, err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(summary)
}

// HandleAddItem adds quantity to the line identified by the request's
// (product, size, color), creating it when absent.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-to-cart body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	line, err := h.cartService.AddItem(userID, req.ProductID, req.Quantity, req.Size, req.Color)
	if err != nil {
		log.Printf("Error adding product %s to cart for user %s: %v", req.ProductID, userID, err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": "Could not add item to cart",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(line)
}

// HandleUpdateQuantity replaces a line's quantity; anything below 1
// deletes the line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthenticated(c)
	}
	lineID := c.Params("lineId")

	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing quantity update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	deleted, err := h.cartService.UpdateQuantity(userID, lineID, req.Quantity)
	if err != nil {
		log.Printf("Error updating cart line %s for user %s: %v", lineID, userID, err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": fmt.Sprintf("Could not update cart line %s", lineID),
			"error":   err.Error(),
		})
	}
	if deleted {
		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("Cart line %s removed", lineID),
		})
	}
	return c.JSON(fiber.Map{
		"message":  fmt.Sprintf("Cart line %s updated", lineID),
		"quantity": req.Quantity,
	})
}

// HandleRemoveItem deletes a line unconditionally.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthenticated(c)
	}
	lineID := c.Params("lineId")
	if err := h.cartService.RemoveItem(userID, lineID); err != nil {
		log.Printf("Error removing cart line %s for user %s: %v", lineID, userID, err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": fmt.Sprintf("Could not remove cart line %s", lineID),
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Cart line %s removed", lineID),
	})
}

// HandleClear empties the user's cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthenticated(c)
	}
	if err := h.cartService.Clear(userID); err != nil {
		log.Printf("Error clearing cart for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not clear cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}

// requireUserID pulls the authenticated user from the context. The auth
// middleware puts it there; a missing value means the route was mounted
// without it.
func requireUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("user_id").(string)
	return userID, ok && userID != ""
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Authentication required",
	})
}
