package handlers

import (
	"fmt"
	"log"

	"lavka/internal/apperrors"
	"lavka/internal/catalog"
	"lavka/internal/models"
	"lavka/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for the category tree.
type CategoryHandler struct {
	catalogService *services.CatalogService
	validate       *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(catalogService *services.CatalogService) *CategoryHandler {
	return &CategoryHandler{
		catalogService: catalogService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the public category routes.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/categories", h.HandleList)
	router.Get("/categories/:id/schema", h.HandleSchema)
}

// RegisterAdminRoutes registers the back-office category routes.
func (h *CategoryHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/categories", h.HandleAdminList)
	router.Post("/categories", h.HandleCreate)
	router.Put("/categories/:id", h.HandleUpdate)
	router.Delete("/categories/:id", h.HandleDeactivate)
}

// HandleList returns the active category tree as a flat, ordered list.
func (h *CategoryHandler) HandleList(c *fiber.Ctx) error {
	categories, err := h.catalogService.GetCategories()
	if err != nil {
		log.Printf("Error getting categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve categories",
			"error":   err.Error(),
		})
	}
	active := make([]models.Category, 0, len(categories))
	for _, cat := range categories {
		if cat.IsActive {
			active = append(active, cat)
		}
	}
	return c.JSON(active)
}

// HandleSchema returns the attribute field definitions for a category's
// type, resolved through an authoritative category lookup. The type is
// never guessed from the id or slug text.
func (h *CategoryHandler) HandleSchema(c *fiber.Ctx) error {
	categoryID := c.Params("id")
	category, err := h.catalogService.GetCategoryByID(categoryID)
	if err != nil {
		log.Printf("Error resolving category %s for schema: %v", categoryID, err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": fmt.Sprintf("Could not resolve category %s", categoryID),
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"categoryType": category.Type,
		"fields":       catalog.SchemaFor(category.Type),
	})
}

// HandleAdminList returns every category, inactive included.
func (h *CategoryHandler) HandleAdminList(c *fiber.Ctx) error {
	categories, err := h.catalogService.GetCategories()
	if err != nil {
		log.Printf("Error getting categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve categories",
			"error":   err.Error(),
		})
	}
	return c.JSON(categories)
}

// HandleCreate creates a category.
func (h *CategoryHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.CategoryInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing category create body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return validationFailed(c, err)
	}

	category, err := h.catalogService.CreateCategory(input)
	if err != nil {
		log.Printf("Error creating category: %v", err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": "Could not create category",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdate edits a category, enforcing the parent-type and cycle
// invariants before anything is stored.
func (h *CategoryHandler) HandleUpdate(c *fiber.Ctx) error {
	categoryID := c.Params("id")
	var input services.CategoryInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing category update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	category, err := h.catalogService.UpdateCategory(categoryID, input)
	if err != nil {
		log.Printf("Error updating category %s: %v", categoryID, err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": fmt.Sprintf("Could not update category %s", categoryID),
			"error":   err.Error(),
		})
	}
	return c.JSON(category)
}

// HandleDeactivate soft-disables a category. Blocked while products
// still reference it.
func (h *CategoryHandler) HandleDeactivate(c *fiber.Ctx) error {
	categoryID := c.Params("id")
	if err := h.catalogService.DeactivateCategory(categoryID); err != nil {
		log.Printf("Error deactivating category %s: %v", categoryID, err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": fmt.Sprintf("Could not deactivate category %s", categoryID),
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Category %s deactivated successfully", categoryID),
	})
}
