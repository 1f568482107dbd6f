package handlers

import (
	"fmt"
	"log"
	"strings"

	"lavka/internal/apperrors"
	"lavka/internal/filter"
	"lavka/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// attributeParams are the query parameters forwarded verbatim as
// attribute filter keys. Keys a product's schema does not know are
// simply never matched; the engine ignores them instead of erroring.
var attributeParams = []string{
	"gender", "color", "season", "availability", "purchaseType",
	"frameMaterial", "frameStyle", "lensType",
	"shoeCategory", "upperMaterial", "soleType", "brandTechnology",
	"clothingCategory", "fabric", "pattern", "style", "technologies", "features",
}

// ProductHandler handles HTTP requests for the product catalog: the
// public listing/preview/detail endpoints and the admin CRUD.
type ProductHandler struct {
	queryService   *services.QueryService
	catalogService *services.CatalogService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(queryService *services.QueryService, catalogService *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		queryService:   queryService,
		catalogService: catalogService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the public product routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleList)
	router.Post("/products/preview", h.HandlePreview)
	router.Get("/products/:slug", h.HandleDetail)
}

// RegisterAdminRoutes registers the back-office product routes.
func (h *ProductHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/products", h.HandleAdminList)
	router.Post("/products", h.HandleCreate)
	router.Put("/products/:id", h.HandleUpdate)
	router.Delete("/products/:id", h.HandleDelete)
}

// HandleList is the authoritative paginated catalog query. Every schema
// field has a matching query parameter; multi-valued selections are
// comma-separated.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	state := h.stateFromQuery(c)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", services.DefaultPageSize)

	result, err := h.queryService.Query(state, c.Query("category"), page, limit)
	if err != nil {
		log.Printf("Error querying products: %v", err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(result)
}

// HandlePreview evaluates a FilterState from the request body against
// the full catalog without pagination. It runs the exact same engine as
// HandleList, so the instant UI preview can never drift from the
// paginated result.
func (h *ProductHandler) HandlePreview(c *fiber.Ctx) error {
	var state filter.FilterState
	if err := c.BodyParser(&state); err != nil {
		log.Printf("Error parsing preview filter state: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid filter state",
			"error":   err.Error(),
		})
	}

	result, err := h.queryService.Preview(state)
	if err != nil {
		log.Printf("Error previewing filter state: %v", err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": "Could not evaluate filters",
			"error":   err.Error(),
		})
	}
	return c.JSON(result)
}

// HandleDetail returns one product by slug with the full attribute bag,
// variants, images, and rating.
func (h *ProductHandler) HandleDetail(c *fiber.Ctx) error {
	productSlug := c.Params("slug")
	product, err := h.queryService.ProductDetail(productSlug)
	if err != nil {
		log.Printf("Error getting product by slug %s: %v", productSlug, err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": fmt.Sprintf("Could not retrieve product %s", productSlug),
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleAdminList returns every product, inactive included.
func (h *ProductHandler) HandleAdminList(c *fiber.Ctx) error {
	products, err := h.catalogService.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleCreate creates a new product.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing product create body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return validationFailed(c, err)
	}

	product, err := h.catalogService.CreateProduct(input)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate updates an existing product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	productID := c.Params("id")
	var input services.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing product update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return validationFailed(c, err)
	}

	product, err := h.catalogService.UpdateProduct(productID, input)
	if err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": fmt.Sprintf("Could not update product %s", productID),
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleDelete removes a product.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.catalogService.DeleteProduct(productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		return c.Status(apperrors.Status(err)).JSON(fiber.Map{
			"message": fmt.Sprintf("Could not delete product %s", productID),
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", productID),
	})
}

// stateFromQuery builds the immutable FilterState from the listing's
// query parameters.
func (h *ProductHandler) stateFromQuery(c *fiber.Ctx) filter.FilterState {
	state := filter.FilterState{}

	if term := c.Query("search"); term != "" {
		state = state.WithSearch(term)
	}

	minPrice := c.QueryFloat("minPrice", 0)
	maxPrice := c.QueryFloat("maxPrice", 0)
	if minPrice > 0 || maxPrice > 0 {
		state = state.WithPriceRange(minPrice, maxPrice)
	}

	if countries := csv(c.Query("country")); len(countries) > 0 {
		state = state.WithCountries(countries...)
	}
	if brands := csv(c.Query("brand")); len(brands) > 0 {
		state = state.WithBrands(brands...)
	}

	// shoe and clothing size params both land on the SIZE variant axis
	sizes := append(csv(c.Query("shoeSize")), csv(c.Query("clothingSize"))...)
	if len(sizes) > 0 {
		state = state.WithSizes(sizes...)
	}

	for _, key := range attributeParams {
		if values := csv(c.Query(key)); len(values) > 0 {
			state = state.WithAttribute(key, values...)
		}
	}
	// the size-system params of both kinds map onto the schema's
	// sizeSystem key; the bag of the other category type fails closed
	for _, param := range []string{"shoeSizeSystem", "clothingSizeSystem"} {
		if values := csv(c.Query(param)); len(values) > 0 {
			state = state.WithAttribute("sizeSystem", values...)
		}
	}

	if c.Query("isBrandNew") != "" {
		v := c.QueryBool("isBrandNew")
		state.IsBrandNew = &v
	}
	if c.Query("isOnSale") != "" {
		v := c.QueryBool("isOnSale")
		state.IsOnSale = &v
	}

	return state.WithSort(sortOrderFromQuery(c))
}

// sortOrderFromQuery accepts both the engine's policy names and the
// legacy sortBy=price&sortOrder=desc pair.
func sortOrderFromQuery(c *fiber.Ctx) filter.SortOrder {
	sortBy := c.Query("sortBy")
	if sortBy == "price" {
		if c.Query("sortOrder") == "desc" {
			return filter.SortPriceHigh
		}
		return filter.SortPriceLow
	}
	return filter.SortOrder(sortBy)
}

// csv splits a comma-separated query value, dropping empty entries.
func csv(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// validationFailed renders validator errors the same way for every handler.
func validationFailed(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
