package services

import (
	"encoding/json"
	"fmt"
	"log"

	"lavka/internal/apperrors"
	"lavka/internal/catalog"
	"lavka/internal/models"
	"lavka/internal/repositories"
	"lavka/pkg/rabbitmq"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"
)

// maxCategoryDepth bounds the ancestor walk so a corrupt parent chain
// cannot loop forever.
const maxCategoryDepth = 32

// CatalogService handles the admin write path for categories and
// products: schema validation, slug generation, the category tree
// invariants, and the categoryType cache recompute.
type CatalogService struct {
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
	mqClient     *rabbitmq.Client
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(categoryRepo repositories.CategoryRepository, productRepo repositories.ProductRepository, mqClient *rabbitmq.Client) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		mqClient:     mqClient,
	}
}

// CategoryInput is the admin payload for category writes. Updates are
// full-replace: a payload without parentId detaches the category to the
// root level, it does not keep the current parent.
type CategoryInput struct {
	Name      string              `json:"name" validate:"required,min=2,max=100"`
	ParentID  *string             `json:"parentId"`
	Type      models.CategoryType `json:"type"`
	SortOrder int                 `json:"sortOrder"`
}

// ProductInput is the admin payload for product writes. It carries no
// category type field: the type is always recomputed from the category record.
type ProductInput struct {
	Name          string           `json:"name" validate:"required,min=3,max=150"`
	Description   string           `json:"description" validate:"omitempty,max=2000"`
	Price         float64          `json:"price" validate:"required,gt=0"`
	OriginalPrice *float64         `json:"originalPrice" validate:"omitempty,gt=0"`
	Stock         int              `json:"stock" validate:"gte=0"`
	CategoryID    string           `json:"categoryId" validate:"required"`
	Brand         string           `json:"brand"`
	Country       string           `json:"country"`
	Attributes    json.RawMessage  `json:"attributes"`
	Variants      []models.Variant `json:"variants" validate:"dive"`
	Images        []string         `json:"images"`
	IsActive      *bool            `json:"isActive"`
	IsBrandNew    bool             `json:"isBrandNew"`
	IsOnSale      bool             `json:"isOnSale"`
	IsFeatured    bool             `json:"isFeatured"`
}

// GetCategories returns the whole category tree as a flat, ordered list.
func (s *CatalogService) GetCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// GetCategoryByID returns one category.
func (s *CatalogService) GetCategoryByID(id string) (*models.Category, error) {
	return s.categoryRepo.GetByID(id)
}

// CreateCategory creates a category. A subcategory inherits its parent's
// type; declaring a different one is a business rule violation, not a
// silent correction.
func (s *CatalogService) CreateCategory(input CategoryInput) (*models.Category, error) {
	category := models.Category{
		Name:      input.Name,
		Slug:      slug.Make(input.Name),
		Type:      input.Type,
		SortOrder: input.SortOrder,
		IsActive:  true,
	}

	if input.ParentID != nil {
		parent, err := s.categoryRepo.GetByID(*input.ParentID)
		if err != nil {
			return nil, err
		}
		if input.Type == "" {
			category.Type = parent.Type
		} else if input.Type != parent.Type {
			return nil, apperrors.NewBusinessRule(apperrors.CodeCategoryTypeMismatch,
				"subcategory type %s does not match parent type %s", input.Type, parent.Type)
		}
		category.ParentID = input.ParentID
		category.Level = parent.Level + 1
	}

	if !category.Type.Valid() {
		return nil, apperrors.NewValidation("unknown category type %q", input.Type)
	}

	if err := s.categoryRepo.Create(&category); err != nil {
		return nil, err
	}
	s.publish("catalog.category.created", map[string]interface{}{"categoryId": category.ID, "slug": category.Slug})
	return &category, nil
}

// UpdateCategory applies an admin edit. On reparenting, the new parent's
// type must match and the ancestor chain is walked to reject cycles
// before anything is persisted. A type change is refused while products
// or subcategories still depend on the current type.
func (s *CatalogService) UpdateCategory(id string, input CategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" && input.Name != category.Name {
		category.Name = input.Name
		category.Slug = slug.Make(input.Name)
	}
	category.SortOrder = input.SortOrder

	nextType := category.Type
	if input.Type != "" {
		nextType = input.Type
	}

	if input.ParentID == nil {
		category.ParentID = nil
		category.Level = 0
	} else {
		parent, err := s.categoryRepo.GetByID(*input.ParentID)
		if err != nil {
			return nil, err
		}
		if nextType != parent.Type {
			return nil, apperrors.NewBusinessRule(apperrors.CodeCategoryTypeMismatch,
				"subcategory type %s does not match parent type %s", nextType, parent.Type)
		}
		if err := s.checkNoCycle(id, parent); err != nil {
			return nil, err
		}
		category.ParentID = input.ParentID
		category.Level = parent.Level + 1
	}

	if nextType != category.Type {
		count, err := s.productRepo.CountByCategory(id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperrors.NewBusinessRule(apperrors.CodeCategoryTypeMismatch,
				"cannot change the type of category %s while %d product(s) reference it", id, count)
		}
		// A subcategory inherits its parent's type, so changing the type
		// here would strand every child with a mismatched parent.
		all, err := s.categoryRepo.GetAll()
		if err != nil {
			return nil, err
		}
		for _, c := range all {
			if c.ParentID != nil && *c.ParentID == id {
				return nil, apperrors.NewBusinessRule(apperrors.CodeCategoryTypeMismatch,
					"cannot change the type of category %s while subcategory %s inherits it", id, c.ID)
			}
		}
		category.Type = nextType
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	s.publish("catalog.category.updated", map[string]interface{}{"categoryId": category.ID, "slug": category.Slug})
	return category, nil
}

// checkNoCycle walks the ancestor chain starting at the proposed parent
// and fails if it ever reaches the category being edited.
func (s *CatalogService) checkNoCycle(id string, parent *models.Category) error {
	current := parent
	for depth := 0; depth < maxCategoryDepth; depth++ {
		if current.ID == id {
			return apperrors.NewBusinessRule(apperrors.CodeCategoryCycle,
				"category %s cannot become a descendant of itself", id)
		}
		if current.ParentID == nil {
			return nil
		}
		next, err := s.categoryRepo.GetByID(*current.ParentID)
		if err != nil {
			return err
		}
		current = next
	}
	return apperrors.NewBusinessRule(apperrors.CodeCategoryCycle,
		"parent chain of category %s exceeds the maximum depth", parent.ID)
}

// DeactivateCategory soft-disables a category. Deactivation is blocked
// while any product still references it.
func (s *CatalogService) DeactivateCategory(id string) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	count, err := s.productRepo.CountByCategory(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewBusinessRule(apperrors.CodeCategoryInUse,
			"category %s still has %d product(s)", id, count)
	}
	category.IsActive = false
	if err := s.categoryRepo.Update(category); err != nil {
		return err
	}
	s.publish("catalog.category.updated", map[string]interface{}{"categoryId": id, "isActive": false})
	return nil
}

// CreateProduct validates and stores a new product. The attribute bag is
// decoded under the category's resolved type, required common fields are
// enforced, and unknown keys are dropped.
func (s *CatalogService) CreateProduct(input ProductInput) (*models.Product, error) {
	product, err := s.buildProduct(input, nil)
	if err != nil {
		return nil, err
	}
	if existing, _ := s.productRepo.GetBySlug(product.Slug); existing != nil {
		return nil, apperrors.NewConflict("product slug", product.Slug)
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	s.publish("catalog.product.created", map[string]interface{}{"productId": product.ID, "slug": product.Slug})
	return product, nil
}

// UpdateProduct applies an admin edit. categoryType is recomputed from
// the (possibly new) category, never taken from the client.
func (s *CatalogService) UpdateProduct(id string, input ProductInput) (*models.Product, error) {
	existing, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	product, err := s.buildProduct(input, existing)
	if err != nil {
		return nil, err
	}
	if other, _ := s.productRepo.GetBySlug(product.Slug); other != nil && other.ID != id {
		return nil, apperrors.NewConflict("product slug", product.Slug)
	}
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	s.publish("catalog.product.updated", map[string]interface{}{"productId": product.ID, "slug": product.Slug})
	return product, nil
}

// DeleteProduct removes a product from the catalog.
func (s *CatalogService) DeleteProduct(id string) error {
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	s.publish("catalog.product.deleted", map[string]interface{}{"productId": id})
	return nil
}

// GetAllProducts returns every product for the back-office listing.
func (s *CatalogService) GetAllProducts() ([]models.Product, error) {
	return s.productRepo.GetAll()
}

// buildProduct turns an input into a validated model. existing carries
// identity and creation metadata on update, nil on create.
func (s *CatalogService) buildProduct(input ProductInput, existing *models.Product) (*models.Product, error) {
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, apperrors.NewValidation("category %s is not active", category.ID)
	}

	set, err := catalog.DecodeAttributes(category.Type, input.Attributes)
	if err != nil {
		return nil, err
	}
	if err := catalog.ValidateAttributes(category.Type, set); err != nil {
		return nil, err
	}
	if err := catalog.ValidateDistinct(input.Variants); err != nil {
		return nil, err
	}

	images, err := json.Marshal(input.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode images: %w", err)
	}

	product := &models.Product{
		Name:          input.Name,
		Slug:          slug.Make(input.Name),
		Description:   input.Description,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Stock:         input.Stock,
		CategoryID:    category.ID,
		CategoryType:  category.Type,
		Brand:         input.Brand,
		Country:       input.Country,
		Attributes:    models.AttributeColumn{Set: set},
		Variants:      input.Variants,
		Images:        datatypes.JSON(images),
		IsActive:      input.IsActive == nil || *input.IsActive,
		IsBrandNew:    input.IsBrandNew,
		IsOnSale:      input.IsOnSale,
		IsFeatured:    input.IsFeatured,
	}
	if existing != nil {
		product.ID = existing.ID
		product.CreatedAt = existing.CreatedAt
	}
	return product, nil
}

// publish sends a catalog event, logging instead of failing the write
// when the broker is unavailable.
func (s *CatalogService) publish(routingKey string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.mqClient.Publish("catalog", routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
