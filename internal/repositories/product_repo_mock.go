package repositories

import (
	"sort"
	"sync"
	"time"

	"lavka/internal/apperrors"
	"lavka/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	order    map[string]int // creation order, so listings stay deterministic
	next     int
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
		order:    make(map[string]int),
	}
}

// GetAll returns all products in creation order.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(false), nil
}

// ListActive returns the active products in creation order.
func (r *MockProductRepository) ListActive() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(true), nil
}

func (r *MockProductRepository) sorted(activeOnly bool) []models.Product {
	list := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if activeOnly && !p.IsActive {
			continue
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		return r.order[list[i].ID] < r.order[list[j].ID]
	})
	return list
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.NewNotFound("product", id)
	}
	return &product, nil
}

// GetBySlug returns a product by its slug.
func (r *MockProductRepository) GetBySlug(slug string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, apperrors.NewNotFound("product", slug)
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	for _, p := range r.products {
		if p.Slug == product.Slug {
			return apperrors.NewConflict("product slug", product.Slug)
		}
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	r.order[product.ID] = r.next
	r.next++
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return apperrors.NewNotFound("product", product.ID)
	}
	for id, p := range r.products {
		if id != product.ID && p.Slug == product.Slug {
			return apperrors.NewConflict("product slug", product.Slug)
		}
	}
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperrors.NewNotFound("product", id)
	}
	delete(r.products, id)
	delete(r.order, id)
	return nil
}

// CountByCategory counts products referencing a category.
func (r *MockProductRepository) CountByCategory(categoryID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, p := range r.products {
		if p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}
