package repositories

import (
	"sort"
	"sync"
	"time"

	"lavka/internal/apperrors"
	"lavka/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
// It enforces the same identity uniqueness the composite index enforces
// in the database, so merge semantics can be exercised without a store.
type MockCartRepository struct {
	lines map[string]models.CartLine
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		lines: make(map[string]models.CartLine),
	}
}

// ListByUser returns the user's cart lines, oldest first.
func (r *MockCartRepository) ListByUser(userID string) ([]models.CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.CartLine, 0)
	for _, l := range r.lines {
		if l.UserID == userID {
			list = append(list, l)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

// GetByID returns a single cart line.
func (r *MockCartRepository) GetByID(id string) (*models.CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	line, ok := r.lines[id]
	if !ok {
		return nil, apperrors.NewNotFound("cart line", id)
	}
	return &line, nil
}

// FindByIdentity looks up a line by the full identity tuple.
func (r *MockCartRepository) FindByIdentity(userID, productID, size, color string) (*models.CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if line := r.findLocked(userID, productID, size, color); line != nil {
		found := *line
		return &found, nil
	}
	return nil, nil
}

func (r *MockCartRepository) findLocked(userID, productID, size, color string) *models.CartLine {
	for id := range r.lines {
		l := r.lines[id]
		if l.UserID == userID && l.ProductID == productID && l.Size == size && l.Color == color {
			return &l
		}
	}
	return nil
}

// Create inserts a new line, rejecting identity duplicates the way the
// database unique index would.
func (r *MockCartRepository) Create(line *models.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findLocked(line.UserID, line.ProductID, line.Size, line.Color) != nil {
		return ErrDuplicateLine
	}
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	line.CreatedAt = time.Now()
	line.UpdatedAt = line.CreatedAt
	r.lines[line.ID] = *line
	return nil
}

// UpdateQuantity replaces the quantity of an existing line.
func (r *MockCartRepository) UpdateQuantity(id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, ok := r.lines[id]
	if !ok {
		return apperrors.NewNotFound("cart line", id)
	}
	line.Quantity = quantity
	line.UpdatedAt = time.Now()
	r.lines[id] = line
	return nil
}

// IncrementQuantity adds delta to the stored quantity under the lock,
// mirroring the relative update the database performs.
func (r *MockCartRepository) IncrementQuantity(id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, ok := r.lines[id]
	if !ok {
		return apperrors.NewNotFound("cart line", id)
	}
	line.Quantity += delta
	line.UpdatedAt = time.Now()
	r.lines[id] = line
	return nil
}

// Delete removes a line.
func (r *MockCartRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lines[id]; !ok {
		return apperrors.NewNotFound("cart line", id)
	}
	delete(r.lines, id)
	return nil
}

// ClearByUser removes every line of a user's cart.
func (r *MockCartRepository) ClearByUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, l := range r.lines {
		if l.UserID == userID {
			delete(r.lines, id)
		}
	}
	return nil
}
