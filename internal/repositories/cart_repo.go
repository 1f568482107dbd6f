package repositories

import (
	"errors"

	"lavka/internal/models"
)

// ErrDuplicateLine is returned by Create when another line already holds
// the same (user, product, size, color) identity. The cart service
// recovers from it by retrying as a quantity update; it is never meant
// to reach a caller.
var ErrDuplicateLine = errors.New("cart line already exists for this identity")

// CartRepository defines the interface for cart line data access.
type CartRepository interface {
	ListByUser(userID string) ([]models.CartLine, error)
	GetByID(id string) (*models.CartLine, error)
	// FindByIdentity returns (nil, nil) when no line holds the tuple.
	FindByIdentity(userID, productID, size, color string) (*models.CartLine, error)
	Create(line *models.CartLine) error
	UpdateQuantity(id string, quantity int) error
	// IncrementQuantity adds delta to the stored quantity in one
	// statement, so two concurrent merges cannot overwrite each other.
	IncrementQuantity(id string, delta int) error
	Delete(id string) error
	ClearByUser(userID string) error
}
