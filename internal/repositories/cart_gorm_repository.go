package repositories

import (
	"errors"
	"fmt"

	"lavka/internal/apperrors"
	"lavka/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository. The
// composite unique index on (user_id, product_id, size, color) is the
// authority on line identity; Create surfaces a violation as
// ErrDuplicateLine so the service can convert the race into an update.
// Requires gorm.Config{TranslateError: true}.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// ListByUser returns the user's cart lines, oldest first.
func (r *GORMCartRepository) ListByUser(userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.Where("user_id = ?", userID).Order("created_at").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart lines for user %s: %w", userID, err)
	}
	return lines, nil
}

// GetByID returns a single cart line.
func (r *GORMCartRepository) GetByID(id string) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.First(&line, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("cart line", id)
		}
		return nil, fmt.Errorf("failed to get cart line %s: %w", id, err)
	}
	return &line, nil
}

// FindByIdentity looks up a line by the full identity tuple.
func (r *GORMCartRepository) FindByIdentity(userID, productID, size, color string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.Where("user_id = ? AND product_id = ? AND size = ? AND color = ?",
		userID, productID, size, color).First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find cart line by identity: %w", err)
	}
	return &line, nil
}

// Create inserts a new line. A concurrent insert of the same identity
// loses the race at the unique index and comes back as ErrDuplicateLine.
func (r *GORMCartRepository) Create(line *models.CartLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if err := r.db.Create(line).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateLine
		}
		return fmt.Errorf("failed to create cart line: %w", err)
	}
	return nil
}

// UpdateQuantity replaces the quantity of an existing line.
func (r *GORMCartRepository) UpdateQuantity(id string, quantity int) error {
	res := r.db.Model(&models.CartLine{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update quantity for cart line %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("cart line", id)
	}
	return nil
}

// IncrementQuantity adds delta to the stored quantity as a relative
// update, letting the database serialize concurrent merges.
func (r *GORMCartRepository) IncrementQuantity(id string, delta int) error {
	res := r.db.Model(&models.CartLine{}).Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("failed to increment quantity for cart line %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("cart line", id)
	}
	return nil
}

// Delete removes a line.
func (r *GORMCartRepository) Delete(id string) error {
	res := r.db.Delete(&models.CartLine{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart line %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("cart line", id)
	}
	return nil
}

// ClearByUser removes every line of a user's cart.
func (r *GORMCartRepository) ClearByUser(userID string) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&models.CartLine{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart for user %s: %w", userID, err)
	}
	return nil
}
