package services

import (
	"errors"
	"fmt"

	"lavka/internal/apperrors"
	"lavka/internal/catalog"
	"lavka/internal/models"
	"lavka/internal/repositories"
)

// CartService owns cart line merge/split/quantity semantics. Line
// identity is the (user, product, size, color) tuple: adds with the same
// tuple merge into one line, a different size or color opens a new one.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CartItem is one cart line joined with its product for display.
type CartItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	MainImage string  `json:"mainImage"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

// CartSummary is the whole cart plus its totals.
type CartSummary struct {
	Items         []CartItem `json:"items"`
	ItemCount     int        `json:"itemCount"`
	TotalQuantity int        `json:"totalQuantity"`
	TotalPrice    float64    `json:"totalPrice"`
}

// AddItem merges qty into the line identified by (userID, productID,
// size, color), creating it when absent. Products with SIZE or COLOR
// variants require the matching selection. Losing the insert race to a
// concurrent add with the same identity is recovered locally as a
// quantity update and never surfaces to the caller.
func (s *CartService) AddItem(userID, productID string, qty int, size, color string) (*models.CartLine, error) {
	if qty < 1 {
		return nil, apperrors.NewValidation("quantity must be at least 1, got %d", qty)
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, apperrors.NewNotFound("product", productID)
	}
	if err := catalog.ValidateSelection(product.Variants, size, color); err != nil {
		return nil, err
	}

	if line, err := s.cartRepo.FindByIdentity(userID, productID, size, color); err != nil {
		return nil, err
	} else if line != nil {
		return s.bump(line, qty)
	}

	line := &models.CartLine{
		UserID:    userID,
		ProductID: productID,
		Size:      size,
		Color:     color,
		Quantity:  qty,
	}
	err = s.cartRepo.Create(line)
	if err == nil {
		return line, nil
	}
	if !errors.Is(err, repositories.ErrDuplicateLine) {
		return nil, err
	}

	// Lost the race to a concurrent add of the same identity: the row
	// exists now, so fold our quantity into it instead.
	existing, err := s.cartRepo.FindByIdentity(userID, productID, size, color)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("cart line vanished after duplicate-key race for user %s", userID)
	}
	return s.bump(existing, qty)
}

// bump folds qty into an existing line with a relative increment, so a
// merge landing between our read and write is added to, not overwritten.
func (s *CartService) bump(line *models.CartLine, qty int) (*models.CartLine, error) {
	if err := s.cartRepo.IncrementQuantity(line.ID, qty); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByID(line.ID)
}

// UpdateQuantity replaces a line's quantity. Anything below 1 deletes
// the line, so there are no zero-quantity rows. Returns true when the line
// was deleted.
func (s *CartService) UpdateQuantity(userID, lineID string, qty int) (bool, error) {
	line, err := s.ownedLine(userID, lineID)
	if err != nil {
		return false, err
	}
	if qty < 1 {
		return true, s.cartRepo.Delete(line.ID)
	}
	return false, s.cartRepo.UpdateQuantity(line.ID, qty)
}

// RemoveItem deletes a line unconditionally.
func (s *CartService) RemoveItem(userID, lineID string) error {
	line, err := s.ownedLine(userID, lineID)
	if err != nil {
		return err
	}
	return s.cartRepo.Delete(line.ID)
}

// Clear empties the user's cart.
func (s *CartService) Clear(userID string) error {
	return s.cartRepo.ClearByUser(userID)
}

// Cart returns the user's lines joined with product data plus totals.
// Totals use the product's base price; variant price overrides are not
// applied: the line stores identity and quantity, not a resolved unit
// price.
func (s *CartService) Cart(userID string) (*CartSummary, error) {
	lines, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := &CartSummary{Items: make([]CartItem, 0, len(lines))}
	for _, line := range lines {
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve product for cart line %s: %w", line.ID, err)
		}
		item := CartItem{
			ID:        line.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Slug:      product.Slug,
			MainImage: product.MainImage(),
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			LineTotal: product.Price * float64(line.Quantity),
		}
		summary.Items = append(summary.Items, item)
		summary.TotalQuantity += line.Quantity
		summary.TotalPrice += item.LineTotal
	}
	summary.ItemCount = len(summary.Items)
	return summary, nil
}

// ownedLine fetches a line and checks it belongs to the user. A foreign
// line reads as not found rather than forbidden, to avoid confirming the
// ID exists.
func (s *CartService) ownedLine(userID, lineID string) (*models.CartLine, error) {
	line, err := s.cartRepo.GetByID(lineID)
	if err != nil {
		return nil, err
	}
	if line.UserID != userID {
		return nil, apperrors.NewNotFound("cart line", lineID)
	}
	return line, nil
}
