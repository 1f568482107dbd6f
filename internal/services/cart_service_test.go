package services_test

import (
	"testing"

	"lavka/internal/apperrors"
	"lavka/internal/catalog"
	"lavka/internal/models"
	"lavka/internal/repositories"
	"lavka/internal/services"

	"github.com/stretchr/testify/assert"
)

func newCartFixture(t *testing.T) (*services.CartService, *repositories.MockCartRepository, *repositories.MockProductRepository) {
	t.Helper()
	cartRepo := repositories.NewMockCartRepository()
	productRepo := repositories.NewMockProductRepository()

	sneakers := models.Product{
		ID:       "prod-sneakers",
		Name:     "Кроссовки Runner Pro",
		Slug:     "krossovki-runner-pro",
		Price:    100,
		IsActive: true,
		Variants: []models.Variant{
			{Type: models.VariantSize, Value: "41"},
			{Type: models.VariantSize, Value: "42"},
			{Type: models.VariantColor, Value: "Чёрный"},
			{Type: models.VariantColor, Value: "Белый"},
		},
	}
	glasses := models.Product{
		ID:       "prod-glasses",
		Name:     "Очки Aviator Classic",
		Slug:     "ochki-aviator-classic",
		Price:    300,
		IsActive: true,
	}
	inactive := models.Product{
		ID:   "prod-inactive",
		Name: "Снятый с продажи",
		Slug: "snyatyy",
	}
	assert.NoError(t, productRepo.Create(&sneakers))
	assert.NoError(t, productRepo.Create(&glasses))
	assert.NoError(t, productRepo.Create(&inactive))

	return services.NewCartService(cartRepo, productRepo), cartRepo, productRepo
}

func TestCartService_AddMergesSameIdentity(t *testing.T) {
	service, _, _ := newCartFixture(t)

	first, err := service.AddItem("user-1", "prod-sneakers", 2, "42", "Чёрный")
	assert.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	second, err := service.AddItem("user-1", "prod-sneakers", 3, "42", "Чёрный")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	summary, err := service.Cart("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.ItemCount)
	assert.Equal(t, 5, summary.TotalQuantity)
}

func TestCartService_DifferentSizeOpensNewLine(t *testing.T) {
	service, _, _ := newCartFixture(t)

	a, err := service.AddItem("user-1", "prod-sneakers", 1, "41", "Чёрный")
	assert.NoError(t, err)
	b, err := service.AddItem("user-1", "prod-sneakers", 1, "42", "Чёрный")
	assert.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	c, err := service.AddItem("user-1", "prod-sneakers", 1, "42", "Белый")
	assert.NoError(t, err)
	assert.NotEqual(t, b.ID, c.ID)

	summary, err := service.Cart("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 3, summary.ItemCount)
}

func TestCartService_CartsAreScopedPerUser(t *testing.T) {
	service, _, _ := newCartFixture(t)

	_, err := service.AddItem("user-1", "prod-glasses", 1, "", "")
	assert.NoError(t, err)
	_, err = service.AddItem("user-2", "prod-glasses", 4, "", "")
	assert.NoError(t, err)

	summary, err := service.Cart("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.TotalQuantity)
}

func TestCartService_RequiredSelectionEnforced(t *testing.T) {
	service, _, _ := newCartFixture(t)

	_, err := service.AddItem("user-1", "prod-sneakers", 1, "", "Чёрный")
	assert.Error(t, err)
	var msErr *catalog.MissingSelectionError
	assert.ErrorAs(t, err, &msErr)
	assert.Equal(t, models.VariantSize, msErr.Axis)

	// A product with no SIZE/COLOR variants needs no selection.
	_, err = service.AddItem("user-1", "prod-glasses", 1, "", "")
	assert.NoError(t, err)

	// A selection outside the axis values is rejected.
	_, err = service.AddItem("user-1", "prod-sneakers", 1, "45", "Чёрный")
	assert.Error(t, err)
}

func TestCartService_AddValidations(t *testing.T) {
	service, _, _ := newCartFixture(t)

	_, err := service.AddItem("user-1", "prod-sneakers", 0, "42", "Чёрный")
	assert.Error(t, err)

	_, err = service.AddItem("user-1", "prod-missing", 1, "", "")
	assert.Error(t, err)
	var nfErr *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nfErr)

	// Inactive products read as not found.
	_, err = service.AddItem("user-1", "prod-inactive", 1, "", "")
	assert.ErrorAs(t, err, &nfErr)
}

// racingCartRepository makes the identity probe miss once, so the
// service's insert collides with a row created in between, the same
// interleaving two concurrent adds produce against the real index.
type racingCartRepository struct {
	*repositories.MockCartRepository
	missedProbe bool
}

func (r *racingCartRepository) FindByIdentity(userID, productID, size, color string) (*models.CartLine, error) {
	if !r.missedProbe {
		r.missedProbe = true
		return nil, nil
	}
	return r.MockCartRepository.FindByIdentity(userID, productID, size, color)
}

func TestCartService_DuplicateInsertRaceRecovers(t *testing.T) {
	_, cartRepo, productRepo := newCartFixture(t)
	racing := &racingCartRepository{MockCartRepository: cartRepo}
	service := services.NewCartService(racing, productRepo)

	// The concurrent add that wins the race.
	raced := &models.CartLine{
		UserID:    "user-1",
		ProductID: "prod-glasses",
		Quantity:  2,
	}
	assert.NoError(t, cartRepo.Create(raced))

	// Our add probes (miss), inserts (duplicate key), re-probes, and
	// folds its quantity into the winner's row.
	line, err := service.AddItem("user-1", "prod-glasses", 3, "", "")
	assert.NoError(t, err)
	assert.Equal(t, raced.ID, line.ID)
	assert.Equal(t, 5, line.Quantity)

	// Still exactly one line for the identity.
	summary, err := service.Cart("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.ItemCount)
}

// interleavedCartRepository lands a concurrent merge between the
// service's identity read and its quantity write. An absolute write
// based on the read snapshot would overwrite that merge.
type interleavedCartRepository struct {
	*repositories.MockCartRepository
	betweenDelta int
}

func (r *interleavedCartRepository) FindByIdentity(userID, productID, size, color string) (*models.CartLine, error) {
	line, err := r.MockCartRepository.FindByIdentity(userID, productID, size, color)
	if err != nil || line == nil {
		return line, err
	}
	if r.betweenDelta != 0 {
		delta := r.betweenDelta
		r.betweenDelta = 0
		if err := r.MockCartRepository.IncrementQuantity(line.ID, delta); err != nil {
			return nil, err
		}
	}
	return line, nil
}

func TestCartService_ConcurrentMergeKeepsBothIncrements(t *testing.T) {
	_, cartRepo, productRepo := newCartFixture(t)
	interleaved := &interleavedCartRepository{MockCartRepository: cartRepo}
	service := services.NewCartService(interleaved, productRepo)

	_, err := service.AddItem("user-1", "prod-glasses", 2, "", "")
	assert.NoError(t, err)

	// A concurrent add of 3 lands right after our read of the line.
	interleaved.betweenDelta = 3
	line, err := service.AddItem("user-1", "prod-glasses", 4, "", "")
	assert.NoError(t, err)
	assert.Equal(t, 2+3+4, line.Quantity)

	summary, err := service.Cart("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.ItemCount)
	assert.Equal(t, 9, summary.TotalQuantity)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	service, _, _ := newCartFixture(t)

	line, err := service.AddItem("user-1", "prod-glasses", 2, "", "")
	assert.NoError(t, err)

	deleted, err := service.UpdateQuantity("user-1", line.ID, 7)
	assert.NoError(t, err)
	assert.False(t, deleted)

	summary, err := service.Cart("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 7, summary.TotalQuantity)

	// Quantity below 1 deletes the line.
	deleted, err = service.UpdateQuantity("user-1", line.ID, 0)
	assert.NoError(t, err)
	assert.True(t, deleted)

	summary, err = service.Cart("user-1")
	assert.NoError(t, err)
	assert.Empty(t, summary.Items)
}

func TestCartService_ForeignLineReadsAsNotFound(t *testing.T) {
	service, _, _ := newCartFixture(t)

	line, err := service.AddItem("user-1", "prod-glasses", 1, "", "")
	assert.NoError(t, err)

	_, err = service.UpdateQuantity("user-2", line.ID, 5)
	var nfErr *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nfErr)

	err = service.RemoveItem("user-2", line.ID)
	assert.ErrorAs(t, err, &nfErr)
}

func TestCartService_Totals(t *testing.T) {
	service, _, _ := newCartFixture(t)

	_, err := service.AddItem("user-1", "prod-sneakers", 2, "42", "Чёрный")
	assert.NoError(t, err)
	_, err = service.AddItem("user-1", "prod-glasses", 1, "", "")
	assert.NoError(t, err)

	summary, err := service.Cart("user-1")
	assert.NoError(t, err)
	assert.Equal(t, 2, summary.ItemCount)
	assert.Equal(t, 3, summary.TotalQuantity)
	assert.Equal(t, 2*100.0+1*300.0, summary.TotalPrice)
}

func TestCartService_Clear(t *testing.T) {
	service, _, _ := newCartFixture(t)

	_, err := service.AddItem("user-1", "prod-sneakers", 1, "41", "Белый")
	assert.NoError(t, err)
	_, err = service.AddItem("user-1", "prod-glasses", 1, "", "")
	assert.NoError(t, err)

	assert.NoError(t, service.Clear("user-1"))

	summary, err := service.Cart("user-1")
	assert.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.Zero(t, summary.TotalPrice)
}
