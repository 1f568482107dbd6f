package services_test

import (
	"fmt"
	"testing"

	"lavka/internal/apperrors"
	"lavka/internal/filter"
	"lavka/internal/models"
	"lavka/internal/repositories"
	"lavka/internal/services"

	"github.com/stretchr/testify/assert"
)

type queryFixture struct {
	query    *services.QueryService
	catalog  *services.CatalogService
	reviews  *services.ReviewService
	shoes    *models.Category
	sneakers *models.Category
	glasses  *models.Category
}

func newQueryFixture(t *testing.T) *queryFixture {
	t.Helper()
	categoryRepo := repositories.NewMockCategoryRepository()
	productRepo := repositories.NewMockProductRepository()
	reviewRepo := repositories.NewMockReviewRepository()

	catalogService := services.NewCatalogService(categoryRepo, productRepo, nil)
	reviewService := services.NewReviewService(reviewRepo, productRepo)
	queryService := services.NewQueryService(productRepo, categoryRepo, reviewService)

	shoes, err := catalogService.CreateCategory(services.CategoryInput{Name: "Обувь", Type: models.CategoryShoes})
	assert.NoError(t, err)
	sneakers, err := catalogService.CreateCategory(services.CategoryInput{Name: "Кроссовки", ParentID: &shoes.ID})
	assert.NoError(t, err)
	glasses, err := catalogService.CreateCategory(services.CategoryInput{Name: "Очки", Type: models.CategoryGlasses})
	assert.NoError(t, err)

	return &queryFixture{
		query:    queryService,
		catalog:  catalogService,
		reviews:  reviewService,
		shoes:    shoes,
		sneakers: sneakers,
		glasses:  glasses,
	}
}

func (f *queryFixture) addShoe(t *testing.T, name string, price float64) *models.Product {
	t.Helper()
	product, err := f.catalog.CreateProduct(services.ProductInput{
		Name:       name,
		Price:      price,
		CategoryID: f.sneakers.ID,
		Attributes: completeShoesAttributes,
	})
	assert.NoError(t, err)
	return product
}

func TestQueryService_CategorySlugIncludesDescendants(t *testing.T) {
	f := newQueryFixture(t)
	f.addShoe(t, "Runner Pro", 4990)
	f.addShoe(t, "Strider", 3990)

	_, err := f.catalog.CreateProduct(services.ProductInput{
		Name:       "Aviator Classic",
		Price:      2490,
		CategoryID: f.glasses.ID,
		Attributes: []byte(`{
			"gender": "Унисекс",
			"color": "Золотой",
			"season": "Лето",
			"availability": "В наличии",
			"purchaseType": "Розница"
		}`),
	})
	assert.NoError(t, err)

	// Querying the parent slug finds products filed under the child.
	result, err := f.query.Query(filter.FilterState{}, "obuv", 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Pagination.Total)

	result, err = f.query.Query(filter.FilterState{}, "ochki", 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.Total)

	var nfErr *apperrors.NotFoundError
	_, err = f.query.Query(filter.FilterState{}, "no-such-category", 1, 20)
	assert.ErrorAs(t, err, &nfErr)
}

func TestQueryService_PaginationEnvelope(t *testing.T) {
	f := newQueryFixture(t)
	for i := 0; i < 5; i++ {
		f.addShoe(t, fmt.Sprintf("Модель %d", i), 1000+float64(i))
	}

	result, err := f.query.Query(filter.FilterState{}.WithSort(filter.SortPriceLow), "", 1, 2)
	assert.NoError(t, err)
	assert.Len(t, result.Products, 2)
	assert.Equal(t, services.Pagination{
		Page: 1, Limit: 2, Total: 5, Pages: 3, HasNext: true, HasPrev: false,
	}, result.Pagination)

	result, err = f.query.Query(filter.FilterState{}.WithSort(filter.SortPriceLow), "", 3, 2)
	assert.NoError(t, err)
	assert.Len(t, result.Products, 1)
	assert.True(t, result.Pagination.HasPrev)
	assert.False(t, result.Pagination.HasNext)

	// A page past the end is empty but keeps the envelope consistent.
	result, err = f.query.Query(filter.FilterState{}, "", 9, 2)
	assert.NoError(t, err)
	assert.Empty(t, result.Products)
	assert.Equal(t, 5, result.Pagination.Total)
}

func TestQueryService_PageSizeDefaults(t *testing.T) {
	f := newQueryFixture(t)
	f.addShoe(t, "Runner Pro", 4990)

	result, err := f.query.Query(filter.FilterState{}, "", 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.Page)
	assert.Equal(t, services.DefaultPageSize, result.Pagination.Limit)

	result, err = f.query.Query(filter.FilterState{}, "", 1, 10_000)
	assert.NoError(t, err)
	assert.Equal(t, services.MaxPageSize, result.Pagination.Limit)
}

func TestQueryService_ListStripsBagAndAttachesRating(t *testing.T) {
	f := newQueryFixture(t)
	product := f.addShoe(t, "Runner Pro", 4990)

	review, err := f.reviews.Submit("user-1", product.ID, 4, "")
	assert.NoError(t, err)
	assert.NoError(t, f.reviews.Approve(review.ID))

	result, err := f.query.Query(filter.FilterState{}, "", 1, 20)
	assert.NoError(t, err)
	assert.Len(t, result.Products, 1)
	assert.Equal(t, 4.0, result.Products[0].Rating)
	assert.Equal(t, 1, result.Products[0].ReviewsCount)
	assert.Equal(t, models.CategoryShoes, result.Products[0].CategoryType)
}

func TestQueryService_InactiveProductsAreInvisible(t *testing.T) {
	f := newQueryFixture(t)
	product := f.addShoe(t, "Runner Pro", 4990)

	inactive := false
	_, err := f.catalog.UpdateProduct(product.ID, services.ProductInput{
		Name:       "Runner Pro",
		Price:      4990,
		CategoryID: f.sneakers.ID,
		Attributes: completeShoesAttributes,
		IsActive:   &inactive,
	})
	assert.NoError(t, err)

	result, err := f.query.Query(filter.FilterState{}, "", 1, 20)
	assert.NoError(t, err)
	assert.Empty(t, result.Products)
}

func TestQueryService_PreviewMatchesQuery(t *testing.T) {
	f := newQueryFixture(t)
	f.addShoe(t, "Runner Pro", 4990)
	f.addShoe(t, "Strider", 3990)

	state := filter.FilterState{}.WithPriceRange(0, 4000)

	preview, err := f.query.Preview(state)
	assert.NoError(t, err)
	assert.Equal(t, 1, preview.Total)
	assert.Equal(t, "strider", preview.Products[0].Slug)

	// Facet counts run over the unfiltered snapshot.
	assert.Equal(t, 2, preview.Facets.Categories[f.sneakers.ID])

	// The authoritative query agrees with the preview.
	result, err := f.query.Query(state, "", 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, preview.Total, result.Pagination.Total)
}

func TestQueryService_ProductDetail(t *testing.T) {
	f := newQueryFixture(t)
	product := f.addShoe(t, "Runner Pro", 4990)

	review, err := f.reviews.Submit("user-1", product.ID, 5, "")
	assert.NoError(t, err)
	assert.NoError(t, f.reviews.Approve(review.ID))

	detail, err := f.query.ProductDetail("runner-pro")
	assert.NoError(t, err)
	assert.Equal(t, product.ID, detail.ID)
	assert.Equal(t, 5.0, detail.AverageRating)
	assert.NotNil(t, detail.Attributes.Set)

	var nfErr *apperrors.NotFoundError
	_, err = f.query.ProductDetail("no-such-slug")
	assert.ErrorAs(t, err, &nfErr)
}
