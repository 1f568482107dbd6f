package services

import (
	"lavka/internal/filter"
	"lavka/internal/models"
	"lavka/internal/repositories"
)

// Default and maximum page sizes for the catalog listing.
const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// QueryService is the authoritative, paginated side of the filter
// engine. It resolves the product snapshot and ratings, delegates
// matching and sorting to the filter package (the same code path the
// instant preview uses) and pages the result.
type QueryService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	reviews      *ReviewService
}

// NewQueryService creates a new QueryService.
func NewQueryService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, reviews *ReviewService) *QueryService {
	return &QueryService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviews:      reviews,
	}
}

// ProductSummary is the list-response projection of a product: the raw
// attribute bag and image array are stripped, the first image and the
// rating aggregate are resolved.
type ProductSummary struct {
	ID            string              `json:"id"`
	Slug          string              `json:"slug"`
	Name          string              `json:"name"`
	Price         float64             `json:"price"`
	OriginalPrice *float64            `json:"originalPrice,omitempty"`
	Stock         int                 `json:"stock"`
	CategoryID    string              `json:"categoryId"`
	CategoryType  models.CategoryType `json:"categoryType"`
	Brand         string              `json:"brand,omitempty"`
	Country       string              `json:"country,omitempty"`
	MainImage     string              `json:"mainImage"`
	Rating        float64             `json:"rating"`
	ReviewsCount  int                 `json:"reviewsCount"`
	IsBrandNew    bool                `json:"isBrandNew"`
	IsOnSale      bool                `json:"isOnSale"`
	IsFeatured    bool                `json:"isFeatured"`
}

// Pagination is the page envelope of a catalog listing.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// QueryResult is one page of filtered, sorted products.
type QueryResult struct {
	Products   []ProductSummary `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

// PreviewResult is the unpaginated preview: the full filtered list plus
// facet counts, for instant UI feedback.
type PreviewResult struct {
	Products []ProductSummary   `json:"products"`
	Facets   filter.FacetCounts `json:"facets"`
	Total    int                `json:"total"`
}

// Query runs the authoritative catalog query. A category slug narrows
// the state to that category and all of its descendants.
func (s *QueryService) Query(state filter.FilterState, categorySlug string, page, limit int) (*QueryResult, error) {
	products, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	if categorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(categorySlug)
		if err != nil {
			return nil, err
		}
		ids, err := s.descendantIDs(category.ID)
		if err != nil {
			return nil, err
		}
		state = state.WithCategories(ids...)
	}

	matched := filter.Apply(products, state)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	total := len(matched)
	pages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &QueryResult{
		Products: summarize(matched[start:end]),
		Pagination: Pagination{
			Page:    page,
			Limit:   limit,
			Total:   total,
			Pages:   pages,
			HasNext: page < pages,
			HasPrev: page > 1 && total > 0,
		},
	}, nil
}

// Preview runs the same engine without pagination and adds facet counts.
func (s *QueryService) Preview(state filter.FilterState) (*PreviewResult, error) {
	products, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	matched := filter.Apply(products, state)
	return &PreviewResult{
		Products: summarize(matched),
		Facets:   filter.Facets(products),
		Total:    len(matched),
	}, nil
}

// ProductDetail returns one product by slug with its rating resolved.
// Unlike the listing, the detail keeps the full attribute bag, variants,
// and image array.
func (s *QueryService) ProductDetail(productSlug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(productSlug)
	if err != nil {
		return nil, err
	}
	rating, err := s.reviews.RatingFor(product.ID)
	if err != nil {
		return nil, err
	}
	product.AverageRating = rating.Average
	product.ReviewsCount = rating.Count
	return product, nil
}

// snapshot loads the active products with ratings attached.
func (s *QueryService) snapshot() ([]models.Product, error) {
	products, err := s.productRepo.ListActive()
	if err != nil {
		return nil, err
	}
	if err := s.reviews.AttachRatings(products); err != nil {
		return nil, err
	}
	return products, nil
}

// descendantIDs collects a category's subtree, itself included.
func (s *QueryService) descendantIDs(categoryID string) ([]string, error) {
	all, err := s.categoryRepo.GetAll()
	if err != nil {
		return nil, err
	}
	children := make(map[string][]string)
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}
	ids := []string{categoryID}
	for i := 0; i < len(ids); i++ {
		ids = append(ids, children[ids[i]]...)
	}
	return ids, nil
}

func summarize(products []models.Product) []ProductSummary {
	out := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		out = append(out, ProductSummary{
			ID:            p.ID,
			Slug:          p.Slug,
			Name:          p.Name,
			Price:         p.Price,
			OriginalPrice: p.OriginalPrice,
			Stock:         p.Stock,
			CategoryID:    p.CategoryID,
			CategoryType:  p.CategoryType,
			Brand:         p.Brand,
			Country:       p.Country,
			MainImage:     p.MainImage(),
			Rating:        p.AverageRating,
			ReviewsCount:  p.ReviewsCount,
			IsBrandNew:    p.IsBrandNew,
			IsOnSale:      p.IsOnSale,
			IsFeatured:    p.IsFeatured,
		})
	}
	return out
}
