package service

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/domain"
	"github.com/prn-tf/grouporder-hub/internal/store"
)

// CatalogService handles the product catalog.
type CatalogService struct {
	store  *store.Store
	logger zerolog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(st *store.Store, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		store:  st,
		logger: logger.With().Str("service", "catalog").Logger(),
	}
}

// CreateProductInput contains the data for a new product. Available is
// a pointer so an omitted value can default to true.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Available   *bool
}

// Create validates and stores a new product.
func (s *CatalogService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if strings.TrimSpace(input.Name) == "" || input.Price < 0 {
		return nil, ErrInvalidProduct
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	return s.store.CreateProduct(ctx, domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Available:   available,
	}), nil
}

// List returns the catalog sorted by ID, optionally filtered by
// category. CategoryAll (and the empty string) return everything.
func (s *CatalogService) List(ctx context.Context, category string) []*domain.Product {
	var products []*domain.Product
	if category == "" {
		products = s.store.GetProducts(ctx)
	} else {
		products = s.store.GetProductsByCategory(ctx, category)
	}

	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products
}

// GetByID retrieves a product by ID.
func (s *CatalogService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Update applies a partial update to a product.
func (s *CatalogService) Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, ErrInvalidProduct
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, ErrInvalidProduct
	}

	product, err := s.store.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, ErrProductNotFound
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")
	return product, nil
}

// Delete removes a product from the catalog. Past orders keep their
// item snapshots.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return ErrProductNotFound
	}
	return nil
}
