package store

import (
	"context"

	"github.com/prn-tf/grouporder-hub/internal/domain"
)

// GetProducts returns every product, in no particular order.
func (s *Store) GetProducts(ctx context.Context) []*domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Product, 0, len(s.products))
	for _, product := range s.products {
		p := *product
		out = append(out, &p)
	}
	return out
}

// GetProductsByCategory returns the products in the given category.
// CategoryAll is a query wildcard equivalent to GetProducts.
func (s *Store) GetProductsByCategory(ctx context.Context, category string) []*domain.Product {
	if category == domain.CategoryAll {
		return s.GetProducts(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Product
	for _, product := range s.products {
		if product.Category == category {
			p := *product
			out = append(out, &p)
		}
	}
	return out
}

// GetProduct returns the product with the given ID.
func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p := *product
	return &p, nil
}

// CreateProduct stores a new product. Product IDs are a plain monotonic
// sequence, never recycled.
func (s *Store) CreateProduct(ctx context.Context, product domain.Product) *domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = s.productID
	s.productID++

	p := product
	s.products[p.ID] = &p
	s.save()

	s.logger.Info().
		Int64("product_id", p.ID).
		Str("name", p.Name).
		Str("category", p.Category).
		Msg("product created")

	out := p
	return &out
}

// UpdateProduct merges the patch over the stored record.
func (s *Store) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	patch.Apply(product)
	s.save()

	p := *product
	return &p, nil
}

// DeleteProduct removes a product. Nothing cascades: orders keep their
// own price/product snapshots in the order items.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}

	delete(s.products, id)
	s.save()

	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}
