package catalog

import (
	"context"
)

// RepositoryPort defines data access methods for the catalog read model.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (*ProductVariant, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]*ProductVariant, error)
	ListByProduct(ctx context.Context, productID int64) ([]ProductVariant, error)
}

// Service exposes read access to product variants. The catalog is maintained
// elsewhere; order flows only ever read from it.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// GetVariant returns one variant by id.
func (s *Service) GetVariant(ctx context.Context, id int64) (*ProductVariant, error) {
	return s.repo.Get(ctx, id)
}

// ResolveVariants loads the variants referenced by a draft order.
func (s *Service) ResolveVariants(ctx context.Context, ids []int64) (map[int64]*ProductVariant, error) {
	return s.repo.GetMany(ctx, ids)
}

// ListVariants returns the active variants of a product.
func (s *Service) ListVariants(ctx context.Context, productID int64) ([]ProductVariant, error) {
	return s.repo.ListByProduct(ctx, productID)
}
