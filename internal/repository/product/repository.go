package product

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	// Upsert inserts or updates a product keyed by its external id.
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	// GetByRef resolves a product by internal uuid or external id.
	GetByRef(ctx context.Context, ref string) (*domain.Product, error)
	// List returns all products ordered by external id.
	List(ctx context.Context) ([]domain.Product, error)
}
