package cart

import (
	"context"

	"storefront/internal/domain"
)

// AddItemInput carries the product snapshot captured at add time. At least
// one of ProductID/ExternalID is set.
type AddItemInput struct {
	ProductID  *string
	ExternalID *int64
	Title      string
	Price      float64
	Image      string
	Quantity   int
}

// Repository persists carts. All mutating calls operate on the owner's
// single active cart, creating it lazily, and serialize concurrent writers
// for one owner by locking the active cart row for the duration of the
// transaction. Totals are recomputed inside the same transaction as every
// mutation.
type Repository interface {
	// GetActive returns the owner's active cart or domain.ErrNotFound.
	GetActive(ctx context.Context, userID string) (*domain.Cart, error)
	// EnsureActive returns the active cart, creating an empty one if none
	// exists. Idempotent.
	EnsureActive(ctx context.Context, userID string) (*domain.Cart, error)
	// AddItem appends a line or, when the product is already present,
	// increases its quantity.
	AddItem(ctx context.Context, userID string, in AddItemInput) (*domain.Cart, error)
	// SetQuantity updates a line's quantity; quantity <= 0 removes it.
	SetQuantity(ctx context.Context, userID, itemRef string, quantity int) (*domain.Cart, error)
	// RemoveItem deletes the line matching the reference by line id,
	// internal product id, or external id. Idempotent.
	RemoveItem(ctx context.Context, userID, itemRef string) (*domain.Cart, error)
	// Clear empties the active cart.
	Clear(ctx context.Context, userID string) (*domain.Cart, error)
	// Checkout atomically completes the active cart and creates its empty
	// successor. Fails with domain.ErrNoActiveCart or domain.ErrEmptyCart.
	Checkout(ctx context.Context, userID string) (completed, active *domain.Cart, err error)
	// History returns the owner's completed carts, most recent first.
	History(ctx context.Context, userID string) ([]domain.Cart, error)
}
