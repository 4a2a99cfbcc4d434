package wishlist

import (
	"context"

	"storefront/internal/domain"
)

// AddInput is the product snapshot saved to a wishlist. At least one of
// ProductID/ExternalID is set.
type AddInput struct {
	ProductID  *string
	ExternalID *int64
	Title      string
	Price      float64
	Image      string
}

type Repository interface {
	// List returns the user's entries in insertion order; never fails with
	// not-found, an empty wishlist is an empty list.
	List(ctx context.Context, userID string) ([]domain.WishlistEntry, error)
	// Add appends an entry. Returns domain.ErrDuplicate when an existing
	// entry matches either identifier.
	Add(ctx context.Context, userID string, in AddInput) ([]domain.WishlistEntry, error)
	// Remove deletes entries whose internal or external id equals ref.
	// Idempotent.
	Remove(ctx context.Context, userID, ref string) ([]domain.WishlistEntry, error)
}
