package wishlist

import (
	"context"
	"strings"

	"storefront/internal/domain"
	wishlistrepo "storefront/internal/repository/wishlist"
)

// Service manages per-user wishlists. Entries are deduplicated by product
// reference, checked against both the internal and external id.
type Service struct {
	repo wishlistRepo
}

type wishlistRepo interface {
	List(ctx context.Context, userID string) ([]domain.WishlistEntry, error)
	Add(ctx context.Context, userID string, in wishlistrepo.AddInput) ([]domain.WishlistEntry, error)
	Remove(ctx context.Context, userID, ref string) ([]domain.WishlistEntry, error)
}

func New(repo wishlistrepo.Repository) *Service {
	return &Service{repo: repo}
}

// AddInput is the saved product snapshot.
type AddInput struct {
	ProductID  *string `json:"productId,omitempty"`
	ExternalID *int64  `json:"externalId,omitempty"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Image      string  `json:"image,omitempty"`
}

// Get never fails for unknown users; it returns an empty list.
func (s *Service) Get(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Add(ctx context.Context, userID string, in AddInput) ([]domain.WishlistEntry, error) {
	if in.ProductID == nil && in.ExternalID == nil {
		return nil, domain.Validation("product reference required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.Validation("title required")
	}
	return s.repo.Add(ctx, userID, wishlistrepo.AddInput{
		ProductID:  in.ProductID,
		ExternalID: in.ExternalID,
		Title:      strings.TrimSpace(in.Title),
		Price:      in.Price,
		Image:      in.Image,
	})
}

// Remove deletes entries matching ref by either id; absent refs succeed.
func (s *Service) Remove(ctx context.Context, userID, ref string) ([]domain.WishlistEntry, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, domain.Validation("product reference required")
	}
	return s.repo.Remove(ctx, userID, ref)
}
