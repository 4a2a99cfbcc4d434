package user

import (
	"context"

	"storefront/internal/domain"
)

// ListInput controls admin listing.
type ListInput struct {
	Page  int
	Limit int
	Role  string
}

// UpdateInput carries profile fields; nil means leave unchanged.
type UpdateInput struct {
	Name    *string
	Avatar  *string
	Address *domain.Address
}

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context, in ListInput) ([]domain.User, int, error)
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
	SetRole(ctx context.Context, id, role string) (*domain.User, error)
}
