package token

import (
	"context"
	"time"
)

// Token is a single-use password-reset token.
type Token struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

type Repository interface {
	// Create stores a token; returns domain.ErrAlreadyExists on collision.
	Create(ctx context.Context, t Token) error
	// Get returns the token or domain.ErrNotFound.
	Get(ctx context.Context, token string) (*Token, error)
	// Delete removes a token; deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
