package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	ExternalID  int64
	Title       string
	Description string
	Category    string
	Price       float64
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureAdmin(ctx, pool, "admin@storefront.local", "Admin1234", "Admin"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	products := []productSeed{
		{
			ExternalID:  9001,
			Title:       "Demo T-Shirt",
			Description: "Soft cotton tee for demo purposes",
			Category:    "clothing",
			Price:       19.99,
		},
		{
			ExternalID:  9002,
			Title:       "Demo Mug",
			Description: "Ceramic mug with demo logo",
			Category:    "home",
			Price:       12.99,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %d: %w", p.ExternalID, err)
		}
	}

	return nil
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password, name string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO users (email, password_hash, name, role, is_active)
VALUES ($1, $2, $3, 'admin', TRUE)
ON CONFLICT (email) DO UPDATE SET role = 'admin', is_active = TRUE
`
	_, err = pool.Exec(ctx, q, email, string(hash), name)
	return err
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (external_id, title, price, description, category)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (external_id) DO UPDATE
SET title = EXCLUDED.title,
    price = EXCLUDED.price,
    description = EXCLUDED.description,
    category = EXCLUDED.category
`
	_, err := pool.Exec(ctx, q, p.ExternalID, p.Title, p.Price, p.Description, p.Category)
	return err
}
