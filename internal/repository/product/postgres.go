package product

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const productColumns = `id::text, external_id, title, price, description, category, image, created_at`

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO products (external_id, title, price, description, category, image)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (external_id) DO UPDATE
SET title = EXCLUDED.title,
    price = EXCLUDED.price,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    image = EXCLUDED.image
RETURNING `+productColumns+`
`, p.ExternalID, p.Title, p.Price, p.Description, p.Category, p.Image)
	return scanProduct(row)
}

func (r *postgresRepo) GetByRef(ctx context.Context, ref string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+productColumns+`
FROM products
WHERE id::text = $1 OR external_id::text = $1
`, ref)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+productColumns+`
FROM products
ORDER BY external_id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.ExternalID,
		&p.Title,
		&p.Price,
		&p.Description,
		&p.Category,
		&p.Image,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
