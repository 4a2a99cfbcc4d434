package wishlist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	return r.list(ctx, r.pool, userID)
}

func (r *postgresRepo) Add(ctx context.Context, userID string, in AddInput) ([]domain.WishlistEntry, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Dedup key is "internal id OR external id", checked against both
	// fields of existing entries.
	var existing int
	err = tx.QueryRow(ctx, `
SELECT COUNT(*)
FROM wishlist_entries
WHERE user_id = $1
  AND (
	($2::uuid IS NOT NULL AND product_id = $2::uuid)
	OR ($3::bigint IS NOT NULL AND external_id = $3::bigint)
  )
`, userID, in.ProductID, in.ExternalID).Scan(&existing)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, domain.ErrDuplicate
	}

	// Concurrent adds can both pass the count above; the partial unique
	// indexes on (user_id, product_id) and (user_id, external_id) catch
	// whichever writer loses.
	if _, err := tx.Exec(ctx, `
INSERT INTO wishlist_entries (user_id, product_id, external_id, title, price, image)
VALUES ($1, $2, $3, $4, $5, $6)
`, userID, in.ProductID, in.ExternalID, in.Title, in.Price, in.Image); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicate
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.list(ctx, r.pool, userID)
}

func (r *postgresRepo) Remove(ctx context.Context, userID, ref string) ([]domain.WishlistEntry, error) {
	// Matching nothing is fine; removal is idempotent.
	if _, err := r.pool.Exec(ctx, `
DELETE FROM wishlist_entries
WHERE user_id = $1
  AND (product_id::text = $2 OR external_id::text = $2)
`, userID, ref); err != nil {
		return nil, err
	}
	return r.list(ctx, r.pool, userID)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

func (r *postgresRepo) list(ctx context.Context, q querier, userID string) ([]domain.WishlistEntry, error) {
	rows, err := q.Query(ctx, `
SELECT id::text, user_id::text, product_id::text, external_id, title, price, image, created_at
FROM wishlist_entries
WHERE user_id = $1
ORDER BY created_at ASC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.WishlistEntry{}
	for rows.Next() {
		var e domain.WishlistEntry
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.ProductID,
			&e.ExternalID,
			&e.Title,
			&e.Price,
			&e.Image,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
