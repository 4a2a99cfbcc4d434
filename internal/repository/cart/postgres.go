package cart

import (
	"context"
	"errors"
	"fmt"

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

const cartColumns = `id::text, user_id::text, status, total_items, total_price, completed_at, created_at, updated_at`

func (r *postgresRepo) GetActive(ctx context.Context, userID string) (*domain.Cart, error) {
	return r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE user_id = $1 AND status = 'active'
`, userID)
}

func (r *postgresRepo) EnsureActive(ctx context.Context, userID string) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cartID, err := ensureActiveTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.fetchCartByID(ctx, cartID)
}

func (r *postgresRepo) AddItem(ctx context.Context, userID string, in AddItemInput) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cartID, err := ensureActiveTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	// Same product already in the cart (by either id): bump quantity.
	var lineID string
	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity
FROM cart_items
WHERE cart_id = $1
  AND (
	($2::uuid IS NOT NULL AND product_id = $2::uuid)
	OR ($3::bigint IS NOT NULL AND external_id = $3::bigint)
  )
`, cartID, in.ProductID, in.ExternalID).Scan(&lineID, &existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if err == nil {
		if _, err := tx.Exec(ctx, `
UPDATE cart_items SET quantity = $1 WHERE id = $2
`, existingQty+in.Quantity, lineID); err != nil {
			return nil, err
		}
	} else {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, external_id, title, price, image, quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, cartID, in.ProductID, in.ExternalID, in.Title, in.Price, in.Image, in.Quantity); err != nil {
			return nil, err
		}
	}

	if err := recomputeTotals(ctx, tx, cartID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.fetchCartByID(ctx, cartID)
}

func (r *postgresRepo) SetQuantity(ctx context.Context, userID, itemRef string, quantity int) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cartID, err := ensureActiveTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if _, err := tx.Exec(ctx, deleteItemByRef, cartID, itemRef); err != nil {
			return nil, err
		}
	} else {
		cmd, err := tx.Exec(ctx, `
UPDATE cart_items SET quantity = $3
WHERE cart_id = $1
  AND (id::text = $2 OR product_id::text = $2 OR external_id::text = $2)
`, cartID, itemRef, quantity)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, domain.ErrNotFound
		}
	}

	if err := recomputeTotals(ctx, tx, cartID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.fetchCartByID(ctx, cartID)
}

const deleteItemByRef = `
DELETE FROM cart_items
WHERE cart_id = $1
  AND (id::text = $2 OR product_id::text = $2 OR external_id::text = $2)
`

func (r *postgresRepo) RemoveItem(ctx context.Context, userID, itemRef string) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cartID, err := ensureActiveTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	// Removing an absent item is a no-op.
	if _, err := tx.Exec(ctx, deleteItemByRef, cartID, itemRef); err != nil {
		return nil, err
	}

	if err := recomputeTotals(ctx, tx, cartID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.fetchCartByID(ctx, cartID)
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cartID, err := ensureActiveTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return nil, err
	}
	if err := recomputeTotals(ctx, tx, cartID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.fetchCartByID(ctx, cartID)
}

func (r *postgresRepo) Checkout(ctx context.Context, userID string) (*domain.Cart, *domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	var completedID string
	var totalItems int
	err = tx.QueryRow(ctx, `
SELECT id::text, total_items
FROM carts
WHERE user_id = $1 AND status = 'active'
FOR UPDATE
`, userID).Scan(&completedID, &totalItems)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrNoActiveCart
		}
		return nil, nil, err
	}
	if totalItems == 0 {
		return nil, nil, domain.ErrEmptyCart
	}

	// Completing the cart and provisioning its successor commit together;
	// a failure of either leaves the active cart untouched.
	if _, err := tx.Exec(ctx, `
UPDATE carts
SET status = 'completed', completed_at = now(), updated_at = now()
WHERE id = $1
`, completedID); err != nil {
		return nil, nil, err
	}

	var activeID string
	if err := tx.QueryRow(ctx, `
INSERT INTO carts (user_id, status, total_items, total_price)
VALUES ($1, 'active', 0, 0)
RETURNING id::text
`, userID).Scan(&activeID); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	completed, err := r.fetchCartByID(ctx, completedID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch completed cart: %w", err)
	}
	active, err := r.fetchCartByID(ctx, activeID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch new active cart: %w", err)
	}
	return completed, active, nil
}

func (r *postgresRepo) History(ctx context.Context, userID string) ([]domain.Cart, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE user_id = $1 AND status = 'completed'
ORDER BY completed_at DESC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	carts := []domain.Cart{}
	for rows.Next() {
		cart, err := scanCart(rows)
		if err != nil {
			return nil, err
		}
		carts = append(carts, *cart)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range carts {
		items, err := r.fetchItems(ctx, carts[i].ID)
		if err != nil {
			return nil, err
		}
		carts[i].Items = items
	}
	return carts, nil
}

const lockActiveCart = `
SELECT id::text
FROM carts
WHERE user_id = $1 AND status = 'active'
FOR UPDATE
`

// ensureActiveTx returns the id of the owner's active cart, locking its row
// for the rest of the transaction so per-owner mutations are serialized. A
// missing cart is created here, which also serves as the repair path when a
// failed checkout left the owner without one.
func ensureActiveTx(ctx context.Context, tx pgx.Tx, userID string) (string, error) {
	var cartID string
	err := tx.QueryRow(ctx, lockActiveCart, userID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	// Two first mutations for the same owner can both reach this insert.
	// ON CONFLICT against the one-active-cart index turns the loser's
	// insert into a no-row result, and it locks the winner's cart instead.
	err = tx.QueryRow(ctx, `
INSERT INTO carts (user_id, status, total_items, total_price)
VALUES ($1, 'active', 0, 0)
ON CONFLICT (user_id) WHERE status = 'active' DO NOTHING
RETURNING id::text
`, userID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	if err := tx.QueryRow(ctx, lockActiveCart, userID).Scan(&cartID); err != nil {
		return "", err
	}
	return cartID, nil
}

// recomputeTotals rewrites the derived columns from the items, never
// trusting the stored values.
func recomputeTotals(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET total_items = COALESCE((SELECT SUM(quantity) FROM cart_items WHERE cart_id = $1), 0),
    total_price = COALESCE((SELECT SUM(price * quantity) FROM cart_items WHERE cart_id = $1), 0),
    updated_at = now()
WHERE id = $1
`, cartID)
	return err
}

func (r *postgresRepo) fetchCartByID(ctx context.Context, id string) (*domain.Cart, error) {
	return r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE id = $1
`, id)
}

func (r *postgresRepo) fetchCart(ctx context.Context, query string, args ...interface{}) (*domain.Cart, error) {
	row := r.pool.QueryRow(ctx, query, args...)
	cart, err := scanCart(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	items, err := r.fetchItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return cart, nil
}

func (r *postgresRepo) fetchItems(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id::text, cart_id::text, product_id::text, external_id, title, price, image, quantity, created_at
FROM cart_items
WHERE cart_id = $1
ORDER BY created_at ASC
`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.ExternalID,
			&item.Title,
			&item.Price,
			&item.Image,
			&item.Quantity,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCart(row rowScanner) (*domain.Cart, error) {
	var cart domain.Cart
	if err := row.Scan(
		&cart.ID,
		&cart.UserID,
		&cart.Status,
		&cart.TotalItems,
		&cart.TotalPrice,
		&cart.CompletedAt,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cart, nil
}
