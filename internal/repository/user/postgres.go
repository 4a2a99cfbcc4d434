package user

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const userColumns = `id::text, email, password_hash, name, avatar, address, role, is_active, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	addrJSON, err := marshalAddress(u.Address)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash, name, avatar, address, role, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+userColumns+`
`, strings.ToLower(u.Email), u.PasswordHash, u.Name, u.Avatar, addrJSON, u.Role, u.IsActive)

	out, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetch(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetch(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.User, error) {
	var addrJSON []byte
	if in.Address != nil {
		var err error
		addrJSON, err = marshalAddress(in.Address)
		if err != nil {
			return nil, err
		}
	}

	return r.fetch(ctx, `
UPDATE users
SET name = COALESCE($2, name),
    avatar = COALESCE($3, avatar),
    address = COALESCE($4, address),
    updated_at = now()
WHERE id = $1
RETURNING `+userColumns+`
`, id, in.Name, in.Avatar, addrJSON)
}

func (r *postgresRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1
`, id, passwordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) List(ctx context.Context, in ListInput) ([]domain.User, int, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 {
		in.Limit = 10
	}
	offset := (in.Page - 1) * in.Limit

	var role *string
	if in.Role != "" {
		role = &in.Role
	}

	var total int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM users WHERE ($1::text IS NULL OR role = $1)
`, role).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+userColumns+`
FROM users
WHERE ($1::text IS NULL OR role = $1)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`, role, in.Limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	return r.fetch(ctx, `
UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1
RETURNING `+userColumns+`
`, id, active)
}

func (r *postgresRepo) SetRole(ctx context.Context, id, role string) (*domain.User, error) {
	return r.fetch(ctx, `
UPDATE users SET role = $2, updated_at = now() WHERE id = $1
RETURNING `+userColumns+`
`, id, role)
}

func (r *postgresRepo) fetch(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var addrJSON []byte
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Avatar,
		&addrJSON,
		&u.Role,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(addrJSON) > 0 {
		var addr domain.Address
		if err := json.Unmarshal(addrJSON, &addr); err != nil {
			return nil, err
		}
		u.Address = &addr
	}
	return &u, nil
}

func marshalAddress(a *domain.Address) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}
