package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cliptide/backend/internal/db"
	"github.com/cliptide/backend/internal/models"
)

const userColumns = `id, handle, email, password_hash, display_name, avatar_url, cover_url, created_at, updated_at`

// PostgresUserRepository provides PostgreSQL-backed persistence for principals.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new principal record.
func (r *PostgresUserRepository) Create(ctx context.Context, principal models.Principal) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, handle, email, password_hash, display_name, avatar_url, cover_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, principal.ID, principal.Handle, principal.Email, principal.PasswordHash,
		principal.DisplayName, principal.AvatarURL, principal.CoverURL,
		principal.CreatedAt, principal.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByHandleOrEmail fetches a principal matching either unique identifier.
func (r *PostgresUserRepository) FindByHandleOrEmail(ctx context.Context, identifier string) (models.Principal, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Principal{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+userColumns+`
        FROM users
        WHERE handle = lower($1) OR email = lower($1)
    `, identifier)

	return scanPrincipal(row)
}

// FindByID fetches a principal by primary key.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (models.Principal, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Principal{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+userColumns+`
        FROM users
        WHERE id = $1
    `, id)

	return scanPrincipal(row)
}

// FindByHandle fetches a principal by channel handle.
func (r *PostgresUserRepository) FindByHandle(ctx context.Context, handle string) (models.Principal, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Principal{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+userColumns+`
        FROM users
        WHERE handle = lower($1)
    `, handle)

	return scanPrincipal(row)
}

// UpdateProfile modifies the mutable profile fields of a principal.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, principal models.Principal) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET display_name = $2, avatar_url = $3, cover_url = $4, updated_at = $5
        WHERE id = $1
    `, principal.ID, principal.DisplayName, principal.AvatarURL, principal.CoverURL, principal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanPrincipal(row pgx.Row) (models.Principal, error) {
	var p models.Principal
	if err := row.Scan(&p.ID, &p.Handle, &p.Email, &p.PasswordHash, &p.DisplayName,
		&p.AvatarURL, &p.CoverURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Principal{}, ErrNotFound
		}
		return models.Principal{}, fmt.Errorf("scan user: %w", err)
	}
	return p, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
