package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cliptide/backend/internal/auth"
	"github.com/cliptide/backend/internal/db"
)

// PostgresSessionStore persists the single live session record per
// principal. Save upserts on principal_id, so issuing a new refresh token
// atomically replaces the previous one.
type PostgresSessionStore struct {
	pool db.Pool
}

// NewPostgresSessionStore constructs a session store backed by PostgreSQL.
func NewPostgresSessionStore(pool db.Pool) *PostgresSessionStore {
	return &PostgresSessionStore{pool: pool}
}

// Save stores or replaces the session record for the principal.
func (s *PostgresSessionStore) Save(ctx context.Context, record auth.SessionRecord) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO sessions (principal_id, refresh_token_hash, issued_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (principal_id)
        DO UPDATE SET refresh_token_hash = EXCLUDED.refresh_token_hash, issued_at = EXCLUDED.issued_at
    `, record.PrincipalID, record.RefreshTokenHash, record.IssuedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	return nil
}

// Find loads the session record for a principal.
func (s *PostgresSessionStore) Find(ctx context.Context, principalID string) (auth.SessionRecord, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return auth.SessionRecord{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT principal_id, refresh_token_hash, issued_at
        FROM sessions
        WHERE principal_id = $1
    `, principalID)

	var record auth.SessionRecord
	var issuedAt time.Time
	if err := row.Scan(&record.PrincipalID, &record.RefreshTokenHash, &issuedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.SessionRecord{}, auth.ErrSessionNotFound
		}
		return auth.SessionRecord{}, fmt.Errorf("select session: %w", err)
	}

	record.IssuedAt = issuedAt.UTC()
	return record, nil
}

// Delete removes the principal's session record. Deleting an absent record
// is not an error so logout stays idempotent.
func (s *PostgresSessionStore) Delete(ctx context.Context, principalID string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        DELETE FROM sessions
        WHERE principal_id = $1
    `, principalID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

var _ auth.SessionStore = (*PostgresSessionStore)(nil)
