package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cliptide/backend/internal/db"
	"github.com/cliptide/backend/internal/models"
)

// PostgresLikeRepository provides PostgreSQL-backed persistence for like edges.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// Toggle flips the like edge for (subject, kind, target) inside a single
// transaction. The unique constraint on the triple is the final backstop:
// if a concurrent toggle inserts first, the duplicate-insert failure means
// the edge now exists, so the correct outcome here is deletion.
func (r *PostgresLikeRepository) Toggle(ctx context.Context, subjectID string, target models.LikeTarget, targetID string) (bool, error) {
	if !target.Valid() {
		return false, fmt.Errorf("toggle like: unknown target kind %q", target)
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin toggle: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var edgeID string
	err = tx.QueryRow(ctx, `
        SELECT id FROM likes
        WHERE subject_id = $1 AND target_kind = $2 AND target_id = $3
        FOR UPDATE
    `, subjectID, target, targetID).Scan(&edgeID)

	switch {
	case err == nil:
		if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE id = $1`, edgeID); err != nil {
			return false, fmt.Errorf("delete like: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return false, fmt.Errorf("commit toggle: %w", err)
		}
		return false, nil

	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx, `
            INSERT INTO likes (id, subject_id, target_kind, target_id, created_at)
            VALUES ($1, $2, $3, $4, $5)
        `, uuid.NewString(), subjectID, target, targetID, time.Now().UTC())
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				// Lost the race to a concurrent insert; remove the edge
				// the other writer created.
				_ = tx.Rollback(ctx)
				if _, err := conn.Exec(ctx, `
                    DELETE FROM likes
                    WHERE subject_id = $1 AND target_kind = $2 AND target_id = $3
                `, subjectID, target, targetID); err != nil {
					return false, fmt.Errorf("delete like after conflict: %w", err)
				}
				return false, nil
			}
			return false, fmt.Errorf("insert like: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return false, fmt.Errorf("commit toggle: %w", err)
		}
		return true, nil

	default:
		return false, fmt.Errorf("select like: %w", err)
	}
}

// CountByTarget tallies like edges pointing at one entity.
func (r *PostgresLikeRepository) CountByTarget(ctx context.Context, target models.LikeTarget, targetID string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	err = conn.QueryRow(ctx, `
        SELECT COUNT(*) FROM likes
        WHERE target_kind = $1 AND target_id = $2
    `, target, targetID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return count, nil
}

// Exists reports whether the subject holds a like edge on the target.
func (r *PostgresLikeRepository) Exists(ctx context.Context, subjectID string, target models.LikeTarget, targetID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	err = conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM likes
            WHERE subject_id = $1 AND target_kind = $2 AND target_id = $3
        )
    `, subjectID, target, targetID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}

	return exists, nil
}

// ListLikedVideos returns the published videos the subject has liked,
// newest like first.
func (r *PostgresLikeRepository) ListLikedVideos(ctx context.Context, subjectID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
               v.duration_seconds, v.views, v.is_published, v.created_at
        FROM likes l
        JOIN videos v ON v.id = l.target_id
        WHERE l.subject_id = $1 AND l.target_kind = 'video' AND v.is_published
        ORDER BY l.created_at DESC
    `, subjectID)
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

// CountForVideoOwner tallies likes across all videos owned by one channel.
func (r *PostgresLikeRepository) CountForVideoOwner(ctx context.Context, ownerID string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	err = conn.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM likes l
        JOIN videos v ON v.id = l.target_id
        WHERE l.target_kind = 'video' AND v.owner_id = $1
    `, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count owner likes: %w", err)
	}

	return count, nil
}

var _ LikeRepository = (*PostgresLikeRepository)(nil)
