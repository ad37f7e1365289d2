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

const videoColumns = `id, owner_id, title, description, video_url, thumbnail_url, duration_seconds, views, is_published, created_at`

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, owner_id, title, description, video_url, thumbnail_url, duration_seconds, views, is_published, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `, video.ID, video.OwnerID, video.Title, video.Description, video.VideoURL,
		video.ThumbnailURL, video.DurationSeconds, video.Views, video.IsPublished, video.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// FindByID fetches a video by primary key.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+videoColumns+`
        FROM videos
        WHERE id = $1
    `, id)

	var v models.Video
	if err := row.Scan(&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoURL,
		&v.ThumbnailURL, &v.DurationSeconds, &v.Views, &v.IsPublished, &v.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("select video: %w", err)
	}

	return v, nil
}

// ListPublishedByOwner returns the owner's published videos, newest first.
func (r *PostgresVideoRepository) ListPublishedByOwner(ctx context.Context, ownerID string) ([]models.Video, error) {
	return r.list(ctx, `
        SELECT `+videoColumns+`
        FROM videos
        WHERE owner_id = $1 AND is_published
        ORDER BY created_at DESC
    `, ownerID)
}

// ListByOwner returns all of the owner's videos including drafts.
func (r *PostgresVideoRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error) {
	return r.list(ctx, `
        SELECT `+videoColumns+`
        FROM videos
        WHERE owner_id = $1
        ORDER BY created_at DESC
    `, ownerID)
}

// IncrementViews bumps the view counter by one.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos SET views = views + 1 WHERE id = $1
    `, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// SetPublished flips the publish flag.
func (r *PostgresVideoRepository) SetPublished(ctx context.Context, id string, published bool) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos SET is_published = $2 WHERE id = $1
    `, id, published)
	if err != nil {
		return fmt.Errorf("update publish flag: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a video together with its edges and playlist memberships
// (cascaded by the schema).
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// OwnerStats sums the owner's catalogue: how many videos and how many
// accumulated views.
func (r *PostgresVideoRepository) OwnerStats(ctx context.Context, ownerID string) (int64, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var totalVideos, totalViews int64
	err = conn.QueryRow(ctx, `
        SELECT COUNT(*), COALESCE(SUM(views), 0)
        FROM videos
        WHERE owner_id = $1
    `, ownerID).Scan(&totalVideos, &totalViews)
	if err != nil {
		return 0, 0, fmt.Errorf("owner video stats: %w", err)
	}

	return totalVideos, totalViews, nil
}

func (r *PostgresVideoRepository) list(ctx context.Context, query string, args ...any) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

func collectVideos(rows pgx.Rows) ([]models.Video, error) {
	var videos []models.Video
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoURL,
			&v.ThumbnailURL, &v.DurationSeconds, &v.Views, &v.IsPublished, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)
