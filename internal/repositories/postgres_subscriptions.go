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

// PostgresSubscriptionRepository provides PostgreSQL-backed persistence for
// channel subscriptions.
type PostgresSubscriptionRepository struct {
	pool db.Pool
}

// NewPostgresSubscriptionRepository constructs a subscription repository
// backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// Toggle flips the subscription edge for (subscriber, channel). A
// self-subscription is rejected before any store access; the CHECK
// constraint on the table is only the backstop.
func (r *PostgresSubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	if subscriberID == channelID {
		return false, ErrSelfSubscription
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
        SELECT id FROM subscriptions
        WHERE subscriber_id = $1 AND channel_id = $2
        FOR UPDATE
    `, subscriberID, channelID).Scan(&edgeID)

	switch {
	case err == nil:
		if _, err := tx.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, edgeID); err != nil {
			return false, fmt.Errorf("delete subscription: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return false, fmt.Errorf("commit toggle: %w", err)
		}
		return false, nil

	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx, `
            INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
            VALUES ($1, $2, $3, $4)
        `, uuid.NewString(), subscriberID, channelID, time.Now().UTC())
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case "23505":
					_ = tx.Rollback(ctx)
					if _, err := conn.Exec(ctx, `
                        DELETE FROM subscriptions
                        WHERE subscriber_id = $1 AND channel_id = $2
                    `, subscriberID, channelID); err != nil {
						return false, fmt.Errorf("delete subscription after conflict: %w", err)
					}
					return false, nil
				case "23503":
					return false, ErrNotFound
				}
			}
			return false, fmt.Errorf("insert subscription: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return false, fmt.Errorf("commit toggle: %w", err)
		}
		return true, nil

	default:
		return false, fmt.Errorf("select subscription: %w", err)
	}
}

// CountByChannel tallies the subscribers of a channel.
func (r *PostgresSubscriptionRepository) CountByChannel(ctx context.Context, channelID string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	err = conn.QueryRow(ctx, `
        SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1
    `, channelID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}

	return count, nil
}

// IsSubscribed reports whether the subscriber follows the channel.
func (r *PostgresSubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	err = conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM subscriptions
            WHERE subscriber_id = $1 AND channel_id = $2
        )
    `, subscriberID, channelID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check subscription: %w", err)
	}

	return exists, nil
}

// ListSubscribers returns the public summaries of a channel's subscribers.
func (r *PostgresSubscriptionRepository) ListSubscribers(ctx context.Context, channelID string) ([]models.Summary, error) {
	return r.listSummaries(ctx, `
        SELECT u.id, u.handle, u.display_name, u.avatar_url
        FROM subscriptions s
        JOIN users u ON u.id = s.subscriber_id
        WHERE s.channel_id = $1
        ORDER BY s.created_at DESC
    `, channelID)
}

// ListSubscribedChannels returns the channels the subscriber follows.
func (r *PostgresSubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID string) ([]models.Summary, error) {
	return r.listSummaries(ctx, `
        SELECT u.id, u.handle, u.display_name, u.avatar_url
        FROM subscriptions s
        JOIN users u ON u.id = s.channel_id
        WHERE s.subscriber_id = $1
        ORDER BY s.created_at DESC
    `, subscriberID)
}

// CountSubscribedChannels tallies how many channels the subscriber follows.
func (r *PostgresSubscriptionRepository) CountSubscribedChannels(ctx context.Context, subscriberID string) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	err = conn.QueryRow(ctx, `
        SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1
    `, subscriberID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count subscribed channels: %w", err)
	}

	return count, nil
}

func (r *PostgresSubscriptionRepository) listSummaries(ctx context.Context, query, arg string) ([]models.Summary, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query subscription summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.Summary
	for rows.Next() {
		var s models.Summary
		if err := rows.Scan(&s.ID, &s.Handle, &s.DisplayName, &s.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}

	return summaries, nil
}

var _ SubscriptionRepository = (*PostgresSubscriptionRepository)(nil)
