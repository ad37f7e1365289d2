package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cliptide/backend/internal/auth"
	"github.com/cliptide/backend/internal/config"
	"github.com/cliptide/backend/internal/db"
	"github.com/cliptide/backend/internal/handlers"
	"github.com/cliptide/backend/internal/middleware"
	"github.com/cliptide/backend/internal/repositories"
	"github.com/cliptide/backend/internal/storage"
)

// buildDependencies wires together the concrete implementations used by
// the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, error) {
	issuer, err := auth.NewIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	users := repositories.NewPostgresUserRepository(pool)
	sessionStore := repositories.NewPostgresSessionStore(pool)

	var blobs handlers.BlobStore
	if cfg.ObjectStore.Bucket != "" {
		s3Store, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.Dependencies{}, fmt.Errorf("configure object store: %w", err)
		}
		blobs = s3Store
	} else {
		logger.Warn("object store bucket not configured, uploads disabled")
	}

	return handlers.Dependencies{
		Logger:        logger,
		Users:         users,
		Sessions:      auth.NewManager(issuer, sessionStore, repositories.PrincipalDirectory{Users: users}),
		Likes:         repositories.NewPostgresLikeRepository(pool),
		Subscriptions: repositories.NewPostgresSubscriptionRepository(pool),
		Videos:        repositories.NewPostgresVideoRepository(pool),
		Comments:      repositories.NewPostgresCommentRepository(pool),
		Tweets:        repositories.NewPostgresTweetRepository(pool),
		Playlists:     repositories.NewPostgresPlaylistRepository(pool),
		Blobs:         blobs,
		AuthLimiter:   middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, cfg.AuthRateLimit, 10*time.Minute),
		PingDB:        pingFunc(pool),
	}, nil
}

func pingFunc(pool db.Pool) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		conn, err := pool.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("acquire connection: %w", err)
		}
		defer conn.Release()
		return conn.Ping(ctx)
	}
}
