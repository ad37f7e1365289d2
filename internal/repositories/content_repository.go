package repositories

import (
	"context"

	"github.com/cliptide/backend/internal/models"
)

// VideoRepository exposes data access for uploaded videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	ListPublishedByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
	IncrementViews(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
	// OwnerStats returns the total video count and the summed view count
	// over everything the owner has uploaded.
	OwnerStats(ctx context.Context, ownerID string) (totalVideos, totalViews int64, err error)
}

// CommentRepository exposes data access for video comments.
type CommentRepository interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	ListByVideo(ctx context.Context, videoID string) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

// TweetRepository exposes data access for channel tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Tweet, error)
	Delete(ctx context.Context, id string) error
}

// PlaylistRepository exposes data access for playlists and their membership.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Playlist, error)
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
	ListVideos(ctx context.Context, playlistID string) ([]models.Video, error)
	Delete(ctx context.Context, id string) error
}
