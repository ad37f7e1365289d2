package handlers

import (
	"context"
	"io"

	"github.com/cliptide/backend/internal/models"
)

// UserStore captures the persistence operations required by the auth and
// channel handlers.
type UserStore interface {
	Create(ctx context.Context, principal models.Principal) error
	FindByHandleOrEmail(ctx context.Context, identifier string) (models.Principal, error)
	FindByID(ctx context.Context, id string) (models.Principal, error)
	FindByHandle(ctx context.Context, handle string) (models.Principal, error)
}

// SessionManager drives the session token lifecycle for principals.
type SessionManager interface {
	Login(ctx context.Context, identifier, secret string) (models.Principal, models.SessionTokens, error)
	Issue(ctx context.Context, principalID string) (models.SessionTokens, error)
	Resolve(accessToken string) (string, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Logout(ctx context.Context, principalID string) error
}

// LikeStore captures operations required by the like handlers.
type LikeStore interface {
	Toggle(ctx context.Context, subjectID string, target models.LikeTarget, targetID string) (bool, error)
	CountByTarget(ctx context.Context, target models.LikeTarget, targetID string) (int64, error)
	Exists(ctx context.Context, subjectID string, target models.LikeTarget, targetID string) (bool, error)
	ListLikedVideos(ctx context.Context, subjectID string) ([]models.Video, error)
	CountForVideoOwner(ctx context.Context, ownerID string) (int64, error)
}

// SubscriptionStore captures operations required by the subscription handlers.
type SubscriptionStore interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	CountByChannel(ctx context.Context, channelID string) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListSubscribers(ctx context.Context, channelID string) ([]models.Summary, error)
	ListSubscribedChannels(ctx context.Context, subscriberID string) ([]models.Summary, error)
	CountSubscribedChannels(ctx context.Context, subscriberID string) (int64, error)
}

// VideoStore captures persistence for video workflows.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	ListPublishedByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
	IncrementViews(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
	OwnerStats(ctx context.Context, ownerID string) (totalVideos, totalViews int64, err error)
}

// CommentStore captures persistence for comment workflows.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	ListByVideo(ctx context.Context, videoID string) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

// TweetStore captures persistence for tweet workflows.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Tweet, error)
	Delete(ctx context.Context, id string) error
}

// PlaylistStore captures persistence for playlist workflows.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Playlist, error)
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
	ListVideos(ctx context.Context, playlistID string) ([]models.Video, error)
	Delete(ctx context.Context, id string) error
}

// BlobStore persists uploaded binary assets and returns public locations.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, location string) (bool, error)
}
