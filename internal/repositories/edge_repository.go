package repositories

import (
	"context"

	"github.com/cliptide/backend/internal/models"
)

// LikeRepository defines data access for polymorphic like edges. A like is
// a presence relation: Toggle flips it and the read methods observe it.
type LikeRepository interface {
	// Toggle creates the edge if absent and deletes it if present,
	// reporting whether the call created it.
	Toggle(ctx context.Context, subjectID string, target models.LikeTarget, targetID string) (bool, error)
	CountByTarget(ctx context.Context, target models.LikeTarget, targetID string) (int64, error)
	Exists(ctx context.Context, subjectID string, target models.LikeTarget, targetID string) (bool, error)
	ListLikedVideos(ctx context.Context, subjectID string) ([]models.Video, error)
	CountForVideoOwner(ctx context.Context, ownerID string) (int64, error)
}

// SubscriptionRepository defines data access for channel subscriptions.
type SubscriptionRepository interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	CountByChannel(ctx context.Context, channelID string) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListSubscribers(ctx context.Context, channelID string) ([]models.Summary, error)
	ListSubscribedChannels(ctx context.Context, subscriberID string) ([]models.Summary, error)
	CountSubscribedChannels(ctx context.Context, subscriberID string) (int64, error)
}
