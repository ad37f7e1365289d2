package engagement

import (
	"context"
	"fmt"

	"github.com/cliptide/backend/internal/models"
)

// Engagement is the derived block attached to an entity view: how many
// edges point at it and whether the current viewer holds one of them.
// It is computed fresh from the edge set on every request, never stored.
type Engagement struct {
	Count      int64 `json:"count"`
	ViewerFlag bool  `json:"viewerFlag"`
}

// LikeReader is the read surface of the like edge repository.
type LikeReader interface {
	CountByTarget(ctx context.Context, target models.LikeTarget, targetID string) (int64, error)
	Exists(ctx context.Context, subjectID string, target models.LikeTarget, targetID string) (bool, error)
}

// SubscriptionReader is the read surface of the subscription repository.
type SubscriptionReader interface {
	CountByChannel(ctx context.Context, channelID string) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
}

// Aggregator computes engagement blocks from relationship edges.
type Aggregator struct {
	Likes         LikeReader
	Subscriptions SubscriptionReader
}

// LikesFor tallies the like edges on one entity and resolves the viewer's
// membership flag. An empty viewerID means an anonymous read: the flag is
// false and the membership query is skipped entirely.
func (a Aggregator) LikesFor(ctx context.Context, target models.LikeTarget, targetID, viewerID string) (Engagement, error) {
	count, err := a.Likes.CountByTarget(ctx, target, targetID)
	if err != nil {
		return Engagement{}, fmt.Errorf("count %s likes: %w", target, err)
	}

	result := Engagement{Count: count}
	if viewerID == "" {
		return result, nil
	}

	liked, err := a.Likes.Exists(ctx, viewerID, target, targetID)
	if err != nil {
		return Engagement{}, fmt.Errorf("check viewer like: %w", err)
	}
	result.ViewerFlag = liked

	return result, nil
}

// SubscribersFor tallies a channel's subscribers and resolves whether the
// viewer is one of them. Anonymous viewers always get a false flag.
func (a Aggregator) SubscribersFor(ctx context.Context, channelID, viewerID string) (Engagement, error) {
	count, err := a.Subscriptions.CountByChannel(ctx, channelID)
	if err != nil {
		return Engagement{}, fmt.Errorf("count subscribers: %w", err)
	}

	result := Engagement{Count: count}
	if viewerID == "" {
		return result, nil
	}

	subscribed, err := a.Subscriptions.IsSubscribed(ctx, viewerID, channelID)
	if err != nil {
		return Engagement{}, fmt.Errorf("check viewer subscription: %w", err)
	}
	result.ViewerFlag = subscribed

	return result, nil
}
