package handlers

import (
	"net/http"

	"github.com/cliptide/backend/internal/engagement"
	"github.com/cliptide/backend/internal/logging"
	"github.com/cliptide/backend/internal/middleware"
	"github.com/cliptide/backend/internal/models"
)

// LikeHandler toggles like edges and serves the viewer's liked videos.
// Like targets are polymorphic, so each toggle verifies the target row
// through the matching content store before touching the edge set.
type LikeHandler struct {
	Likes      LikeStore
	Videos     VideoStore
	Comments   CommentStore
	Tweets     TweetStore
	Users      UserStore
	Engagement engagement.Aggregator
}

// ToggleVideo handles POST /api/v1/likes/videos/{id}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetVideo, func(id string) error {
		_, err := h.Videos.FindByID(r.Context(), id)
		return err
	})
}

// ToggleComment handles POST /api/v1/likes/comments/{id}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetComment, func(id string) error {
		_, err := h.Comments.FindByID(r.Context(), id)
		return err
	})
}

// ToggleTweet handles POST /api/v1/likes/tweets/{id}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetTweet, func(id string) error {
		_, err := h.Tweets.FindByID(r.Context(), id)
		return err
	})
}

// ListLikedVideos handles GET /api/v1/likes/videos. Only published videos
// survive the join, so unpublished likes silently drop out of the list.
func (h LikeHandler) ListLikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewerID := middleware.PrincipalFromContext(ctx)

	videos, err := h.Likes.ListLikedVideos(ctx, viewerID)
	if err != nil {
		respondError(ctx, w, err, "unable to list liked videos")
		return
	}

	views := make([]engagement.VideoView, 0, len(videos))
	for _, video := range videos {
		owner, err := h.Users.FindByID(ctx, video.OwnerID)
		if err != nil {
			respondError(ctx, w, err, "unable to list liked videos")
			return
		}
		likes, err := h.Engagement.LikesFor(ctx, models.LikeTargetVideo, video.ID, viewerID)
		if err != nil {
			respondError(ctx, w, err, "unable to list liked videos")
			return
		}
		subscribers, err := h.Engagement.SubscribersFor(ctx, video.OwnerID, viewerID)
		if err != nil {
			respondError(ctx, w, err, "unable to list liked videos")
			return
		}
		views = append(views, engagement.ComposeVideoView(video, owner.Summarize(), likes, subscribers))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": views})
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, target models.LikeTarget, exists func(id string) error) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	targetID := r.PathValue("id")
	if targetID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "target id is required"})
		return
	}

	if err := exists(targetID); err != nil {
		respondError(ctx, w, err, "unable to toggle like")
		return
	}

	subjectID := middleware.PrincipalFromContext(ctx)
	liked, err := h.Likes.Toggle(ctx, subjectID, target, targetID)
	if err != nil {
		logger.Error("toggle like failed", "target", target, "targetId", targetID, "error", err)
		respondError(ctx, w, err, "unable to toggle like")
		return
	}

	count, err := h.Likes.CountByTarget(ctx, target, targetID)
	if err != nil {
		// The toggle itself committed; report the membership state and let
		// the client refetch the count.
		logger.Warn("count after toggle failed", "target", target, "targetId", targetID, "error", err)
		respondJSON(ctx, w, http.StatusOK, toggleResponse{Active: liked})
		return
	}

	respondJSON(ctx, w, http.StatusOK, toggleResponse{Active: liked, Count: count})
}

type toggleResponse struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}
