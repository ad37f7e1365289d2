package handlers

import (
	"net/http"

	"github.com/cliptide/backend/internal/engagement"
	"github.com/cliptide/backend/internal/middleware"
	"github.com/cliptide/backend/internal/models"
)

// ChannelHandler serves public channel pages and the owner dashboard.
type ChannelHandler struct {
	Users         UserStore
	Videos        VideoStore
	Likes         LikeStore
	Subscriptions SubscriptionStore
	Engagement    engagement.Aggregator
}

// Profile handles GET /api/v1/channels/{handle}. Anonymous viewers are
// allowed; the subscription flag is viewer-relative.
func (h ChannelHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channel, err := h.Users.FindByHandle(ctx, r.PathValue("handle"))
	if err != nil {
		respondError(ctx, w, err, "unable to load channel")
		return
	}

	viewerID := middleware.PrincipalFromContext(ctx)
	subscribers, err := h.Engagement.SubscribersFor(ctx, channel.ID, viewerID)
	if err != nil {
		respondError(ctx, w, err, "unable to load channel")
		return
	}

	subscribedTo, err := h.Subscriptions.CountSubscribedChannels(ctx, channel.ID)
	if err != nil {
		respondError(ctx, w, err, "unable to load channel")
		return
	}

	respondJSON(ctx, w, http.StatusOK, engagement.ComposeChannelProfile(channel, subscribers, subscribedTo))
}

// ListVideos handles GET /api/v1/channels/{handle}/videos, the channel's
// published catalogue.
func (h ChannelHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channel, err := h.Users.FindByHandle(ctx, r.PathValue("handle"))
	if err != nil {
		respondError(ctx, w, err, "unable to load channel videos")
		return
	}

	videos, err := h.Videos.ListPublishedByOwner(ctx, channel.ID)
	if err != nil {
		respondError(ctx, w, err, "unable to load channel videos")
		return
	}

	viewerID := middleware.PrincipalFromContext(ctx)
	summary := channel.Summarize()

	subscribers, err := h.Engagement.SubscribersFor(ctx, channel.ID, viewerID)
	if err != nil {
		respondError(ctx, w, err, "unable to load channel videos")
		return
	}

	views := make([]engagement.VideoView, 0, len(videos))
	for _, video := range videos {
		likes, err := h.Engagement.LikesFor(ctx, models.LikeTargetVideo, video.ID, viewerID)
		if err != nil {
			respondError(ctx, w, err, "unable to load channel videos")
			return
		}
		views = append(views, engagement.ComposeVideoView(video, summary, likes, subscribers))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": views})
}

// DashboardStats handles GET /api/v1/dashboard/stats, the owner-facing
// reduction over the channel's catalogue.
func (h ChannelHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := middleware.PrincipalFromContext(ctx)

	totalVideos, totalViews, err := h.Videos.OwnerStats(ctx, ownerID)
	if err != nil {
		respondError(ctx, w, err, "unable to load dashboard stats")
		return
	}

	totalLikes, err := h.Likes.CountForVideoOwner(ctx, ownerID)
	if err != nil {
		respondError(ctx, w, err, "unable to load dashboard stats")
		return
	}

	totalSubscribers, err := h.Subscriptions.CountByChannel(ctx, ownerID)
	if err != nil {
		respondError(ctx, w, err, "unable to load dashboard stats")
		return
	}

	respondJSON(ctx, w, http.StatusOK, engagement.DashboardStats{
		TotalVideos:      totalVideos,
		TotalViews:       totalViews,
		TotalLikes:       totalLikes,
		TotalSubscribers: totalSubscribers,
	})
}
