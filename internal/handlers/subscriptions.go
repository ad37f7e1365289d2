package handlers

import (
	"net/http"

	"github.com/cliptide/backend/internal/logging"
	"github.com/cliptide/backend/internal/middleware"
	"github.com/cliptide/backend/internal/repositories"
)

// SubscriptionHandler toggles subscription edges and lists both sides of
// the relation.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
	Users         UserStore
}

// Toggle handles POST /api/v1/subscriptions/{channelId}.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	channelID := r.PathValue("channelId")
	if channelID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "channel id is required"})
		return
	}

	// Reject self-subscription before touching any store.
	subscriberID := middleware.PrincipalFromContext(ctx)
	if subscriberID == channelID {
		respondError(ctx, w, repositories.ErrSelfSubscription, "unable to toggle subscription")
		return
	}

	if _, err := h.Users.FindByID(ctx, channelID); err != nil {
		respondError(ctx, w, err, "unable to toggle subscription")
		return
	}

	subscribed, err := h.Subscriptions.Toggle(ctx, subscriberID, channelID)
	if err != nil {
		logger.Error("toggle subscription failed", "channelId", channelID, "error", err)
		respondError(ctx, w, err, "unable to toggle subscription")
		return
	}

	count, err := h.Subscriptions.CountByChannel(ctx, channelID)
	if err != nil {
		logger.Warn("count after toggle failed", "channelId", channelID, "error", err)
		respondJSON(ctx, w, http.StatusOK, toggleResponse{Active: subscribed})
		return
	}

	respondJSON(ctx, w, http.StatusOK, toggleResponse{Active: subscribed, Count: count})
}

// ListSubscribers handles GET /api/v1/subscriptions/{channelId}/subscribers.
func (h SubscriptionHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID := r.PathValue("channelId")
	if channelID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "channel id is required"})
		return
	}

	subscribers, err := h.Subscriptions.ListSubscribers(ctx, channelID)
	if err != nil {
		respondError(ctx, w, err, "unable to list subscribers")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"subscribers": subscribers})
}

// ListMine handles GET /api/v1/subscriptions/mine, the channels the
// current principal subscribes to.
func (h SubscriptionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channels, err := h.Subscriptions.ListSubscribedChannels(ctx, middleware.PrincipalFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err, "unable to list subscriptions")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"channels": channels})
}
