package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cliptide/backend/internal/engagement"
	"github.com/cliptide/backend/internal/middleware"
	"github.com/cliptide/backend/internal/models"
)

const maxTweetLength = 280

// TweetHandler implements short channel posts.
type TweetHandler struct {
	Tweets     TweetStore
	Users      UserStore
	Engagement engagement.Aggregator
	NowFunc    func() time.Time
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "content is required"})
		return
	}
	if len(content) > maxTweetLength {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "content is too long"})
		return
	}

	tweet := models.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   middleware.PrincipalFromContext(ctx),
		Content:   content,
		CreatedAt: h.now(),
	}

	if err := h.Tweets.Create(ctx, tweet); err != nil {
		respondError(ctx, w, err, "unable to create post")
		return
	}

	owner, err := h.Users.FindByID(ctx, tweet.OwnerID)
	if err != nil {
		respondError(ctx, w, err, "unable to create post")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, engagement.ComposeTweetView(tweet, owner.Summarize(), engagement.Engagement{}))
}

// ListByChannel handles GET /api/v1/tweets/channel/{channelId}.
// Anonymous viewers are allowed.
func (h TweetHandler) ListByChannel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID := r.PathValue("channelId")
	owner, err := h.Users.FindByID(ctx, channelID)
	if err != nil {
		respondError(ctx, w, err, "unable to list posts")
		return
	}

	tweets, err := h.Tweets.ListByOwner(ctx, channelID)
	if err != nil {
		respondError(ctx, w, err, "unable to list posts")
		return
	}

	viewerID := middleware.PrincipalFromContext(ctx)
	summary := owner.Summarize()
	views := make([]engagement.TweetView, 0, len(tweets))
	for _, tweet := range tweets {
		likes, err := h.Engagement.LikesFor(ctx, models.LikeTargetTweet, tweet.ID, viewerID)
		if err != nil {
			respondError(ctx, w, err, "unable to list posts")
			return
		}
		views = append(views, engagement.ComposeTweetView(tweet, summary, likes))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"tweets": views})
}

// Delete handles DELETE /api/v1/tweets/{id}. Only the author may delete.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweet, err := h.Tweets.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err, "unable to delete post")
		return
	}

	if tweet.OwnerID != middleware.PrincipalFromContext(ctx) {
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	if err := h.Tweets.Delete(ctx, tweet.ID); err != nil {
		respondError(ctx, w, err, "unable to delete post")
		return
	}

	respondJSON(ctx, w, http.StatusOK, struct{}{})
}

func (h TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
