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

const maxCommentLength = 2000

// CommentHandler implements the comment thread under each video.
type CommentHandler struct {
	Comments   CommentStore
	Videos     VideoStore
	Users      UserStore
	Engagement engagement.Aggregator
	NowFunc    func() time.Time
}

// Create handles POST /api/v1/videos/{id}/comments.
func (h CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, err := h.Videos.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err, "unable to create comment")
		return
	}

	content, ok := h.decodeContent(w, r)
	if !ok {
		return
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		VideoID:   video.ID,
		OwnerID:   middleware.PrincipalFromContext(ctx),
		Content:   content,
		CreatedAt: h.now(),
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		respondError(ctx, w, err, "unable to create comment")
		return
	}

	owner, err := h.Users.FindByID(ctx, comment.OwnerID)
	if err != nil {
		respondError(ctx, w, err, "unable to create comment")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, engagement.ComposeCommentView(comment, owner.Summarize(), engagement.Engagement{}))
}

// ListByVideo handles GET /api/v1/videos/{id}/comments. Anonymous
// viewers are allowed; their like flags are always false.
func (h CommentHandler) ListByVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, err := h.Videos.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err, "unable to list comments")
		return
	}

	comments, err := h.Comments.ListByVideo(ctx, video.ID)
	if err != nil {
		respondError(ctx, w, err, "unable to list comments")
		return
	}

	viewerID := middleware.PrincipalFromContext(ctx)
	views := make([]engagement.CommentView, 0, len(comments))
	for _, comment := range comments {
		owner, err := h.Users.FindByID(ctx, comment.OwnerID)
		if err != nil {
			respondError(ctx, w, err, "unable to list comments")
			return
		}
		likes, err := h.Engagement.LikesFor(ctx, models.LikeTargetComment, comment.ID, viewerID)
		if err != nil {
			respondError(ctx, w, err, "unable to list comments")
			return
		}
		views = append(views, engagement.ComposeCommentView(comment, owner.Summarize(), likes))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"comments": views})
}

// Update handles PATCH /api/v1/comments/{id}. Only the author may edit.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, err := h.Comments.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err, "unable to update comment")
		return
	}

	if comment.OwnerID != middleware.PrincipalFromContext(ctx) {
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	content, ok := h.decodeContent(w, r)
	if !ok {
		return
	}

	if err := h.Comments.UpdateContent(ctx, comment.ID, content); err != nil {
		respondError(ctx, w, err, "unable to update comment")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"id": comment.ID, "content": content})
}

// Delete handles DELETE /api/v1/comments/{id}. The author or the video
// owner may remove a comment.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, err := h.Comments.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err, "unable to delete comment")
		return
	}

	principalID := middleware.PrincipalFromContext(ctx)
	if comment.OwnerID != principalID {
		video, err := h.Videos.FindByID(ctx, comment.VideoID)
		if err != nil || video.OwnerID != principalID {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
	}

	if err := h.Comments.Delete(ctx, comment.ID); err != nil {
		respondError(ctx, w, err, "unable to delete comment")
		return
	}

	respondJSON(ctx, w, http.StatusOK, struct{}{})
}

func (h CommentHandler) decodeContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return "", false
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "content is required"})
		return "", false
	}
	if len(content) > maxCommentLength {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "content is too long"})
		return "", false
	}

	return content, true
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
