package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cliptide/backend/internal/engagement"
	"github.com/cliptide/backend/internal/logging"
	"github.com/cliptide/backend/internal/middleware"
	"github.com/cliptide/backend/internal/models"
)

const maxVideoUploadBytes = 512 << 20

// VideoHandler implements upload, watch, publish, and delete workflows.
type VideoHandler struct {
	Videos     VideoStore
	Users      UserStore
	Blobs      BlobStore
	Engagement engagement.Aggregator
	NowFunc    func() time.Time
}

// Create handles POST /api/v1/videos. The request is multipart form data
// carrying the video file, a thumbnail, and metadata fields.
func (h VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := logging.StartSpan(r.Context(), "video.publish")
	defer span.End()
	logger := logging.FromContext(ctx)

	if err := r.ParseMultipartForm(maxVideoUploadBytes); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	duration, err := strconv.ParseFloat(r.FormValue("durationSeconds"), 64)
	if err != nil || duration < 0 {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "durationSeconds must be a non-negative number"})
		return
	}

	videoID := uuid.NewString()
	videoURL, err := h.storeUpload(ctx, r, "videoFile", "videos/"+videoID)
	if err != nil {
		logger.Error("video upload failed", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "video file is required"})
		return
	}

	thumbnailURL, err := h.storeUpload(ctx, r, "thumbnail", "thumbnails/"+videoID)
	if err != nil {
		logger.Error("thumbnail upload failed", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "thumbnail is required"})
		return
	}

	video := models.Video{
		ID:              videoID,
		OwnerID:         middleware.PrincipalFromContext(ctx),
		Title:           title,
		Description:     strings.TrimSpace(r.FormValue("description")),
		VideoURL:        videoURL,
		ThumbnailURL:    thumbnailURL,
		DurationSeconds: duration,
		IsPublished:     true,
		CreatedAt:       h.now(),
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		logger.Error("create video failed", "videoId", video.ID, "error", err)
		respondError(ctx, w, err, "unable to create video")
		return
	}

	owner, err := h.Users.FindByID(ctx, video.OwnerID)
	if err != nil {
		respondError(ctx, w, err, "unable to create video")
		return
	}

	view := engagement.ComposeVideoView(video, owner.Summarize(), engagement.Engagement{}, engagement.Engagement{})
	respondJSON(ctx, w, http.StatusCreated, view)
}

// Get handles GET /api/v1/videos/{id}. Anonymous viewers are allowed;
// unpublished videos are visible only to their owner and do not count
// watches.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	video, err := h.Videos.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err, "unable to load video")
		return
	}

	viewerID := middleware.PrincipalFromContext(ctx)
	if !video.IsPublished && video.OwnerID != viewerID {
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	if video.IsPublished {
		if err := h.Videos.IncrementViews(ctx, video.ID); err != nil {
			logger.Warn("increment views failed", "videoId", video.ID, "error", err)
		} else {
			video.Views++
		}
	}

	view, err := h.composeView(r, video, viewerID)
	if err != nil {
		respondError(ctx, w, err, "unable to load video")
		return
	}

	respondJSON(ctx, w, http.StatusOK, view)
}

// TogglePublish handles PATCH /api/v1/videos/{id}/publish. Only the
// owner may flip visibility.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, err := h.Videos.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err, "unable to update video")
		return
	}

	if video.OwnerID != middleware.PrincipalFromContext(ctx) {
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	if err := h.Videos.SetPublished(ctx, video.ID, !video.IsPublished); err != nil {
		respondError(ctx, w, err, "unable to update video")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"id": video.ID, "isPublished": !video.IsPublished})
}

// Delete handles DELETE /api/v1/videos/{id}. Removes the database row
// first, then best-effort removes the stored blobs.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	video, err := h.Videos.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err, "unable to delete video")
		return
	}

	if video.OwnerID != middleware.PrincipalFromContext(ctx) {
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	if err := h.Videos.Delete(ctx, video.ID); err != nil {
		respondError(ctx, w, err, "unable to delete video")
		return
	}

	if h.Blobs != nil {
		for _, location := range []string{video.VideoURL, video.ThumbnailURL} {
			if location == "" {
				continue
			}
			if _, err := h.Blobs.Delete(ctx, location); err != nil {
				logger.Warn("delete stored blob failed", "location", location, "error", err)
			}
		}
	}

	respondJSON(ctx, w, http.StatusOK, struct{}{})
}

// ListMine handles GET /api/v1/dashboard/videos, the owner's full
// catalogue including unpublished uploads, with per-video engagement.
func (h VideoHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := middleware.PrincipalFromContext(ctx)

	videos, err := h.Videos.ListByOwner(ctx, ownerID)
	if err != nil {
		respondError(ctx, w, err, "unable to list videos")
		return
	}

	views, err := h.composeViews(r, videos, ownerID)
	if err != nil {
		respondError(ctx, w, err, "unable to list videos")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": views})
}

func (h VideoHandler) composeViews(r *http.Request, videos []models.Video, viewerID string) ([]engagement.VideoView, error) {
	views := make([]engagement.VideoView, 0, len(videos))
	for _, video := range videos {
		view, err := h.composeView(r, video, viewerID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (h VideoHandler) composeView(r *http.Request, video models.Video, viewerID string) (engagement.VideoView, error) {
	ctx := r.Context()

	owner, err := h.Users.FindByID(ctx, video.OwnerID)
	if err != nil {
		return engagement.VideoView{}, fmt.Errorf("load video owner: %w", err)
	}

	likes, err := h.Engagement.LikesFor(ctx, models.LikeTargetVideo, video.ID, viewerID)
	if err != nil {
		return engagement.VideoView{}, err
	}

	subscribers, err := h.Engagement.SubscribersFor(ctx, video.OwnerID, viewerID)
	if err != nil {
		return engagement.VideoView{}, err
	}

	return engagement.ComposeVideoView(video, owner.Summarize(), likes, subscribers), nil
}

func (h VideoHandler) storeUpload(ctx context.Context, r *http.Request, field, prefix string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("read %s upload: %w", field, err)
	}
	defer file.Close()

	if h.Blobs == nil {
		return "", errors.New("uploads are not configured")
	}

	name := prefix + path.Ext(header.Filename)
	location, err := h.Blobs.Save(ctx, name, file)
	if err != nil {
		return "", fmt.Errorf("store %s upload: %w", field, err)
	}

	return location, nil
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
