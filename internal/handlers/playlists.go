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

// PlaylistHandler implements playlist curation and playback views.
type PlaylistHandler struct {
	Playlists  PlaylistStore
	Videos     VideoStore
	Users      UserStore
	Engagement engagement.Aggregator
	NowFunc    func() time.Time
}

// Create handles POST /api/v1/playlists.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     middleware.PrincipalFromContext(ctx),
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   h.now(),
	}

	if err := h.Playlists.Create(ctx, playlist); err != nil {
		respondError(ctx, w, err, "unable to create playlist")
		return
	}

	owner, err := h.Users.FindByID(ctx, playlist.OwnerID)
	if err != nil {
		respondError(ctx, w, err, "unable to create playlist")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, engagement.ComposePlaylistView(playlist, owner.Summarize(), nil))
}

// Get handles GET /api/v1/playlists/{id}, the playlist with its member
// video views and folded totals.
func (h PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, err := h.Playlists.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err, "unable to load playlist")
		return
	}

	owner, err := h.Users.FindByID(ctx, playlist.OwnerID)
	if err != nil {
		respondError(ctx, w, err, "unable to load playlist")
		return
	}

	videos, err := h.Playlists.ListVideos(ctx, playlist.ID)
	if err != nil {
		respondError(ctx, w, err, "unable to load playlist")
		return
	}

	viewerID := middleware.PrincipalFromContext(ctx)
	views := make([]engagement.VideoView, 0, len(videos))
	for _, video := range videos {
		videoOwner, err := h.Users.FindByID(ctx, video.OwnerID)
		if err != nil {
			respondError(ctx, w, err, "unable to load playlist")
			return
		}
		likes, err := h.Engagement.LikesFor(ctx, models.LikeTargetVideo, video.ID, viewerID)
		if err != nil {
			respondError(ctx, w, err, "unable to load playlist")
			return
		}
		subscribers, err := h.Engagement.SubscribersFor(ctx, video.OwnerID, viewerID)
		if err != nil {
			respondError(ctx, w, err, "unable to load playlist")
			return
		}
		views = append(views, engagement.ComposeVideoView(video, videoOwner.Summarize(), likes, subscribers))
	}

	respondJSON(ctx, w, http.StatusOK, engagement.ComposePlaylistView(playlist, owner.Summarize(), views))
}

// ListMine handles GET /api/v1/playlists/mine.
func (h PlaylistHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlists, err := h.Playlists.ListByOwner(ctx, middleware.PrincipalFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err, "unable to list playlists")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"playlists": playlists})
}

// AddVideo handles POST /api/v1/playlists/{id}/videos/{videoId}. Only
// the playlist owner may curate; adding the same video twice conflicts.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.ownedPlaylist(w, r)
	if !ok {
		return
	}

	video, err := h.Videos.FindByID(ctx, r.PathValue("videoId"))
	if err != nil {
		respondError(ctx, w, err, "unable to add video to playlist")
		return
	}

	if err := h.Playlists.AddVideo(ctx, playlist.ID, video.ID); err != nil {
		respondError(ctx, w, err, "unable to add video to playlist")
		return
	}

	respondJSON(ctx, w, http.StatusOK, struct{}{})
}

// RemoveVideo handles DELETE /api/v1/playlists/{id}/videos/{videoId}.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.ownedPlaylist(w, r)
	if !ok {
		return
	}

	if err := h.Playlists.RemoveVideo(ctx, playlist.ID, r.PathValue("videoId")); err != nil {
		respondError(ctx, w, err, "unable to remove video from playlist")
		return
	}

	respondJSON(ctx, w, http.StatusOK, struct{}{})
}

// Delete handles DELETE /api/v1/playlists/{id}.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.ownedPlaylist(w, r)
	if !ok {
		return
	}

	if err := h.Playlists.Delete(ctx, playlist.ID); err != nil {
		respondError(ctx, w, err, "unable to delete playlist")
		return
	}

	respondJSON(ctx, w, http.StatusOK, struct{}{})
}

func (h PlaylistHandler) ownedPlaylist(w http.ResponseWriter, r *http.Request) (models.Playlist, bool) {
	ctx := r.Context()

	playlist, err := h.Playlists.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, err, "unable to load playlist")
		return models.Playlist{}, false
	}

	if playlist.OwnerID != middleware.PrincipalFromContext(ctx) {
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "not found"})
		return models.Playlist{}, false
	}

	return playlist, true
}

func (h PlaylistHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
