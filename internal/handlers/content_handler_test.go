package handlers

import (
	"net/http"
	"testing"

	"github.com/cliptide/backend/internal/engagement"
)

func TestCommentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.seedPrincipal(t, "owner")
	_, tokens := env.seedPrincipal(t, "commenter")
	video := env.seedVideo(t, owner.ID, "clip", true)

	rec := env.do(t, http.MethodPost, "/api/v1/videos/"+video.ID+"/comments", tokens.AccessToken, map[string]string{
		"content": "nice clip",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	comment := decodeBody[engagement.CommentView](t, rec)

	rec = env.do(t, http.MethodPatch, "/api/v1/comments/"+comment.ID, tokens.AccessToken, map[string]string{
		"content": "edited",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on edit, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/videos/"+video.ID+"/comments", "", nil)
	listed := decodeBody[struct {
		Comments []engagement.CommentView `json:"comments"`
	}](t, rec)
	if len(listed.Comments) != 1 || listed.Comments[0].Content != "edited" {
		t.Fatalf("unexpected comments: %+v", listed.Comments)
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/comments/"+comment.ID, tokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", rec.Code)
	}
}

func TestCommentEditIsAuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerTokens := env.seedPrincipal(t, "owner")
	_, authorTokens := env.seedPrincipal(t, "author")
	video := env.seedVideo(t, owner.ID, "clip", true)

	rec := env.do(t, http.MethodPost, "/api/v1/videos/"+video.ID+"/comments", authorTokens.AccessToken, map[string]string{
		"content": "mine",
	})
	comment := decodeBody[engagement.CommentView](t, rec)

	rec = env.do(t, http.MethodPatch, "/api/v1/comments/"+comment.ID, ownerTokens.AccessToken, map[string]string{
		"content": "hijacked",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-author edit, got %d", rec.Code)
	}

	// The video owner may still remove the comment from their video.
	rec = env.do(t, http.MethodDelete, "/api/v1/comments/"+comment.ID, ownerTokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner delete, got %d", rec.Code)
	}
}

func TestCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.seedPrincipal(t, "owner")
	_, tokens := env.seedPrincipal(t, "commenter")
	video := env.seedVideo(t, owner.ID, "clip", true)

	rec := env.do(t, http.MethodPost, "/api/v1/videos/"+video.ID+"/comments", tokens.AccessToken, map[string]string{
		"content": "   ",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank content, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/videos/no-such-video/comments", tokens.AccessToken, map[string]string{
		"content": "hello",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing video, got %d", rec.Code)
	}
}

func TestTweetLifecycle(t *testing.T) {
	env := newTestEnv(t)
	author, tokens := env.seedPrincipal(t, "author")

	rec := env.do(t, http.MethodPost, "/api/v1/tweets", tokens.AccessToken, map[string]string{
		"content": "short post",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	tweet := decodeBody[engagement.TweetView](t, rec)

	rec = env.do(t, http.MethodGet, "/api/v1/tweets/channel/"+author.ID, "", nil)
	listed := decodeBody[struct {
		Tweets []engagement.TweetView `json:"tweets"`
	}](t, rec)
	if len(listed.Tweets) != 1 || listed.Tweets[0].ID != tweet.ID {
		t.Fatalf("unexpected tweets: %+v", listed.Tweets)
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/tweets/"+tweet.ID, tokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", rec.Code)
	}
}

func TestTweetRejectsOverlongContent(t *testing.T) {
	env := newTestEnv(t)
	_, tokens := env.seedPrincipal(t, "author")

	long := make([]byte, maxTweetLength+1)
	for i := range long {
		long[i] = 'a'
	}

	rec := env.do(t, http.MethodPost, "/api/v1/tweets", tokens.AccessToken, map[string]string{
		"content": string(long),
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPlaylistLifecycle(t *testing.T) {
	env := newTestEnv(t)
	owner, tokens := env.seedPrincipal(t, "owner")
	first := env.seedVideo(t, owner.ID, "one", true)
	second := env.seedVideo(t, owner.ID, "two", true)

	rec := env.do(t, http.MethodPost, "/api/v1/playlists", tokens.AccessToken, map[string]string{
		"name": "favourites",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	playlist := decodeBody[engagement.PlaylistView](t, rec)

	for _, video := range []string{first.ID, second.ID} {
		rec = env.do(t, http.MethodPost, "/api/v1/playlists/"+playlist.ID+"/videos/"+video, tokens.AccessToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("add video: expected 200, got %d", rec.Code)
		}
	}

	// Adding the same video again conflicts.
	rec = env.do(t, http.MethodPost, "/api/v1/playlists/"+playlist.ID+"/videos/"+first.ID, tokens.AccessToken, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate member, got %d", rec.Code)
	}

	// Views folded over the members.
	env.do(t, http.MethodGet, "/api/v1/videos/"+first.ID, "", nil)
	rec = env.do(t, http.MethodGet, "/api/v1/playlists/"+playlist.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	view := decodeBody[engagement.PlaylistView](t, rec)
	if view.TotalVideos != 2 || view.TotalViews != 1 {
		t.Fatalf("unexpected totals: %+v", view)
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/playlists/"+playlist.ID+"/videos/"+second.ID, tokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove video: expected 200, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/playlists/"+playlist.ID, tokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete playlist: expected 200, got %d", rec.Code)
	}
}

func TestPlaylistCurationIsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerTokens := env.seedPrincipal(t, "owner")
	_, strangerTokens := env.seedPrincipal(t, "stranger")
	video := env.seedVideo(t, owner.ID, "clip", true)

	rec := env.do(t, http.MethodPost, "/api/v1/playlists", ownerTokens.AccessToken, map[string]string{
		"name": "mine",
	})
	playlist := decodeBody[engagement.PlaylistView](t, rec)

	rec = env.do(t, http.MethodPost, "/api/v1/playlists/"+playlist.ID+"/videos/"+video.ID, strangerTokens.AccessToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for stranger curation, got %d", rec.Code)
	}
}
