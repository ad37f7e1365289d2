package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cliptide/backend/internal/auth"
	"github.com/cliptide/backend/internal/models"
	"github.com/cliptide/backend/internal/repositories"
)

// testEnv wires the full router against in-memory fakes and a real
// session manager so tests exercise the same middleware chain as
// production.
type testEnv struct {
	router        http.Handler
	users         *fakeUsers
	likes         *fakeLikes
	subscriptions *fakeSubscriptions
	videos        *fakeVideos
	comments      *fakeComments
	tweets        *fakeTweets
	playlists     *fakePlaylists
	blobs         *fakeBlobs
	sessions      *auth.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newFakeUsers()
	videos := newFakeVideos()

	issuer, err := auth.NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	sessions := auth.NewManager(issuer, auth.NewInMemorySessionStore(), repositories.PrincipalDirectory{Users: users})

	env := &testEnv{
		users:         users,
		likes:         newFakeLikes(videos),
		subscriptions: newFakeSubscriptions(users),
		videos:        videos,
		comments:      newFakeComments(),
		tweets:        newFakeTweets(),
		playlists:     newFakePlaylists(videos),
		blobs:         newFakeBlobs(),
		sessions:      sessions,
	}

	env.router = NewRouter(Dependencies{
		Users:         env.users,
		Sessions:      env.sessions,
		Likes:         env.likes,
		Subscriptions: env.subscriptions,
		Videos:        env.videos,
		Comments:      env.comments,
		Tweets:        env.tweets,
		Playlists:     env.playlists,
		Blobs:         env.blobs,
	})

	return env
}

// seedPrincipal creates an account directly in the fake store and logs
// it in, returning the principal and a live token pair.
func (env *testEnv) seedPrincipal(t *testing.T, handle string) (models.Principal, models.SessionTokens) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	principal := models.Principal{
		ID:           uuid.NewString(),
		Handle:       handle,
		Email:        handle + "@example.com",
		PasswordHash: string(hash),
		DisplayName:  handle,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := env.users.Create(context.Background(), principal); err != nil {
		t.Fatalf("seed principal %s: %v", handle, err)
	}

	tokens, err := env.sessions.Issue(context.Background(), principal.ID)
	if err != nil {
		t.Fatalf("issue tokens for %s: %v", handle, err)
	}

	return principal, tokens
}

func (env *testEnv) seedVideo(t *testing.T, ownerID, title string, published bool) models.Video {
	t.Helper()

	video := models.Video{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Title:        title,
		VideoURL:     "https://cdn.test/videos/" + title + ".mp4",
		ThumbnailURL: "https://cdn.test/thumbnails/" + title + ".jpg",
		IsPublished:  published,
		CreatedAt:    time.Now().UTC(),
	}
	if err := env.videos.Create(context.Background(), video); err != nil {
		t.Fatalf("seed video %s: %v", title, err)
	}
	return video
}

// do performs a request against the router. A non-empty accessToken is
// attached as a bearer header.
func (env *testEnv) do(t *testing.T, method, target, accessToken string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return out
}
