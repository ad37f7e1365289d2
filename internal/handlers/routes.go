package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cliptide/backend/internal/engagement"
	"github.com/cliptide/backend/internal/middleware"
)

// Dependencies aggregates everything the HTTP surface needs. Fields are
// interfaces so tests can slot in fakes.
type Dependencies struct {
	Logger        *slog.Logger
	Users         UserStore
	Sessions      SessionManager
	Likes         LikeStore
	Subscriptions SubscriptionStore
	Videos        VideoStore
	Comments      CommentStore
	Tweets        TweetStore
	Playlists     PlaylistStore
	Blobs         BlobStore
	AuthLimiter   RateLimiter
	PingDB        func(ctx context.Context) error
}

// NewRouter wires every route with its middleware chain and returns the
// root handler.
func NewRouter(deps Dependencies) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, deps)

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return middleware.RequestLogger(logger)(mux)
}

// RegisterRoutes attaches all API routes to the mux. Reads that render
// viewer-relative engagement take OptionalAuth; writes take RequireAuth.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	aggregator := engagement.Aggregator{Likes: deps.Likes, Subscriptions: deps.Subscriptions}

	authHandler := AuthHandler{Users: deps.Users, Sessions: deps.Sessions, Blobs: deps.Blobs, Limiter: deps.AuthLimiter}
	likeHandler := LikeHandler{Likes: deps.Likes, Videos: deps.Videos, Comments: deps.Comments, Tweets: deps.Tweets, Users: deps.Users, Engagement: aggregator}
	subscriptionHandler := SubscriptionHandler{Subscriptions: deps.Subscriptions, Users: deps.Users}
	videoHandler := VideoHandler{Videos: deps.Videos, Users: deps.Users, Blobs: deps.Blobs, Engagement: aggregator}
	commentHandler := CommentHandler{Comments: deps.Comments, Videos: deps.Videos, Users: deps.Users, Engagement: aggregator}
	tweetHandler := TweetHandler{Tweets: deps.Tweets, Users: deps.Users, Engagement: aggregator}
	channelHandler := ChannelHandler{Users: deps.Users, Videos: deps.Videos, Likes: deps.Likes, Subscriptions: deps.Subscriptions, Engagement: aggregator}
	playlistHandler := PlaylistHandler{Playlists: deps.Playlists, Videos: deps.Videos, Users: deps.Users, Engagement: aggregator}
	healthHandler := HealthHandler{Ping: deps.PingDB}

	require := middleware.RequireAuth(deps.Sessions)
	optional := middleware.OptionalAuth(deps.Sessions)

	mux.HandleFunc("GET /api/v1/healthz", healthHandler.Check)

	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.Handle("POST /api/v1/auth/logout", require(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/v1/me", require(http.HandlerFunc(authHandler.Me)))

	mux.Handle("POST /api/v1/likes/videos/{id}", require(http.HandlerFunc(likeHandler.ToggleVideo)))
	mux.Handle("POST /api/v1/likes/comments/{id}", require(http.HandlerFunc(likeHandler.ToggleComment)))
	mux.Handle("POST /api/v1/likes/tweets/{id}", require(http.HandlerFunc(likeHandler.ToggleTweet)))
	mux.Handle("GET /api/v1/likes/videos", require(http.HandlerFunc(likeHandler.ListLikedVideos)))

	mux.Handle("POST /api/v1/subscriptions/{channelId}", require(http.HandlerFunc(subscriptionHandler.Toggle)))
	mux.Handle("GET /api/v1/subscriptions/{channelId}/subscribers", optional(http.HandlerFunc(subscriptionHandler.ListSubscribers)))
	mux.Handle("GET /api/v1/subscriptions/mine", require(http.HandlerFunc(subscriptionHandler.ListMine)))

	mux.Handle("POST /api/v1/videos", require(http.HandlerFunc(videoHandler.Create)))
	mux.Handle("GET /api/v1/videos/{id}", optional(http.HandlerFunc(videoHandler.Get)))
	mux.Handle("PATCH /api/v1/videos/{id}/publish", require(http.HandlerFunc(videoHandler.TogglePublish)))
	mux.Handle("DELETE /api/v1/videos/{id}", require(http.HandlerFunc(videoHandler.Delete)))

	mux.Handle("POST /api/v1/videos/{id}/comments", require(http.HandlerFunc(commentHandler.Create)))
	mux.Handle("GET /api/v1/videos/{id}/comments", optional(http.HandlerFunc(commentHandler.ListByVideo)))
	mux.Handle("PATCH /api/v1/comments/{id}", require(http.HandlerFunc(commentHandler.Update)))
	mux.Handle("DELETE /api/v1/comments/{id}", require(http.HandlerFunc(commentHandler.Delete)))

	mux.Handle("POST /api/v1/tweets", require(http.HandlerFunc(tweetHandler.Create)))
	mux.Handle("GET /api/v1/tweets/channel/{channelId}", optional(http.HandlerFunc(tweetHandler.ListByChannel)))
	mux.Handle("DELETE /api/v1/tweets/{id}", require(http.HandlerFunc(tweetHandler.Delete)))

	mux.Handle("GET /api/v1/channels/{handle}", optional(http.HandlerFunc(channelHandler.Profile)))
	mux.Handle("GET /api/v1/channels/{handle}/videos", optional(http.HandlerFunc(channelHandler.ListVideos)))
	mux.Handle("GET /api/v1/dashboard/stats", require(http.HandlerFunc(channelHandler.DashboardStats)))
	mux.Handle("GET /api/v1/dashboard/videos", require(http.HandlerFunc(videoHandler.ListMine)))

	mux.Handle("POST /api/v1/playlists", require(http.HandlerFunc(playlistHandler.Create)))
	mux.Handle("GET /api/v1/playlists/mine", require(http.HandlerFunc(playlistHandler.ListMine)))
	mux.Handle("GET /api/v1/playlists/{id}", optional(http.HandlerFunc(playlistHandler.Get)))
	mux.Handle("POST /api/v1/playlists/{id}/videos/{videoId}", require(http.HandlerFunc(playlistHandler.AddVideo)))
	mux.Handle("DELETE /api/v1/playlists/{id}/videos/{videoId}", require(http.HandlerFunc(playlistHandler.RemoveVideo)))
	mux.Handle("DELETE /api/v1/playlists/{id}", require(http.HandlerFunc(playlistHandler.Delete)))
}
