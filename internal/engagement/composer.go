package engagement

import (
	"time"

	"github.com/cliptide/backend/internal/models"
)

// The view types are the response shapes rendered to clients. Composition
// is pure: entities, owner summaries, and engagement blocks are fetched by
// the caller and merged here, so no view ever reaches into the credential
// boundary.

// VideoView is a video plus its owner summary and derived engagement.
type VideoView struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	VideoURL        string         `json:"videoUrl"`
	ThumbnailURL    string         `json:"thumbnailUrl"`
	DurationSeconds float64        `json:"durationSeconds"`
	Views           int64          `json:"views"`
	IsPublished     bool           `json:"isPublished"`
	CreatedAt       time.Time      `json:"createdAt"`
	Owner           models.Summary `json:"owner"`
	LikeCount       int64          `json:"likeCount"`
	IsLiked         bool           `json:"isLiked"`
	SubscriberCount int64          `json:"subscriberCount"`
	IsSubscribed    bool           `json:"isSubscribed"`
}

// ComposeVideoView merges a video, its owner, and the engagement blocks
// for the video's likes and the owner channel's subscribers.
func ComposeVideoView(video models.Video, owner models.Summary, likes, subscribers Engagement) VideoView {
	return VideoView{
		ID:              video.ID,
		Title:           video.Title,
		Description:     video.Description,
		VideoURL:        video.VideoURL,
		ThumbnailURL:    video.ThumbnailURL,
		DurationSeconds: video.DurationSeconds,
		Views:           video.Views,
		IsPublished:     video.IsPublished,
		CreatedAt:       video.CreatedAt,
		Owner:           owner,
		LikeCount:       likes.Count,
		IsLiked:         likes.ViewerFlag,
		SubscriberCount: subscribers.Count,
		IsSubscribed:    subscribers.ViewerFlag,
	}
}

// CommentView is a comment plus its owner summary and like engagement.
type CommentView struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	Owner     models.Summary `json:"owner"`
	LikeCount int64          `json:"likeCount"`
	IsLiked   bool           `json:"isLiked"`
}

// ComposeCommentView merges a comment, its owner, and its like block.
func ComposeCommentView(comment models.Comment, owner models.Summary, likes Engagement) CommentView {
	return CommentView{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Owner:     owner,
		LikeCount: likes.Count,
		IsLiked:   likes.ViewerFlag,
	}
}

// TweetView is a tweet plus its owner summary and like engagement.
type TweetView struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	Owner     models.Summary `json:"owner"`
	LikeCount int64          `json:"likeCount"`
	IsLiked   bool           `json:"isLiked"`
}

// ComposeTweetView merges a tweet, its owner, and its like block.
func ComposeTweetView(tweet models.Tweet, owner models.Summary, likes Engagement) TweetView {
	return TweetView{
		ID:        tweet.ID,
		Content:   tweet.Content,
		CreatedAt: tweet.CreatedAt,
		Owner:     owner,
		LikeCount: likes.Count,
		IsLiked:   likes.ViewerFlag,
	}
}

// ChannelProfile is the public page of a channel, viewer-relative.
type ChannelProfile struct {
	models.Summary
	CoverURL             string `json:"coverUrl"`
	SubscriberCount      int64  `json:"subscriberCount"`
	IsSubscribed         bool   `json:"isSubscribed"`
	ChannelsSubscribedTo int64  `json:"channelsSubscribedTo"`
}

// ComposeChannelProfile merges a channel's public fields with its
// subscriber engagement and its own outbound subscription count.
func ComposeChannelProfile(channel models.Principal, subscribers Engagement, subscribedTo int64) ChannelProfile {
	return ChannelProfile{
		Summary:              channel.Summarize(),
		CoverURL:             channel.CoverURL,
		SubscriberCount:      subscribers.Count,
		IsSubscribed:         subscribers.ViewerFlag,
		ChannelsSubscribedTo: subscribedTo,
	}
}

// DashboardStats is the owner-facing reduction over a channel's catalogue.
type DashboardStats struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalLikes       int64 `json:"totalLikes"`
	TotalSubscribers int64 `json:"totalSubscribers"`
}

// PlaylistView is a playlist plus its owner and membership reduction.
type PlaylistView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
	Owner       models.Summary `json:"owner"`
	TotalVideos int            `json:"totalVideos"`
	TotalViews  int64          `json:"totalViews"`
	Videos      []VideoView    `json:"videos,omitempty"`
}

// ComposePlaylistView merges a playlist with its member views, folding the
// total-videos and total-views reduction over the members.
func ComposePlaylistView(playlist models.Playlist, owner models.Summary, videos []VideoView) PlaylistView {
	var totalViews int64
	for _, v := range videos {
		totalViews += v.Views
	}

	return PlaylistView{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		CreatedAt:   playlist.CreatedAt,
		Owner:       owner,
		TotalVideos: len(videos),
		TotalViews:  totalViews,
		Videos:      videos,
	}
}
