package handlers

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/cliptide/backend/internal/models"
	"github.com/cliptide/backend/internal/repositories"
)

type fakeUsers struct {
	mu            sync.Mutex
	principals    map[string]models.Principal
	findByIDCalls int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{principals: make(map[string]models.Principal)}
}

func (f *fakeUsers) Create(_ context.Context, principal models.Principal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.principals {
		if existing.Handle == principal.Handle || existing.Email == principal.Email {
			return repositories.ErrConflict
		}
	}
	f.principals[principal.ID] = principal
	return nil
}

func (f *fakeUsers) FindByHandleOrEmail(_ context.Context, identifier string) (models.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, principal := range f.principals {
		if principal.Handle == identifier || principal.Email == identifier {
			return principal, nil
		}
	}
	return models.Principal{}, repositories.ErrNotFound
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (models.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findByIDCalls++
	if principal, ok := f.principals[id]; ok {
		return principal, nil
	}
	return models.Principal{}, repositories.ErrNotFound
}

func (f *fakeUsers) FindByHandle(_ context.Context, handle string) (models.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, principal := range f.principals {
		if principal.Handle == handle {
			return principal, nil
		}
	}
	return models.Principal{}, repositories.ErrNotFound
}

type likeKey struct {
	subjectID string
	target    models.LikeTarget
	targetID  string
}

type fakeLikes struct {
	mu     sync.Mutex
	edges  map[likeKey]time.Time
	videos *fakeVideos
}

func newFakeLikes(videos *fakeVideos) *fakeLikes {
	return &fakeLikes{edges: make(map[likeKey]time.Time), videos: videos}
}

func (f *fakeLikes) Toggle(_ context.Context, subjectID string, target models.LikeTarget, targetID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := likeKey{subjectID, target, targetID}
	if _, ok := f.edges[key]; ok {
		delete(f.edges, key)
		return false, nil
	}
	f.edges[key] = time.Now()
	return true, nil
}

func (f *fakeLikes) CountByTarget(_ context.Context, target models.LikeTarget, targetID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for key := range f.edges {
		if key.target == target && key.targetID == targetID {
			count++
		}
	}
	return count, nil
}

func (f *fakeLikes) Exists(_ context.Context, subjectID string, target models.LikeTarget, targetID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.edges[likeKey{subjectID, target, targetID}]
	return ok, nil
}

func (f *fakeLikes) ListLikedVideos(ctx context.Context, subjectID string) ([]models.Video, error) {
	f.mu.Lock()
	liked := make(map[string]time.Time)
	for key, at := range f.edges {
		if key.subjectID == subjectID && key.target == models.LikeTargetVideo {
			liked[key.targetID] = at
		}
	}
	f.mu.Unlock()

	var videos []models.Video
	for id := range liked {
		video, err := f.videos.FindByID(ctx, id)
		if err != nil || !video.IsPublished {
			continue
		}
		videos = append(videos, video)
	}
	sort.Slice(videos, func(i, j int) bool {
		return liked[videos[i].ID].After(liked[videos[j].ID])
	})
	return videos, nil
}

func (f *fakeLikes) CountForVideoOwner(ctx context.Context, ownerID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for key := range f.edges {
		if key.target != models.LikeTargetVideo {
			continue
		}
		if video, err := f.videos.FindByID(ctx, key.targetID); err == nil && video.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

type subKey struct {
	subscriberID string
	channelID    string
}

type fakeSubscriptions struct {
	mu          sync.Mutex
	edges       map[subKey]struct{}
	users       *fakeUsers
	toggleCalls int
}

func newFakeSubscriptions(users *fakeUsers) *fakeSubscriptions {
	return &fakeSubscriptions{edges: make(map[subKey]struct{}), users: users}
}

func (f *fakeSubscriptions) Toggle(_ context.Context, subscriberID, channelID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggleCalls++
	if subscriberID == channelID {
		return false, repositories.ErrSelfSubscription
	}
	key := subKey{subscriberID, channelID}
	if _, ok := f.edges[key]; ok {
		delete(f.edges, key)
		return false, nil
	}
	f.edges[key] = struct{}{}
	return true, nil
}

func (f *fakeSubscriptions) CountByChannel(_ context.Context, channelID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for key := range f.edges {
		if key.channelID == channelID {
			count++
		}
	}
	return count, nil
}

func (f *fakeSubscriptions) IsSubscribed(_ context.Context, subscriberID, channelID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.edges[subKey{subscriberID, channelID}]
	return ok, nil
}

func (f *fakeSubscriptions) ListSubscribers(ctx context.Context, channelID string) ([]models.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var summaries []models.Summary
	for key := range f.edges {
		if key.channelID != channelID {
			continue
		}
		if principal, err := f.users.FindByID(ctx, key.subscriberID); err == nil {
			summaries = append(summaries, principal.Summarize())
		}
	}
	return summaries, nil
}

func (f *fakeSubscriptions) ListSubscribedChannels(ctx context.Context, subscriberID string) ([]models.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var summaries []models.Summary
	for key := range f.edges {
		if key.subscriberID != subscriberID {
			continue
		}
		if principal, err := f.users.FindByID(ctx, key.channelID); err == nil {
			summaries = append(summaries, principal.Summarize())
		}
	}
	return summaries, nil
}

func (f *fakeSubscriptions) CountSubscribedChannels(_ context.Context, subscriberID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for key := range f.edges {
		if key.subscriberID == subscriberID {
			count++
		}
	}
	return count, nil
}

type fakeVideos struct {
	mu     sync.Mutex
	videos map[string]models.Video
}

func newFakeVideos() *fakeVideos {
	return &fakeVideos{videos: make(map[string]models.Video)}
}

func (f *fakeVideos) Create(_ context.Context, video models.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videos[video.ID] = video
	return nil
}

func (f *fakeVideos) FindByID(_ context.Context, id string) (models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if video, ok := f.videos[id]; ok {
		return video, nil
	}
	return models.Video{}, repositories.ErrNotFound
}

func (f *fakeVideos) ListPublishedByOwner(_ context.Context, ownerID string) ([]models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var videos []models.Video
	for _, video := range f.videos {
		if video.OwnerID == ownerID && video.IsPublished {
			videos = append(videos, video)
		}
	}
	return videos, nil
}

func (f *fakeVideos) ListByOwner(_ context.Context, ownerID string) ([]models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var videos []models.Video
	for _, video := range f.videos {
		if video.OwnerID == ownerID {
			videos = append(videos, video)
		}
	}
	return videos, nil
}

func (f *fakeVideos) IncrementViews(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	video, ok := f.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Views++
	f.videos[id] = video
	return nil
}

func (f *fakeVideos) SetPublished(_ context.Context, id string, published bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	video, ok := f.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.IsPublished = published
	f.videos[id] = video
	return nil
}

func (f *fakeVideos) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.videos, id)
	return nil
}

func (f *fakeVideos) OwnerStats(_ context.Context, ownerID string) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var totalVideos, totalViews int64
	for _, video := range f.videos {
		if video.OwnerID == ownerID {
			totalVideos++
			totalViews += video.Views
		}
	}
	return totalVideos, totalViews, nil
}

type fakeComments struct {
	mu       sync.Mutex
	comments map[string]models.Comment
}

func newFakeComments() *fakeComments {
	return &fakeComments{comments: make(map[string]models.Comment)}
}

func (f *fakeComments) Create(_ context.Context, comment models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeComments) FindByID(_ context.Context, id string) (models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if comment, ok := f.comments[id]; ok {
		return comment, nil
	}
	return models.Comment{}, repositories.ErrNotFound
}

func (f *fakeComments) ListByVideo(_ context.Context, videoID string) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var comments []models.Comment
	for _, comment := range f.comments {
		if comment.VideoID == videoID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (f *fakeComments) UpdateContent(_ context.Context, id, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok {
		return repositories.ErrNotFound
	}
	comment.Content = content
	f.comments[id] = comment
	return nil
}

func (f *fakeComments) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

type fakeTweets struct {
	mu     sync.Mutex
	tweets map[string]models.Tweet
}

func newFakeTweets() *fakeTweets {
	return &fakeTweets{tweets: make(map[string]models.Tweet)}
}

func (f *fakeTweets) Create(_ context.Context, tweet models.Tweet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tweets[tweet.ID] = tweet
	return nil
}

func (f *fakeTweets) FindByID(_ context.Context, id string) (models.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tweet, ok := f.tweets[id]; ok {
		return tweet, nil
	}
	return models.Tweet{}, repositories.ErrNotFound
}

func (f *fakeTweets) ListByOwner(_ context.Context, ownerID string) ([]models.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tweets []models.Tweet
	for _, tweet := range f.tweets {
		if tweet.OwnerID == ownerID {
			tweets = append(tweets, tweet)
		}
	}
	return tweets, nil
}

func (f *fakeTweets) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tweets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.tweets, id)
	return nil
}

type fakePlaylists struct {
	mu        sync.Mutex
	playlists map[string]models.Playlist
	members   map[string][]string
	videos    *fakeVideos
}

func newFakePlaylists(videos *fakeVideos) *fakePlaylists {
	return &fakePlaylists{
		playlists: make(map[string]models.Playlist),
		members:   make(map[string][]string),
		videos:    videos,
	}
}

func (f *fakePlaylists) Create(_ context.Context, playlist models.Playlist) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playlists[playlist.ID] = playlist
	return nil
}

func (f *fakePlaylists) FindByID(_ context.Context, id string) (models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if playlist, ok := f.playlists[id]; ok {
		return playlist, nil
	}
	return models.Playlist{}, repositories.ErrNotFound
}

func (f *fakePlaylists) ListByOwner(_ context.Context, ownerID string) ([]models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var playlists []models.Playlist
	for _, playlist := range f.playlists {
		if playlist.OwnerID == ownerID {
			playlists = append(playlists, playlist)
		}
	}
	return playlists, nil
}

func (f *fakePlaylists) AddVideo(_ context.Context, playlistID, videoID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.members[playlistID] {
		if existing == videoID {
			return repositories.ErrConflict
		}
	}
	f.members[playlistID] = append(f.members[playlistID], videoID)
	return nil
}

func (f *fakePlaylists) RemoveVideo(_ context.Context, playlistID, videoID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	members := f.members[playlistID]
	for i, existing := range members {
		if existing == videoID {
			f.members[playlistID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakePlaylists) ListVideos(ctx context.Context, playlistID string) ([]models.Video, error) {
	f.mu.Lock()
	ids := append([]string(nil), f.members[playlistID]...)
	f.mu.Unlock()

	var videos []models.Video
	for _, id := range ids {
		if video, err := f.videos.FindByID(ctx, id); err == nil {
			videos = append(videos, video)
		}
	}
	return videos, nil
}

func (f *fakePlaylists) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.playlists[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.playlists, id)
	delete(f.members, id)
	return nil
}

type fakeBlobs struct {
	mu      sync.Mutex
	saved   map[string][]byte
	deleted []string
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{saved: make(map[string][]byte)}
}

func (f *fakeBlobs) Save(_ context.Context, name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	location := fmt.Sprintf("https://cdn.test/%s", name)
	f.mu.Lock()
	f.saved[location] = data
	f.mu.Unlock()
	return location, nil
}

func (f *fakeBlobs) Delete(_ context.Context, location string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.saved[location]; !ok {
		return false, nil
	}
	delete(f.saved, location)
	f.deleted = append(f.deleted, location)
	return true, nil
}
