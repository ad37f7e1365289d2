package models

import "time"

// Principal represents a registered account. A principal doubles as a
// channel: other principals subscribe to it and its handle names the
// channel page.
type Principal struct {
	ID           string
	Handle       string
	Email        string
	PasswordHash string
	DisplayName  string
	AvatarURL    string
	CoverURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary projects the publicly visible fields of a principal. Anything
// rendered to another viewer goes through this projection so the password
// hash and session state never leave the credential boundary.
type Summary struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

// Summarize returns the public projection of the principal.
func (p Principal) Summarize() Summary {
	return Summary{
		ID:          p.ID,
		Handle:      p.Handle,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
	}
}

// LikeTarget enumerates the entity kinds a like edge may point at.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Valid reports whether the target kind is one of the known values.
func (t LikeTarget) Valid() bool {
	switch t {
	case LikeTargetVideo, LikeTargetComment, LikeTargetTweet:
		return true
	}
	return false
}

// Video is an uploaded clip owned by a principal.
type Video struct {
	ID              string
	OwnerID         string
	Title           string
	Description     string
	VideoURL        string
	ThumbnailURL    string
	DurationSeconds float64
	Views           int64
	IsPublished     bool
	CreatedAt       time.Time
}

// Comment is attached to a single video.
type Comment struct {
	ID        string
	VideoID   string
	OwnerID   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tweet is a short free-standing post on a channel.
type Tweet struct {
	ID        string
	OwnerID   string
	Content   string
	CreatedAt time.Time
}

// Playlist groups videos curated by its owner.
type Playlist struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	CreatedAt   time.Time
}

// SessionTokens groups the bearer credentials issued to an authenticated
// principal. Both tokens are signed; only the refresh token has a stored
// counterpart on the server.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
