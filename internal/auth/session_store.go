package auth

import (
	"context"
	"time"
)

// SessionRecord is the single live session per principal. The refresh
// token is stored as a fingerprint; issuing a new pair overwrites the
// record, which is the sole revocation mechanism for refresh tokens.
type SessionRecord struct {
	PrincipalID      string
	RefreshTokenHash string
	IssuedAt         time.Time
}

// SessionStore persists session records so refresh rotation survives
// process restarts. Save overwrites any existing record for the same
// principal; Delete is idempotent.
type SessionStore interface {
	Save(ctx context.Context, record SessionRecord) error
	Find(ctx context.Context, principalID string) (SessionRecord, error)
	Delete(ctx context.Context, principalID string) error
}
