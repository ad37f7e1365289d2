package auth

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cliptide/backend/internal/models"
)

type fakeDirectory struct {
	principals map[string]models.Principal
}

func newFakeDirectory(t *testing.T, handle, email, secret string) (*fakeDirectory, models.Principal) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash secret: %v", err)
	}
	principal := models.Principal{
		ID:           "principal-1",
		Handle:       handle,
		Email:        email,
		PasswordHash: string(hashed),
	}
	return &fakeDirectory{principals: map[string]models.Principal{principal.ID: principal}}, principal
}

func (d *fakeDirectory) FindByHandleOrEmail(_ context.Context, identifier string) (models.Principal, error) {
	for _, p := range d.principals {
		if p.Handle == identifier || p.Email == identifier {
			return p, nil
		}
	}
	return models.Principal{}, ErrPrincipalNotFound
}

func (d *fakeDirectory) FindByID(_ context.Context, id string) (models.Principal, error) {
	p, ok := d.principals[id]
	if !ok {
		return models.Principal{}, ErrPrincipalNotFound
	}
	return p, nil
}

func newTestManager(t *testing.T, directory PrincipalDirectory) (*Manager, *InMemorySessionStore) {
	t.Helper()
	issuer, err := NewIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	store := NewInMemorySessionStore()
	return NewManager(issuer, store, directory), store
}

func TestManagerLoginThenResolve(t *testing.T) {
	directory, principal := newFakeDirectory(t, "alice", "alice@example.com", "correct horse")
	manager, _ := newTestManager(t, directory)

	got, tokens, err := manager.Login(context.Background(), "alice", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != principal.ID {
		t.Fatalf("expected principal %q got %q", principal.ID, got.ID)
	}

	resolved, err := manager.Resolve(tokens.AccessToken)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != principal.ID {
		t.Fatalf("expected resolved id %q got %q", principal.ID, resolved)
	}
}

func TestManagerLoginRejectsBadCredentials(t *testing.T) {
	directory, _ := newFakeDirectory(t, "alice", "alice@example.com", "correct horse")
	manager, store := newTestManager(t, directory)

	if _, _, err := manager.Login(context.Background(), "alice", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials got %v", err)
	}
	if _, _, err := manager.Login(context.Background(), "nobody", "correct horse"); err != ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for unknown identifier got %v", err)
	}
	if store.Has("principal-1") {
		t.Fatal("failed login must not create a session")
	}
}

func TestManagerRefreshRotation(t *testing.T) {
	directory, principal := newFakeDirectory(t, "alice", "alice@example.com", "correct horse")
	manager, _ := newTestManager(t, directory)
	ctx := context.Background()

	_, first, err := manager.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	second, err := manager.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("expected a rotated refresh token")
	}

	// The rotated-out token still has a valid signature but must be dead.
	if _, err := manager.Refresh(ctx, first.RefreshToken); err != ErrUnauthorized {
		t.Fatalf("expected unauthorized for replayed token got %v", err)
	}

	third, err := manager.Refresh(ctx, second.RefreshToken)
	if err != nil {
		t.Fatalf("refresh with current token: %v", err)
	}
	if id, err := manager.Resolve(third.AccessToken); err != nil || id != principal.ID {
		t.Fatalf("resolve rotated access token: id=%q err=%v", id, err)
	}
}

func TestManagerRefreshAfterLogin(t *testing.T) {
	// A second login replaces the session, killing the first refresh token.
	directory, _ := newFakeDirectory(t, "alice", "alice@example.com", "correct horse")
	manager, _ := newTestManager(t, directory)
	ctx := context.Background()

	_, first, err := manager.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	if _, _, err := manager.Login(ctx, "alice", "correct horse"); err != nil {
		t.Fatalf("second login: %v", err)
	}

	if _, err := manager.Refresh(ctx, first.RefreshToken); err != ErrUnauthorized {
		t.Fatalf("expected unauthorized for superseded token got %v", err)
	}
}

func TestManagerLogout(t *testing.T) {
	directory, principal := newFakeDirectory(t, "alice", "alice@example.com", "correct horse")
	manager, store := newTestManager(t, directory)
	ctx := context.Background()

	_, tokens, err := manager.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := manager.Logout(ctx, principal.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if store.Has(principal.ID) {
		t.Fatal("expected session record to be removed")
	}
	if err := manager.Logout(ctx, principal.ID); err != nil {
		t.Fatalf("second logout should be a no-op, got %v", err)
	}

	if _, err := manager.Refresh(ctx, tokens.RefreshToken); err != ErrUnauthorized {
		t.Fatalf("expected unauthorized after logout got %v", err)
	}

	// Access tokens are stateless and stay valid until their own expiry.
	if id, err := manager.Resolve(tokens.AccessToken); err != nil || id != principal.ID {
		t.Fatalf("access token should outlive logout: id=%q err=%v", id, err)
	}
}

func TestManagerRefreshUnknownPrincipal(t *testing.T) {
	directory, _ := newFakeDirectory(t, "alice", "alice@example.com", "correct horse")
	manager, _ := newTestManager(t, directory)
	ctx := context.Background()

	_, tokens, err := manager.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	delete(directory.principals, "principal-1")

	if _, err := manager.Refresh(ctx, tokens.RefreshToken); err != ErrUnauthorized {
		t.Fatalf("expected unauthorized for deleted principal got %v", err)
	}
}
