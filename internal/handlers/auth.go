package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cliptide/backend/internal/auth"
	"github.com/cliptide/backend/internal/logging"
	"github.com/cliptide/backend/internal/middleware"
	"github.com/cliptide/backend/internal/models"
	"github.com/cliptide/backend/internal/repositories"
)

var handlePattern = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)

// AuthHandler implements registration and the session lifecycle endpoints.
type AuthHandler struct {
	Users    UserStore
	Sessions SessionManager
	Blobs    BlobStore
	Limiter  RateLimiter
	NowFunc  func() time.Time
}

// Register handles POST /api/v1/auth/register requests. Accepts JSON or
// multipart form data; the multipart form may carry avatar and cover
// image uploads.
func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	req, avatarURL, coverURL, err := h.decodeRegistration(r)
	if err != nil {
		logger.Warn("invalid registration payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	now := h.now()
	hashed, err := auth.HashSecret(req.Password)
	if err != nil {
		logger.Error("failed to hash password", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to secure password"})
		return
	}

	principal := models.Principal{
		ID:           uuid.NewString(),
		Handle:       req.Handle,
		Email:        req.Email,
		PasswordHash: hashed,
		DisplayName:  req.DisplayName,
		AvatarURL:    avatarURL,
		CoverURL:     coverURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.Users.Create(ctx, principal); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			logger.Warn("registration conflict", "handle", req.Handle)
			respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "handle or email already taken"})
			return
		}
		logger.Error("failed to create principal", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create account"})
		return
	}

	tokens, err := h.Sessions.Issue(ctx, principal.ID)
	if err != nil {
		logger.Error("failed to issue session", "error", err, "principalId", principal.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
		return
	}

	setSessionCookies(w, r, tokens)
	respondJSON(ctx, w, http.StatusCreated, authResponse{Principal: principal.Summarize(), Tokens: tokens})
}

// Login handles POST /api/v1/auth/login requests.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "login") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many login attempts"})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.HandleOrEmail = strings.TrimSpace(strings.ToLower(req.HandleOrEmail))
	if req.HandleOrEmail == "" || req.Password == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "handle or email and password are required"})
		return
	}

	principal, tokens, err := h.Sessions.Login(ctx, req.HandleOrEmail, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			logger.Warn("login rejected", "identifier", req.HandleOrEmail)
			respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		logger.Error("login failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
		return
	}

	setSessionCookies(w, r, tokens)
	respondJSON(ctx, w, http.StatusOK, authResponse{Principal: principal.Summarize(), Tokens: tokens})
}

// Refresh handles POST /api/v1/auth/refresh requests. The refresh token
// may arrive in the request body or the refresh cookie.
func (h AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "refresh") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many refresh attempts"})
		return
	}

	token := h.refreshTokenFromRequest(r)
	if token == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "refresh token is required"})
		return
	}

	tokens, err := h.Sessions.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			logger.Warn("refresh rejected: stale or invalid token")
			respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired refresh token"})
			return
		}
		logger.Error("refresh failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to refresh session"})
		return
	}

	setSessionCookies(w, r, tokens)
	respondJSON(ctx, w, http.StatusOK, authResponse{Tokens: tokens})
}

// Logout handles POST /api/v1/auth/logout requests. Requires a resolved
// principal; repeated logouts succeed.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principalID := middleware.PrincipalFromContext(ctx)
	if err := h.Sessions.Logout(ctx, principalID); err != nil {
		logging.FromContext(ctx).Error("logout failed", "error", err, "principalId", principalID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to end session"})
		return
	}

	clearSessionCookies(w, r)
	respondJSON(ctx, w, http.StatusOK, struct{}{})
}

// Me handles GET /api/v1/me requests.
func (h AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, err := h.Users.FindByID(ctx, middleware.PrincipalFromContext(ctx))
	if err != nil {
		respondError(ctx, w, err, "unable to load profile")
		return
	}

	respondJSON(ctx, w, http.StatusOK, principal.Summarize())
}

func (h AuthHandler) decodeRegistration(r *http.Request) (registerRequest, string, string, error) {
	var req registerRequest
	var avatarURL, coverURL string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return req, "", "", errors.New("invalid multipart form")
		}
		req.Handle = r.FormValue("handle")
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")
		req.DisplayName = r.FormValue("displayName")

		var err error
		if avatarURL, err = h.saveUpload(r, "avatar"); err != nil {
			return req, "", "", err
		}
		if coverURL, err = h.saveUpload(r, "coverImage"); err != nil {
			return req, "", "", err
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, "", "", errors.New("invalid request body")
	}

	req.Handle = strings.TrimSpace(strings.ToLower(req.Handle))
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if req.Handle == "" || req.Email == "" || req.Password == "" || req.DisplayName == "" {
		return req, "", "", errors.New("handle, email, password, and display name are required")
	}
	if !handlePattern.MatchString(req.Handle) {
		return req, "", "", errors.New("handle must be 3-32 lowercase letters, digits, or underscores")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return req, "", "", errors.New("invalid email address")
	}
	if len(req.Password) < 8 {
		return req, "", "", errors.New("password must be at least 8 characters")
	}

	return req, avatarURL, coverURL, nil
}

func (h AuthHandler) saveUpload(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("read %s upload", field)
	}
	defer file.Close()

	if h.Blobs == nil {
		return "", errors.New("uploads are not configured")
	}

	name := fmt.Sprintf("avatars/%s-%s", uuid.NewString(), header.Filename)
	location, err := h.Blobs.Save(r.Context(), name, file)
	if err != nil {
		return "", fmt.Errorf("store %s upload", field)
	}

	return location, nil
}

func (h AuthHandler) refreshTokenFromRequest(r *http.Request) string {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		if token := strings.TrimSpace(req.RefreshToken); token != "" {
			return token
		}
	}
	if cookie, err := r.Cookie(auth.RefreshCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (h AuthHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type registerRequest struct {
	Handle      string `json:"handle"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type loginRequest struct {
	HandleOrEmail string `json:"handleOrEmail"`
	Password      string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type authResponse struct {
	Principal models.Summary       `json:"principal,omitzero"`
	Tokens    models.SessionTokens `json:"tokens"`
}
