package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cliptide/backend/internal/auth"
	"github.com/cliptide/backend/internal/logging"
	"github.com/cliptide/backend/internal/repositories"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

func respondError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	case errors.Is(err, auth.ErrUnauthorized):
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
	case errors.Is(err, repositories.ErrSelfSubscription):
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "cannot subscribe to own channel"})
	case errors.Is(err, repositories.ErrNotFound):
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, repositories.ErrConflict):
		respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "conflict"})
	default:
		logging.FromContext(ctx).Error("request failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": fallback})
	}
}
