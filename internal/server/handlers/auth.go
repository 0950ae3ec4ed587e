package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/authd/internal/auth"
	"github.com/iudanet/authd/internal/models"
	"github.com/iudanet/authd/pkg/api"
)

// AuthHandler handles the credential-lifecycle endpoints
type AuthHandler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(logger *slog.Logger, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		service: service,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		h.sendAuthError(ctx, w, err)
		return
	}

	h.sendJSON(w, userResponse(user), http.StatusCreated)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pair, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.sendAuthError(ctx, w, err)
		return
	}

	h.sendJSON(w, tokenResponse(pair), http.StatusOK)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode refresh request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" {
		h.sendError(w, "refresh_token is required", http.StatusBadRequest)
		return
	}

	pair, err := h.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.sendAuthError(ctx, w, err)
		return
	}

	h.sendJSON(w, tokenResponse(pair), http.StatusOK)
}

// Logout handles POST /api/v1/auth/logout
// Requires the auth middleware; revokes all refresh tokens of the caller.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.service.Logout(ctx, userID); err != nil {
		h.sendAuthError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/me
// Requires the auth middleware; returns the caller's sanitized user record.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.service.GetUser(ctx, userID)
	if err != nil {
		h.sendAuthError(ctx, w, err)
		return
	}

	h.sendJSON(w, userResponse(user), http.StatusOK)
}

// ResetRequest handles POST /api/v1/auth/reset/request
// Always acknowledges with 202 so the response never reveals whether the
// email is registered.
func (h *AuthHandler) ResetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode reset request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.RequestPasswordReset(ctx, req.Email); err != nil {
		h.sendAuthError(ctx, w, err)
		return
	}

	h.sendJSON(w, api.MessageResponse{
		Message: "If the address is registered, a reset link has been sent",
	}, http.StatusAccepted)
}

// ResetComplete handles POST /api/v1/auth/reset/complete
func (h *AuthHandler) ResetComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ResetCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode reset complete request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		h.sendError(w, "token is required", http.StatusBadRequest)
		return
	}

	if err := h.service.CompletePasswordReset(ctx, req.Token, req.NewPassword); err != nil {
		h.sendAuthError(ctx, w, err)
		return
	}

	h.sendJSON(w, api.MessageResponse{Message: "Password updated"}, http.StatusOK)
}

// sendAuthError maps service error kinds to HTTP statuses. Internal errors
// are logged with their cause and surfaced as an opaque 500.
func (h *AuthHandler) sendAuthError(ctx context.Context, w http.ResponseWriter, err error) {
	var authErr *auth.Error
	if !errors.As(err, &authErr) {
		h.logger.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	switch authErr.Kind() {
	case auth.KindInvalidCredentials:
		h.sendError(w, authErr.Error(), http.StatusUnauthorized)
	case auth.KindTokenExpired, auth.KindInvalidToken:
		h.sendError(w, authErr.Error(), http.StatusUnauthorized)
	case auth.KindUserNotFound:
		h.sendError(w, authErr.Error(), http.StatusNotFound)
	case auth.KindEmailAlreadyExists:
		h.sendError(w, authErr.Error(), http.StatusConflict)
	case auth.KindInvalidPassword, auth.KindInvalidEmail:
		h.sendError(w, authErr.Error(), http.StatusBadRequest)
	case auth.KindRateLimitExceeded:
		h.sendError(w, authErr.Error(), http.StatusTooManyRequests)
	default:
		h.logger.ErrorContext(ctx, "internal error", slog.Any("error", errors.Unwrap(authErr)))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
	}
}

// userResponse converts a sanitized user model to the API shape
func userResponse(user *models.User) api.UserResponse {
	return api.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Roles:     user.Roles,
		Active:    user.Active,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	}
}

// tokenResponse converts a token pair to the API shape
func tokenResponse(pair *auth.TokenPair) api.TokenResponse {
	return api.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}
}

// sendJSON writes a JSON response
func (h *AuthHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError writes a JSON error response
func (h *AuthHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	h.sendJSON(w, resp, statusCode)
}
