// Package http exposes the dish ranking state over a JSON API for browser views.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// AuthService defines the identity operations required by the HTTP handlers.
type AuthService interface {
	// Login signs the user in; false means the credentials did not match.
	Login(ctx context.Context, username, password string) (bool, error)
	// Logout clears the signed-in identity.
	Logout(ctx context.Context) error
	// CurrentUser returns the signed-in username, if any.
	CurrentUser() (string, bool)
}

// AuthHandler handles HTTP requests for login, logout and identity lookup.
type AuthHandler struct {
	// AuthService performs the underlying identity operations.
	AuthService AuthService
	Log         *zap.Logger
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse reports the signed-in username.
type UserResponse struct {
	User string `json:"user"`
}

// Login handles POST /api/login.
// It answers 200 with the username on success and 401 on a credential mismatch.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ok, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.Log.Error("login failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{User: req.Username})
}

// Logout handles POST /api/logout. It succeeds whether or not someone was signed in.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.Logout(r.Context()); err != nil {
		h.Log.Error("logout failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/me and reports who is signed in.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.AuthService.CurrentUser()
	if !ok {
		http.Error(w, "login required", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{User: user})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
