// Package http provides the HTTP handlers for authentication and
// flashcard management.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Erespul/flashcards.github.io/internal/models"
	"github.com/Erespul/flashcards.github.io/internal/session"
)

// UserService defines the user operations required by the HTTP handlers.
type UserService interface {
	// Register validates and stores a new account.
	Register(ctx context.Context, name, email, password, confirm string) error
	// Authenticate verifies credentials and returns the user without
	// the password.
	Authenticate(ctx context.Context, email, password string) (models.User, error)
}

// SessionStore is what the auth handlers need from the session manager.
type SessionStore interface {
	Create(user models.SessionUser) string
	Delete(token string)
}

// AuthHandler handles registration, login, logout and the current-user
// endpoint.
type AuthHandler struct {
	Users    UserService
	Sessions SessionStore
	Logger   *zap.Logger
}

// RegisterRequest is the JSON payload for user registration.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest is the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := h.Users.Register(r.Context(), req.Name, req.Email, req.Password, req.ConfirmPassword); err != nil {
		h.writeServiceError(w, "register", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// Login handles POST /api/login. On success it creates a session and
// sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "please enter both email and password")
		return
	}

	user, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, "login", err)
		return
	}

	current := models.SessionUser{Name: user.Name, Email: user.Email, CreatedAt: user.CreatedAt}
	token := h.Sessions.Create(current)
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, current)
}

// Logout handles POST /api/logout. It drops the server-side session and
// expires the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		h.Sessions.Delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Me handles GET /api/me and returns the session's current user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "please log in")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
