package handlers

import (
	"net/http"
	"time"

	"pinboard-backend/internal/middleware"
	"pinboard-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles account and profile HTTP requests
type UserHandler struct {
	userService *services.UserService
	cookieName  string
	tokenTTL    time.Duration
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, cookieName string, tokenTTL time.Duration) *UserHandler {
	return &UserHandler{
		userService: userService,
		cookieName:  cookieName,
		tokenTTL:    tokenTTL,
	}
}

// DeleteUserRequest represents the request body for deleting an account
type DeleteUserRequest struct {
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/v1/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userService.Register(ctx, req)
	if err != nil {
		respondServiceError(w, r, err, "Failed to register user")
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("User registered")

	respondJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.userService.Login(ctx, req)
	if err != nil {
		respondServiceError(w, r, err, "Failed to log in")
		return
	}

	if h.cookieName != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     h.cookieName,
			Value:    resp.Token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(h.tokenTTL),
		})
	}

	log.Info().Str("user_id", resp.User.ID).Msg("User logged in")

	respondJSON(w, http.StatusOK, resp)
}

// Logout handles POST /api/v1/auth/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.cookieName != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     h.cookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/v1/auth/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	me, err := h.userService.CurrentUser(ctx, userID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to get current user")
		return
	}

	respondJSON(w, http.StatusOK, me)
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "Failed to list users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// GetUser handles GET /api/v1/users/{userID}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.userService.GetProfile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to get user")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// UpdateUser handles PUT /api/v1/users/{userID}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)
	userID := chi.URLParam(r, "userID")

	var req services.UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(ctx, actorID, userID, req)
	if err != nil {
		respondServiceError(w, r, err, "Failed to update user")
		return
	}

	log.Info().Str("user_id", userID).Msg("User updated")

	respondJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/v1/users/{userID}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetUserID(ctx)
	userID := chi.URLParam(r, "userID")

	var req DeleteUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	report, err := h.userService.DeleteUser(ctx, actorID, userID, req.Password)
	if err != nil {
		respondServiceError(w, r, err, "Failed to delete user")
		return
	}

	if h.cookieName != "" {
		http.SetCookie(w, &http.Cookie{Name: h.cookieName, Value: "", Path: "/", HttpOnly: true, MaxAge: -1})
	}

	respondJSON(w, http.StatusOK, report)
}
