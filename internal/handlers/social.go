package handlers

import (
	"net/http"

	"pinboard-backend/internal/middleware"
	"pinboard-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// SocialHandler handles follows, likes and saves
type SocialHandler struct {
	followService *services.FollowService
	likeService   *services.LikeService
	saveService   *services.SaveService
}

// NewSocialHandler creates a new social handler
func NewSocialHandler(followService *services.FollowService, likeService *services.LikeService, saveService *services.SaveService) *SocialHandler {
	return &SocialHandler{
		followService: followService,
		likeService:   likeService,
		saveService:   saveService,
	}
}

// FollowRequest represents the request body for following a user
type FollowRequest struct {
	TargetID string `json:"target_id" validate:"required"`
}

// SaveRequest represents the request body for saving a pin
type SaveRequest struct {
	PinID string `json:"pin_id" validate:"required"`
}

// Follow handles POST /api/v1/follows
func (h *SocialHandler) Follow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req FollowRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	follow, err := h.followService.Follow(ctx, userID, req.TargetID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to follow user")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("target_id", req.TargetID).
		Msg("User followed")

	respondJSON(w, http.StatusCreated, follow)
}

// Unfollow handles DELETE /api/v1/follows/{targetID}
func (h *SocialHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	targetID := chi.URLParam(r, "targetID")

	if err := h.followService.Unfollow(ctx, userID, targetID); err != nil {
		respondServiceError(w, r, err, "Failed to unfollow user")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("target_id", targetID).
		Msg("User unfollowed")

	w.WriteHeader(http.StatusNoContent)
}

// ListFollows handles GET /api/v1/users/{userID}/follows
func (h *SocialHandler) ListFollows(w http.ResponseWriter, r *http.Request) {
	follows, err := h.followService.ListFollows(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list follows")
		return
	}
	respondJSON(w, http.StatusOK, follows)
}

// Like handles POST /api/v1/pins/{pinID}/like
func (h *SocialHandler) Like(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	like, err := h.likeService.Like(ctx, userID, chi.URLParam(r, "pinID"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to like pin")
		return
	}
	respondJSON(w, http.StatusCreated, like)
}

// Unlike handles DELETE /api/v1/pins/{pinID}/like
func (h *SocialHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	like, err := h.likeService.Unlike(ctx, userID, chi.URLParam(r, "pinID"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to unlike pin")
		return
	}
	respondJSON(w, http.StatusOK, like)
}

// ListLikes handles GET /api/v1/pins/{pinID}/likes
func (h *SocialHandler) ListLikes(w http.ResponseWriter, r *http.Request) {
	likes, err := h.likeService.ListLikes(r.Context(), chi.URLParam(r, "pinID"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list likes")
		return
	}
	respondJSON(w, http.StatusOK, likes)
}

// GetSaved handles GET /api/v1/saves
func (h *SocialHandler) GetSaved(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	saved, err := h.saveService.GetSaved(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondServiceError(w, r, err, "Failed to get saved pins")
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

// Save handles POST /api/v1/saves
func (h *SocialHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req SaveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	save, err := h.saveService.Save(ctx, userID, req.PinID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to save pin")
		return
	}
	respondJSON(w, http.StatusOK, save)
}

// Unsave handles DELETE /api/v1/saves/{pinID}
func (h *SocialHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	save, err := h.saveService.Unsave(ctx, userID, chi.URLParam(r, "pinID"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to unsave pin")
		return
	}
	respondJSON(w, http.StatusOK, save)
}
