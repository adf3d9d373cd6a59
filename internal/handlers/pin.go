package handlers

import (
	"net/http"

	"pinboard-backend/internal/middleware"
	"pinboard-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PinHandler handles pin-related HTTP requests
type PinHandler struct {
	pinService *services.PinService
}

// NewPinHandler creates a new pin handler
func NewPinHandler(pinService *services.PinService) *PinHandler {
	return &PinHandler{pinService: pinService}
}

// ListPins handles GET /api/v1/pins?page=&pageSize=&userId=
func (h *PinHandler) ListPins(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("userId"))
}

// ListUserPins handles GET /api/v1/users/{userID}/pins
func (h *PinHandler) ListUserPins(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, chi.URLParam(r, "userID"))
}

func (h *PinHandler) list(w http.ResponseWriter, r *http.Request, userID string) {
	q := r.URL.Query()
	page, err := h.pinService.List(r.Context(), userID, q.Get("page"), q.Get("pageSize"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list pins")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// GetPin handles GET /api/v1/pins/{pinID}
func (h *PinHandler) GetPin(w http.ResponseWriter, r *http.Request) {
	pin, err := h.pinService.Get(r.Context(), chi.URLParam(r, "pinID"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to get pin")
		return
	}
	respondJSON(w, http.StatusOK, pin)
}

// CreatePin handles POST /api/v1/pins
func (h *PinHandler) CreatePin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.CreatePinRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pin, err := h.pinService.Create(ctx, userID, req)
	if err != nil {
		respondServiceError(w, r, err, "Failed to create pin")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("pin_id", pin.ID).
		Msg("Pin created")

	respondJSON(w, http.StatusCreated, pin)
}

// UpdatePin handles PUT /api/v1/pins/{pinID}
func (h *PinHandler) UpdatePin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.UpdatePinRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pin, err := h.pinService.Update(ctx, userID, chi.URLParam(r, "pinID"), req)
	if err != nil {
		respondServiceError(w, r, err, "Failed to update pin")
		return
	}
	respondJSON(w, http.StatusOK, pin)
}

// DeletePin handles DELETE /api/v1/pins/{pinID}
func (h *PinHandler) DeletePin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	pinID := chi.URLParam(r, "pinID")

	if err := h.pinService.Delete(ctx, userID, pinID); err != nil {
		respondServiceError(w, r, err, "Failed to delete pin")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("pin_id", pinID).
		Msg("Pin deleted")

	w.WriteHeader(http.StatusNoContent)
}
