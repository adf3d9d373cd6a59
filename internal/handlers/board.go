package handlers

import (
	"net/http"

	"pinboard-backend/internal/middleware"
	"pinboard-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// BoardHandler handles board-related HTTP requests
type BoardHandler struct {
	boardService *services.BoardService
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// ListBoards handles GET /api/v1/boards?userId=
func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.boardService.List(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list boards")
		return
	}
	respondJSON(w, http.StatusOK, boards)
}

// GetBoard handles GET /api/v1/boards/{boardID}
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.boardService.Get(r.Context(), chi.URLParam(r, "boardID"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to get board")
		return
	}
	respondJSON(w, http.StatusOK, board)
}

// CreateBoard handles POST /api/v1/boards
func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.BoardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	board, err := h.boardService.Create(ctx, middleware.GetUserID(ctx), req)
	if err != nil {
		respondServiceError(w, r, err, "Failed to create board")
		return
	}
	respondJSON(w, http.StatusCreated, board)
}

// UpdateBoard handles PUT /api/v1/boards/{boardID}
func (h *BoardHandler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.BoardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	board, err := h.boardService.Update(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "boardID"), req)
	if err != nil {
		respondServiceError(w, r, err, "Failed to update board")
		return
	}
	respondJSON(w, http.StatusOK, board)
}

// DeleteBoard handles DELETE /api/v1/boards/{boardID}
func (h *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.boardService.Delete(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "boardID")); err != nil {
		respondServiceError(w, r, err, "Failed to delete board")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddPin handles POST /api/v1/boards/{boardID}/pins
func (h *BoardHandler) AddPin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.BoardPinRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	board, err := h.boardService.AddPin(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "boardID"), req.PinID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to add pin to board")
		return
	}
	respondJSON(w, http.StatusOK, board)
}

// RemovePin handles DELETE /api/v1/boards/{boardID}/pins/{pinID}
func (h *BoardHandler) RemovePin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	board, err := h.boardService.RemovePin(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "boardID"), chi.URLParam(r, "pinID"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to remove pin from board")
		return
	}
	respondJSON(w, http.StatusOK, board)
}
