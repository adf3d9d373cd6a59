package handlers

import (
	"net/http"

	"pinboard-backend/internal/middleware"
	"pinboard-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListComments handles GET /api/v1/comments?pinId=
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.ListByPin(r.Context(), r.URL.Query().Get("pinId"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list comments")
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

// CreateComment handles POST /api/v1/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.CreateCommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.commentService.AddComment(ctx, userID, req.PinID, req.Text)
	if err != nil {
		respondServiceError(w, r, err, "Failed to add comment")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("pin_id", req.PinID).
		Str("comment_id", comment.ID).
		Msg("Comment added")

	respondJSON(w, http.StatusCreated, comment)
}

// UpdateComment handles PUT /api/v1/comments/{commentID}
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.UpdateCommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.commentService.EditComment(ctx, userID, chi.URLParam(r, "commentID"), req.Text)
	if err != nil {
		respondServiceError(w, r, err, "Failed to edit comment")
		return
	}
	respondJSON(w, http.StatusOK, comment)
}

// DeleteComment handles DELETE /api/v1/comments/{commentID}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	comment, err := h.commentService.DeleteComment(ctx, userID, chi.URLParam(r, "commentID"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to delete comment")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("comment_id", comment.ID).
		Msg("Comment deleted")

	respondJSON(w, http.StatusOK, comment)
}
