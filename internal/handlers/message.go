package handlers

import (
	"net/http"

	"pinboard-backend/internal/middleware"
	"pinboard-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MessageHandler handles direct message HTTP requests
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// ListMessages handles GET /api/v1/messages?with=
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	messages, err := h.messageService.List(ctx, middleware.GetUserID(ctx), r.URL.Query().Get("with"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to list messages")
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// SendMessage handles POST /api/v1/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.SendMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	message, err := h.messageService.Send(ctx, userID, req)
	if err != nil {
		respondServiceError(w, r, err, "Failed to send message")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("receiver_id", req.ReceiverID).
		Str("message_id", message.ID).
		Msg("Message sent")

	respondJSON(w, http.StatusCreated, message)
}

// GetMessage handles GET /api/v1/messages/{messageID}
func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	message, err := h.messageService.Get(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "messageID"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to get message")
		return
	}
	respondJSON(w, http.StatusOK, message)
}

// UpdateMessage handles PUT /api/v1/messages/{messageID}
func (h *MessageHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.UpdateMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	message, err := h.messageService.Edit(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "messageID"), req.Text)
	if err != nil {
		respondServiceError(w, r, err, "Failed to edit message")
		return
	}
	respondJSON(w, http.StatusOK, message)
}

// DeleteMessage handles DELETE /api/v1/messages/{messageID}
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.messageService.Delete(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "messageID")); err != nil {
		respondServiceError(w, r, err, "Failed to delete message")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
