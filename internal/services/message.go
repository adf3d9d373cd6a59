package services

import (
	"context"
	"fmt"
	"strings"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"
	"pinboard-backend/internal/repository"
)

// MessageService handles direct messages
type MessageService struct {
	store Store
}

// NewMessageService creates a new message service
func NewMessageService(store Store) *MessageService {
	return &MessageService{store: store}
}

// SendMessageRequest represents a request to send a message
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Text       string `json:"text" validate:"required,max=5000"`
}

// UpdateMessageRequest represents a request to edit a message
type UpdateMessageRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}

// Send delivers a message from the actor to an existing user
func (s *MessageService) Send(ctx context.Context, actorID string, req SendMessageRequest) (*models.Message, error) {
	text := strings.TrimSpace(req.Text)
	if req.ReceiverID == "" || text == "" {
		return nil, apperr.Validation("receiver_id and text are required")
	}
	if req.ReceiverID == actorID {
		return nil, apperr.SelfReference("you cannot message yourself")
	}

	repos := s.store.Repos()
	if _, err := repos.Users.GetByID(ctx, req.ReceiverID); err != nil {
		return nil, err
	}

	createdAt := now()
	message := &models.Message{
		ID:         newID(),
		SenderID:   actorID,
		ReceiverID: req.ReceiverID,
		Text:       text,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	if err := repos.Messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return message, nil
}

// List returns the actor's messages, newest first, optionally only the conversation with peerID
func (s *MessageService) List(ctx context.Context, actorID, peerID string) ([]*models.Message, error) {
	messages, err := s.store.Repos().Messages.List(ctx, repository.MessageFilter{UserID: actorID, PeerID: peerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// Get returns a message the actor sent or received
func (s *MessageService) Get(ctx context.Context, actorID, messageID string) (*models.Message, error) {
	message, err := s.store.Repos().Messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.SenderID != actorID && message.ReceiverID != actorID {
		return nil, apperr.Forbidden("you are not part of this conversation")
	}
	return message, nil
}

func (s *MessageService) sentBy(ctx context.Context, actorID, messageID string) error {
	message, err := s.store.Repos().Messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.SenderID != actorID {
		return apperr.Forbidden("you can only change messages you sent")
	}
	return nil
}

// Edit replaces the text of a message the actor sent
func (s *MessageService) Edit(ctx context.Context, actorID, messageID, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("text is required")
	}
	if err := s.sentBy(ctx, actorID, messageID); err != nil {
		return nil, err
	}
	return s.store.Repos().Messages.UpdateText(ctx, messageID, text)
}

// Delete removes a message the actor sent
func (s *MessageService) Delete(ctx context.Context, actorID, messageID string) error {
	if err := s.sentBy(ctx, actorID, messageID); err != nil {
		return err
	}
	_, err := s.store.Repos().Messages.Delete(ctx, messageID)
	return err
}
