package services

import (
	"context"
	"fmt"
	"strings"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"
	"pinboard-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// CommentService handles the comment lifecycle
type CommentService struct {
	store Store
}

// NewCommentService creates a new comment service
func NewCommentService(store Store) *CommentService {
	return &CommentService{store: store}
}

// CreateCommentRequest represents a request to comment on a pin
type CreateCommentRequest struct {
	PinID string `json:"pin_id" validate:"required"`
	Text  string `json:"text" validate:"required,max=2000"`
}

// UpdateCommentRequest represents a request to edit a comment
type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// AddComment creates a comment and appends it to the pin's comments.
// If the pin does not exist the comment is rolled back and NotFound is returned.
func (s *CommentService) AddComment(ctx context.Context, userID, pinID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if userID == "" || pinID == "" || text == "" {
		return nil, apperr.Validation("user id, pin id and text are required")
	}

	createdAt := now()
	comment := &models.Comment{
		ID:        newID(),
		Text:      text,
		UserID:    userID,
		PinID:     pinID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if err := r.Comments.Create(ctx, comment); err != nil {
			return err
		}
		return r.Pins.AddComment(ctx, pinID, comment.ID)
	})
	if err != nil {
		return nil, err
	}

	return comment, nil
}

// EditComment replaces the text of a comment written by the actor
func (s *CommentService) EditComment(ctx context.Context, actorID, commentID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("text is required")
	}

	repos := s.store.Repos()
	comment, err := repos.Comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actorID {
		return nil, apperr.Forbidden("you can only edit your own comments")
	}

	return repos.Comments.UpdateText(ctx, commentID, text)
}

// DeleteComment removes a comment and pulls it from its pin. The pin is taken from the comment record.
// The author and the owner of the pin may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, actorID, commentID string) (*models.Comment, error) {
	var deleted *models.Comment
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		comment, err := r.Comments.GetByID(ctx, commentID)
		if err != nil {
			return err
		}
		if comment.UserID != actorID {
			pin, err := r.Pins.GetByID(ctx, comment.PinID)
			if err != nil || pin.UserID != actorID {
				return apperr.Forbidden("you can only delete your own comments")
			}
		}
		if err := deleteComment(ctx, r, comment); err != nil {
			return err
		}
		deleted = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// DeleteAllCommentsByUser removes every comment the user wrote, pulling each from its pin
func (s *CommentService) DeleteAllCommentsByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		deleted, err := deleteCommentsByUser(ctx, r, userID)
		n = deleted
		return err
	})
	if err != nil {
		return 0, err
	}
	log.Info().Str("user_id", userID).Int64("deleted", n).Msg("Comments deleted")
	return n, nil
}

// ListByPin returns a pin's comments with their authors
func (s *CommentService) ListByPin(ctx context.Context, pinID string) ([]*models.Comment, error) {
	if pinID == "" {
		return nil, apperr.Validation("pinId is required")
	}
	repos := s.store.Repos()
	if _, err := repos.Pins.GetByID(ctx, pinID); err != nil {
		return nil, err
	}
	comments, err := repos.Comments.ListByPin(ctx, pinID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func deleteComment(ctx context.Context, r repository.Repositories, comment *models.Comment) error {
	if err := r.Pins.RemoveComment(ctx, comment.PinID, comment.ID); err != nil {
		return err
	}
	if _, err := r.Comments.Delete(ctx, comment.ID); err != nil {
		return err
	}
	return nil
}

func deleteCommentsByUser(ctx context.Context, r repository.Repositories, userID string) (int64, error) {
	comments, err := r.Comments.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, comment := range comments {
		if err := deleteComment(ctx, r, comment); err != nil {
			return 0, err
		}
	}
	return int64(len(comments)), nil
}
