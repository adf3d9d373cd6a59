package services

import (
	"context"
	"errors"
	"fmt"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"
	"pinboard-backend/internal/repository"
)

// LikeService handles likes on pins
type LikeService struct {
	store Store
}

// NewLikeService creates a new like service
func NewLikeService(store Store) *LikeService {
	return &LikeService{store: store}
}

// Like records that userID likes pinID and adds the user to the pin's likes
func (s *LikeService) Like(ctx context.Context, userID, pinID string) (*models.Like, error) {
	if userID == "" || pinID == "" {
		return nil, apperr.Validation("user id and pin id are required")
	}

	createdAt := now()
	like := &models.Like{
		ID:        newID(),
		UserID:    userID,
		PinID:     pinID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if _, err := r.Pins.GetByID(ctx, pinID); err != nil {
			return err
		}

		_, err := r.Likes.Get(ctx, userID, pinID)
		if err == nil {
			return apperr.Duplicate("you already liked this pin")
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}

		if err := r.Likes.Create(ctx, like); err != nil {
			if errors.Is(err, apperr.ErrDuplicate) {
				return apperr.Duplicate("you already liked this pin")
			}
			return err
		}
		return r.Pins.AddLike(ctx, pinID, userID)
	})
	if err != nil {
		return nil, err
	}

	return like, nil
}

// Unlike removes the like of userID on pinID and returns the removed record
func (s *LikeService) Unlike(ctx context.Context, userID, pinID string) (*models.Like, error) {
	if userID == "" || pinID == "" {
		return nil, apperr.Validation("user id and pin id are required")
	}

	var removed *models.Like
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		like, err := r.Likes.Get(ctx, userID, pinID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.NotFound("you have not liked this pin")
			}
			return err
		}
		if _, err := r.Likes.Delete(ctx, userID, pinID); err != nil {
			return err
		}
		if err := r.Pins.RemoveLike(ctx, pinID, userID); err != nil {
			return err
		}
		removed = like
		return nil
	})
	if err != nil {
		return nil, err
	}

	return removed, nil
}

// ListLikes returns the likes on a pin
func (s *LikeService) ListLikes(ctx context.Context, pinID string) ([]*models.Like, error) {
	repos := s.store.Repos()
	if _, err := repos.Pins.GetByID(ctx, pinID); err != nil {
		return nil, err
	}
	likes, err := repos.Likes.ListByPin(ctx, pinID)
	if err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}
	return likes, nil
}
