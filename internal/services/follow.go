package services

import (
	"context"
	"errors"
	"fmt"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/cache"
	"pinboard-backend/internal/models"
	"pinboard-backend/internal/repository"
)

// FollowService handles the follow graph
type FollowService struct {
	store Store
	cache cache.UserCache
}

// NewFollowService creates a new follow service
func NewFollowService(store Store, userCache cache.UserCache) *FollowService {
	return &FollowService{store: store, cache: userCache}
}

// Follow makes actorID follow targetID. The Follow record and both users' arrays change together.
func (s *FollowService) Follow(ctx context.Context, actorID, targetID string) (*models.Follow, error) {
	if actorID == "" || targetID == "" {
		return nil, apperr.Validation("user ids are required")
	}
	if actorID == targetID {
		return nil, apperr.SelfReference("you cannot follow yourself")
	}

	createdAt := now()
	follow := &models.Follow{
		ID:          newID(),
		FollowerID:  actorID,
		FollowingID: targetID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if _, err := r.Users.GetByID(ctx, actorID); err != nil {
			return err
		}
		if _, err := r.Users.GetByID(ctx, targetID); err != nil {
			return err
		}

		_, err := r.Follows.Get(ctx, actorID, targetID)
		if err == nil {
			return apperr.Duplicate("already following this user")
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}

		if err := r.Follows.Create(ctx, follow); err != nil {
			if errors.Is(err, apperr.ErrDuplicate) {
				return apperr.Duplicate("already following this user")
			}
			return err
		}
		if err := r.Users.AddFollowing(ctx, actorID, targetID); err != nil {
			return err
		}
		return r.Users.AddFollower(ctx, targetID, actorID)
	})
	if err != nil {
		return nil, err
	}
	invalidateUsers(ctx, s.cache, actorID, targetID)

	return follow, nil
}

// Unfollow removes the follow from actorID to targetID and both array entries
func (s *FollowService) Unfollow(ctx context.Context, actorID, targetID string) error {
	if actorID == "" || targetID == "" {
		return apperr.Validation("user ids are required")
	}
	if actorID == targetID {
		return apperr.SelfReference("you cannot unfollow yourself")
	}

	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		n, err := r.Follows.Delete(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound("you are not following this user")
		}
		if err := r.Users.RemoveFollowing(ctx, actorID, targetID); err != nil {
			return err
		}
		return r.Users.RemoveFollower(ctx, targetID, actorID)
	})
	if err != nil {
		return err
	}
	invalidateUsers(ctx, s.cache, actorID, targetID)

	return nil
}

// ListFollows returns the follows where userID is either side
func (s *FollowService) ListFollows(ctx context.Context, userID string) ([]*models.Follow, error) {
	follows, err := s.store.Repos().Follows.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}
	return follows, nil
}
