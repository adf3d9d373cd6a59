package services

import (
	"context"
	"errors"
	"fmt"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"
	"pinboard-backend/internal/repository"
)

// SaveService handles each user's saved pins
type SaveService struct {
	store Store
}

// NewSaveService creates a new save service
func NewSaveService(store Store) *SaveService {
	return &SaveService{store: store}
}

// Save adds pinID to the user's save record. Saving an already saved pin changes nothing.
func (s *SaveService) Save(ctx context.Context, userID, pinID string) (*models.Save, error) {
	if userID == "" || pinID == "" {
		return nil, apperr.Validation("user id and pin id are required")
	}

	var save *models.Save
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if _, err := r.Pins.Lock(ctx, pinID, repository.LockShare); err != nil {
			return err
		}
		createdAt := now()
		result, err := r.Saves.AddPin(ctx, &models.Save{ID: newID(), UserID: userID, CreatedAt: createdAt}, pinID)
		if err != nil {
			return err
		}
		save = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	return save, nil
}

// Unsave removes pinID from the user's save record. Removing a pin that is not saved is not an error.
func (s *SaveService) Unsave(ctx context.Context, userID, pinID string) (*models.Save, error) {
	if userID == "" || pinID == "" {
		return nil, apperr.Validation("user id and pin id are required")
	}

	save, err := s.store.Repos().Saves.RemovePin(ctx, userID, pinID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return &models.Save{UserID: userID, Pins: []string{}}, nil
		}
		return nil, err
	}

	return save, nil
}

// GetSaved returns the user's save record with the saved pins resolved
func (s *SaveService) GetSaved(ctx context.Context, userID string) (*models.SavedPins, error) {
	repos := s.store.Repos()
	save, err := repos.Saves.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return &models.SavedPins{Save: &models.Save{UserID: userID, Pins: []string{}}, Pins: []*models.Pin{}}, nil
		}
		return nil, err
	}

	pins, err := repos.Pins.ListByIDs(ctx, save.Pins)
	if err != nil {
		return nil, fmt.Errorf("failed to get saved pins: %w", err)
	}
	return &models.SavedPins{Save: save, Pins: pins}, nil
}
