package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/cache"
	"pinboard-backend/internal/models"
	"pinboard-backend/internal/repository"
)

// PageSizes configures pin listing
type PageSizes struct {
	Default int
	PerUser int
	Max     int
}

// PinService handles pin-related business logic
type PinService struct {
	store Store
	cache cache.UserCache
	sizes PageSizes
}

// NewPinService creates a new pin service
func NewPinService(store Store, userCache cache.UserCache, sizes PageSizes) *PinService {
	return &PinService{store: store, cache: userCache, sizes: sizes}
}

// CreatePinRequest represents a request to create a pin
type CreatePinRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ImageURL    string `json:"image_url" validate:"required,url"`
	Link        string `json:"link" validate:"omitempty,url"`
	BoardID     string `json:"board_id"`
}

// UpdatePinRequest represents a pin update. Nil fields are left unchanged.
type UpdatePinRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Link        *string `json:"link" validate:"omitempty,url"`
}

// Create creates a pin owned by the actor and records it in the actor's posts
func (s *PinService) Create(ctx context.Context, actorID string, req CreatePinRequest) (*models.Pin, error) {
	title := strings.TrimSpace(req.Title)
	imageURL := strings.TrimSpace(req.ImageURL)
	if title == "" || imageURL == "" {
		return nil, apperr.Validation("title and image_url are required")
	}

	createdAt := now()
	pin := &models.Pin{
		ID:          newID(),
		Title:       title,
		Description: req.Description,
		ImageURL:    imageURL,
		Link:        req.Link,
		Comments:    []string{},
		Likes:       []string{},
		UserID:      actorID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if req.BoardID != "" {
		boardID := req.BoardID
		pin.BoardID = &boardID
	}

	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if pin.BoardID != nil {
			board, err := r.Boards.GetByID(ctx, *pin.BoardID)
			if err != nil {
				return err
			}
			if board.UserID != actorID {
				return apperr.Forbidden("you can only add pins to your own boards")
			}
		}
		if err := r.Pins.Create(ctx, pin); err != nil {
			return err
		}
		if err := r.Users.AddPost(ctx, actorID, pin.ID); err != nil {
			return err
		}
		if pin.BoardID != nil {
			return r.Boards.AddPin(ctx, *pin.BoardID, pin.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidateUsers(ctx, s.cache, actorID)

	return pin, nil
}

// Get returns a pin by ID
func (s *PinService) Get(ctx context.Context, pinID string) (*models.Pin, error) {
	if pinID == "" {
		return nil, apperr.Validation("pin id is required")
	}
	return s.store.Repos().Pins.GetByID(ctx, pinID)
}

// List returns one page of pins, newest first. page and pageSize are raw query values;
// empty means the default. A non-empty userID narrows the listing to one owner and uses the per-user default size.
func (s *PinService) List(ctx context.Context, userID, page, pageSize string) (*models.PinPage, error) {
	defaultSize := s.sizes.Default
	if userID != "" {
		defaultSize = s.sizes.PerUser
	}

	pageNum, err := parsePositive("page", page, 1)
	if err != nil {
		return nil, err
	}
	size, err := parsePositive("pageSize", pageSize, defaultSize)
	if err != nil {
		return nil, err
	}
	if size > s.sizes.Max {
		size = s.sizes.Max
	}

	pins, total, err := s.store.Repos().Pins.List(ctx, repository.PinFilter{
		UserID: userID,
		Limit:  size,
		Offset: (pageNum - 1) * size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pins: %w", err)
	}

	return &models.PinPage{
		Items:       pins,
		Total:       total,
		TotalPages:  (total + size - 1) / size,
		CurrentPage: pageNum,
	}, nil
}

func parsePositive(name, raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("%s must be an integer", name)
	}
	if n < 1 {
		return 0, apperr.Validation("%s must be at least 1", name)
	}
	return n, nil
}

// Update changes a pin owned by the actor
func (s *PinService) Update(ctx context.Context, actorID, pinID string, req UpdatePinRequest) (*models.Pin, error) {
	repos := s.store.Repos()
	pin, err := repos.Pins.GetByID(ctx, pinID)
	if err != nil {
		return nil, err
	}
	if pin.UserID != actorID {
		return nil, apperr.Forbidden("you can only update your own pins")
	}

	if req.Title != nil {
		pin.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		pin.Description = *req.Description
	}
	if req.ImageURL != nil {
		pin.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.Link != nil {
		pin.Link = *req.Link
	}
	if pin.Title == "" || pin.ImageURL == "" {
		return nil, apperr.Validation("title and image_url cannot be empty")
	}

	pin.UpdatedAt = now()
	if err := repos.Pins.Update(ctx, pin); err != nil {
		return nil, err
	}
	return pin, nil
}

// Delete removes a pin owned by the actor together with its comments, likes and references
func (s *PinService) Delete(ctx context.Context, actorID, pinID string) error {
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		pin, err := r.Pins.GetByID(ctx, pinID)
		if err != nil {
			return err
		}
		if pin.UserID != actorID {
			return apperr.Forbidden("you can only delete your own pins")
		}
		return removePin(ctx, r, pin)
	})
	if err != nil {
		return err
	}
	invalidateUsers(ctx, s.cache, actorID)
	return nil
}

// removePin deletes a pin and every record pointing at it
func removePin(ctx context.Context, r repository.Repositories, pin *models.Pin) error {
	if _, err := r.Pins.Lock(ctx, pin.ID, repository.LockUpdate); err != nil {
		return err
	}
	if _, err := r.Comments.DeleteByPin(ctx, pin.ID); err != nil {
		return err
	}
	if _, err := r.Likes.DeleteByPin(ctx, pin.ID); err != nil {
		return err
	}
	if _, err := r.Saves.RemovePinEverywhere(ctx, pin.ID); err != nil {
		return err
	}
	if _, err := r.Boards.RemovePinEverywhere(ctx, pin.ID); err != nil {
		return err
	}
	if err := r.Users.RemovePost(ctx, pin.UserID, pin.ID); err != nil {
		return err
	}
	if _, err := r.Pins.Delete(ctx, pin.ID); err != nil {
		return err
	}
	return nil
}
