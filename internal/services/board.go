package services

import (
	"context"
	"fmt"
	"strings"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"
	"pinboard-backend/internal/repository"
)

// BoardService handles boards and their pins
type BoardService struct {
	store Store
}

// NewBoardService creates a new board service
func NewBoardService(store Store) *BoardService {
	return &BoardService{store: store}
}

// BoardRequest represents a request to create or update a board
type BoardRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// BoardPinRequest represents a request to add a pin to a board
type BoardPinRequest struct {
	PinID string `json:"pin_id" validate:"required"`
}

// Create creates a board owned by the actor
func (s *BoardService) Create(ctx context.Context, actorID string, req BoardRequest) (*models.Board, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	createdAt := now()
	board := &models.Board{
		ID:          newID(),
		Name:        name,
		Description: req.Description,
		UserID:      actorID,
		Pins:        []string{},
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := s.store.Repos().Boards.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	return board, nil
}

// Get returns a board by ID
func (s *BoardService) Get(ctx context.Context, boardID string) (*models.Board, error) {
	return s.store.Repos().Boards.GetByID(ctx, boardID)
}

// List returns boards, optionally only those owned by userID
func (s *BoardService) List(ctx context.Context, userID string) ([]*models.Board, error) {
	boards, err := s.store.Repos().Boards.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

func ownedBoard(ctx context.Context, r repository.Repositories, actorID, boardID string) (*models.Board, error) {
	board, err := r.Boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.UserID != actorID {
		return nil, apperr.Forbidden("you can only change your own boards")
	}
	return board, nil
}

// Update renames or re-describes a board owned by the actor
func (s *BoardService) Update(ctx context.Context, actorID, boardID string, req BoardRequest) (*models.Board, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	repos := s.store.Repos()
	board, err := ownedBoard(ctx, repos, actorID, boardID)
	if err != nil {
		return nil, err
	}
	board.Name = name
	board.Description = req.Description
	board.UpdatedAt = now()
	if err := repos.Boards.Update(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// Delete removes a board owned by the actor. Its pins remain and lose their board.
func (s *BoardService) Delete(ctx context.Context, actorID, boardID string) error {
	return s.store.WithTx(ctx, func(r repository.Repositories) error {
		if _, err := ownedBoard(ctx, r, actorID, boardID); err != nil {
			return err
		}
		if _, err := r.Pins.ClearBoard(ctx, boardID); err != nil {
			return err
		}
		_, err := r.Boards.Delete(ctx, boardID)
		return err
	})
}

// AddPin moves one of the actor's pins onto one of the actor's boards
func (s *BoardService) AddPin(ctx context.Context, actorID, boardID, pinID string) (*models.Board, error) {
	if pinID == "" {
		return nil, apperr.Validation("pin_id is required")
	}

	var board *models.Board
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if _, err := ownedBoard(ctx, r, actorID, boardID); err != nil {
			return err
		}
		pin, err := r.Pins.GetByID(ctx, pinID)
		if err != nil {
			return err
		}
		if pin.UserID != actorID {
			return apperr.Forbidden("you can only add your own pins to a board")
		}
		if pin.BoardID != nil && *pin.BoardID != boardID {
			if err := r.Boards.RemovePin(ctx, *pin.BoardID, pinID); err != nil {
				return err
			}
		}
		if err := r.Boards.AddPin(ctx, boardID, pinID); err != nil {
			return err
		}
		if err := r.Pins.SetBoard(ctx, pinID, &boardID); err != nil {
			return err
		}
		board, err = r.Boards.GetByID(ctx, boardID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// RemovePin takes a pin off one of the actor's boards
func (s *BoardService) RemovePin(ctx context.Context, actorID, boardID, pinID string) (*models.Board, error) {
	var board *models.Board
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if _, err := ownedBoard(ctx, r, actorID, boardID); err != nil {
			return err
		}
		if err := r.Boards.RemovePin(ctx, boardID, pinID); err != nil {
			return err
		}
		pin, err := r.Pins.GetByID(ctx, pinID)
		if err != nil && !isNotFound(err) {
			return err
		}
		if pin != nil && pin.BoardID != nil && *pin.BoardID == boardID {
			if err := r.Pins.SetBoard(ctx, pinID, nil); err != nil {
				return err
			}
		}
		board, err = r.Boards.GetByID(ctx, boardID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}
