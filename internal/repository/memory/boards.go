package memory

import (
	"context"
	"sort"
	"time"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"
)

type boardRepo struct {
	s scope
}

func (r *boardRepo) Create(ctx context.Context, board *models.Board) error {
	var err error
	r.s.view(func(st *state) {
		if _, ok := st.boards[board.ID]; ok {
			err = apperr.Duplicate("board already exists")
			return
		}
		st.boards[board.ID] = cloneBoard(board)
	})
	return err
}

func (r *boardRepo) GetByID(ctx context.Context, id string) (*models.Board, error) {
	var (
		board *models.Board
		err   error
	)
	r.s.view(func(st *state) {
		b, ok := st.boards[id]
		if !ok {
			err = apperr.NotFound("board not found")
			return
		}
		board = cloneBoard(b)
	})
	return board, err
}

func (r *boardRepo) List(ctx context.Context, userID string) ([]*models.Board, error) {
	boards := []*models.Board{}
	r.s.view(func(st *state) {
		for _, b := range st.boards {
			if userID == "" || b.UserID == userID {
				boards = append(boards, cloneBoard(b))
			}
		}
	})
	sort.Slice(boards, func(i, j int) bool {
		return newerFirst(boards[i].CreatedAt, boards[i].ID, boards[j].CreatedAt, boards[j].ID)
	})
	return boards, nil
}

func (r *boardRepo) Update(ctx context.Context, board *models.Board) error {
	var err error
	r.s.view(func(st *state) {
		b, ok := st.boards[board.ID]
		if !ok {
			err = apperr.NotFound("board not found")
			return
		}
		b.Name = board.Name
		b.Description = board.Description
		b.UpdatedAt = board.UpdatedAt
	})
	return err
}

func (r *boardRepo) Delete(ctx context.Context, id string) (int64, error) {
	var n int64
	r.s.view(func(st *state) {
		if _, ok := st.boards[id]; ok {
			delete(st.boards, id)
			n = 1
		}
	})
	return n, nil
}

func (r *boardRepo) AddPin(ctx context.Context, boardID, pinID string) error {
	var err error
	r.s.view(func(st *state) {
		b, ok := st.boards[boardID]
		if !ok {
			err = apperr.NotFound("board not found")
			return
		}
		b.Pins = appendUnique(b.Pins, pinID)
		b.UpdatedAt = time.Now().UTC()
	})
	return err
}

func (r *boardRepo) RemovePin(ctx context.Context, boardID, pinID string) error {
	r.s.view(func(st *state) {
		if b, ok := st.boards[boardID]; ok {
			b.Pins = removeValue(b.Pins, pinID)
			b.UpdatedAt = time.Now().UTC()
		}
	})
	return nil
}

func (r *boardRepo) RemovePinEverywhere(ctx context.Context, pinID string) (int64, error) {
	var n int64
	r.s.view(func(st *state) {
		for _, b := range st.boards {
			if contains(b.Pins, pinID) {
				b.Pins = removeValue(b.Pins, pinID)
				b.UpdatedAt = time.Now().UTC()
				n++
			}
		}
	})
	return n, nil
}
