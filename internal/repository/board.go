package repository

import (
	"context"
	"fmt"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"

	sq "github.com/Masterminds/squirrel"
)

var boardColumns = []string{"id", "name", "description", "user_id", "pins", "created_at", "updated_at"}

// PostgresBoardRepository handles database operations for boards
type PostgresBoardRepository struct {
	db DBTX
}

// NewPostgresBoardRepository creates a new board repository
func NewPostgresBoardRepository(db DBTX) *PostgresBoardRepository {
	return &PostgresBoardRepository{db: db}
}

func boardDest(board *models.Board) []any {
	return []any{&board.ID, &board.Name, &board.Description, &board.UserID, &board.Pins, &board.CreatedAt, &board.UpdatedAt}
}

// Create creates a new board
func (r *PostgresBoardRepository) Create(ctx context.Context, board *models.Board) error {
	query := `
		INSERT INTO boards (id, name, description, user_id, pins, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		board.ID, board.Name, board.Description, board.UserID, nonNil(board.Pins), board.CreatedAt, board.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "board", "create board")
	}
	return nil
}

// GetByID retrieves a board by ID
func (r *PostgresBoardRepository) GetByID(ctx context.Context, id string) (*models.Board, error) {
	query, args, err := psql.Select(boardColumns...).From("boards").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build board query: %w", err)
	}
	var board models.Board
	if err := r.db.QueryRow(ctx, query, args...).Scan(boardDest(&board)...); err != nil {
		return nil, mapError(err, "board", "get board")
	}
	board.Pins = nonNil(board.Pins)
	return &board, nil
}

// List returns boards newest first, optionally only those owned by userID
func (r *PostgresBoardRepository) List(ctx context.Context, userID string) ([]*models.Board, error) {
	builder := psql.Select(boardColumns...).From("boards").OrderBy("created_at DESC", "id DESC")
	if userID != "" {
		builder = builder.Where(sq.Eq{"user_id": userID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build board list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	boards := []*models.Board{}
	for rows.Next() {
		var board models.Board
		if err := rows.Scan(boardDest(&board)...); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		board.Pins = nonNil(board.Pins)
		boards = append(boards, &board)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating boards: %w", err)
	}
	return boards, nil
}

// Update writes the board name and description
func (r *PostgresBoardRepository) Update(ctx context.Context, board *models.Board) error {
	query := `UPDATE boards SET name = $2, description = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, board.ID, board.Name, board.Description, board.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update board: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("board not found")
	}
	return nil
}

// Delete removes a board and reports how many rows were deleted
func (r *PostgresBoardRepository) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete board: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresBoardRepository) AddPin(ctx context.Context, boardID, pinID string) error {
	return appendToArray(ctx, r.db, "boards", "pins", boardID, pinID, "board")
}

func (r *PostgresBoardRepository) RemovePin(ctx context.Context, boardID, pinID string) error {
	return removeFromArray(ctx, r.db, "boards", "pins", boardID, pinID)
}

// RemovePinEverywhere pulls a pin from every board holding it
func (r *PostgresBoardRepository) RemovePinEverywhere(ctx context.Context, pinID string) (int64, error) {
	return removeFromArrayEverywhere(ctx, r.db, "boards", "pins", pinID)
}
