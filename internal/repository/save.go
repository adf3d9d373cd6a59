package repository

import (
	"context"
	"fmt"

	"pinboard-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const saveColumns = `id, user_id, pins, created_at, updated_at`

// PostgresSaveRepository handles database operations for save records
type PostgresSaveRepository struct {
	db DBTX
}

// NewPostgresSaveRepository creates a new save repository
func NewPostgresSaveRepository(db DBTX) *PostgresSaveRepository {
	return &PostgresSaveRepository{db: db}
}

func scanSave(row pgx.Row) (*models.Save, error) {
	var save models.Save
	if err := row.Scan(&save.ID, &save.UserID, &save.Pins, &save.CreatedAt, &save.UpdatedAt); err != nil {
		return nil, err
	}
	save.Pins = nonNil(save.Pins)
	return &save, nil
}

// GetByUser retrieves the save record of a user
func (r *PostgresSaveRepository) GetByUser(ctx context.Context, userID string) (*models.Save, error) {
	query := `SELECT ` + saveColumns + ` FROM saves WHERE user_id = $1`
	save, err := scanSave(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, mapError(err, "save", "get save")
	}
	return save, nil
}

// AddPin adds a pin to the user's save record, creating the record from save on first use.
// Adding a pin that is already saved leaves the record unchanged.
func (r *PostgresSaveRepository) AddPin(ctx context.Context, save *models.Save, pinID string) (*models.Save, error) {
	query := `
		INSERT INTO saves (id, user_id, pins, created_at, updated_at)
		VALUES ($1, $2, ARRAY[$3::text], $4, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET pins = CASE WHEN $3::text = ANY(saves.pins) THEN saves.pins ELSE array_append(saves.pins, $3::text) END,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + saveColumns
	result, err := scanSave(r.db.QueryRow(ctx, query, save.ID, save.UserID, pinID, save.CreatedAt))
	if err != nil {
		return nil, mapError(err, "save", "save pin")
	}
	return result, nil
}

// RemovePin pulls a pin from the user's save record. NotFound means the user has no record.
func (r *PostgresSaveRepository) RemovePin(ctx context.Context, userID, pinID string) (*models.Save, error) {
	query := `
		UPDATE saves SET pins = array_remove(pins, $2), updated_at = now()
		WHERE user_id = $1
		RETURNING ` + saveColumns
	save, err := scanSave(r.db.QueryRow(ctx, query, userID, pinID))
	if err != nil {
		return nil, mapError(err, "save", "unsave pin")
	}
	return save, nil
}

// RemovePinEverywhere pulls a pin from every save record holding it
func (r *PostgresSaveRepository) RemovePinEverywhere(ctx context.Context, pinID string) (int64, error) {
	return removeFromArrayEverywhere(ctx, r.db, "saves", "pins", pinID)
}

// DeleteByUser removes the save record of a user
func (r *PostgresSaveRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM saves WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete save: %w", err)
	}
	return result.RowsAffected(), nil
}
