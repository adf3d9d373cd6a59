package repository

import (
	"context"
	"fmt"

	"pinboard-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// PostgresLikeRepository handles database operations for likes
type PostgresLikeRepository struct {
	db DBTX
}

// NewPostgresLikeRepository creates a new like repository
func NewPostgresLikeRepository(db DBTX) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

func (r *PostgresLikeRepository) list(ctx context.Context, query string, arg string) ([]*models.Like, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}
	likes, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[models.Like])
	if err != nil {
		return nil, fmt.Errorf("failed to scan likes: %w", err)
	}
	return likes, nil
}

// Create creates a new like. A second like for the same user and pin is a Duplicate.
func (r *PostgresLikeRepository) Create(ctx context.Context, like *models.Like) error {
	query := `
		INSERT INTO likes (id, user_id, pin_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, like.ID, like.UserID, like.PinID, like.CreatedAt, like.UpdatedAt)
	if err != nil {
		return mapError(err, "like", "create like")
	}
	return nil
}

// Get retrieves the like of a user on a pin
func (r *PostgresLikeRepository) Get(ctx context.Context, userID, pinID string) (*models.Like, error) {
	query := `SELECT id, user_id, pin_id, created_at, updated_at FROM likes WHERE user_id = $1 AND pin_id = $2`
	var like models.Like
	err := r.db.QueryRow(ctx, query, userID, pinID).Scan(
		&like.ID, &like.UserID, &like.PinID, &like.CreatedAt, &like.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "like", "get like")
	}
	return &like, nil
}

// ListByPin returns the likes on a pin, oldest first
func (r *PostgresLikeRepository) ListByPin(ctx context.Context, pinID string) ([]*models.Like, error) {
	return r.list(ctx, `
		SELECT id, user_id, pin_id, created_at, updated_at FROM likes WHERE pin_id = $1 ORDER BY created_at, id
	`, pinID)
}

// ListByUser returns the likes a user gave
func (r *PostgresLikeRepository) ListByUser(ctx context.Context, userID string) ([]*models.Like, error) {
	return r.list(ctx, `
		SELECT id, user_id, pin_id, created_at, updated_at FROM likes WHERE user_id = $1 ORDER BY created_at, id
	`, userID)
}

// Delete removes the like of a user on a pin
func (r *PostgresLikeRepository) Delete(ctx context.Context, userID, pinID string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM likes WHERE user_id = $1 AND pin_id = $2`, userID, pinID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete like: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteByPin removes every like on a pin
func (r *PostgresLikeRepository) DeleteByPin(ctx context.Context, pinID string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM likes WHERE pin_id = $1`, pinID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete likes by pin: %w", err)
	}
	return result.RowsAffected(), nil
}
