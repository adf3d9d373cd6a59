package repository

import (
	"context"
	"fmt"

	"pinboard-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// PostgresFollowRepository handles database operations for follows
type PostgresFollowRepository struct {
	db DBTX
}

// NewPostgresFollowRepository creates a new follow repository
func NewPostgresFollowRepository(db DBTX) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// Create creates a new follow. The unique pair constraint maps to Duplicate and the
// follower <> following check maps to SelfReference.
func (r *PostgresFollowRepository) Create(ctx context.Context, follow *models.Follow) error {
	query := `
		INSERT INTO follows (id, follower_id, following_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		follow.ID, follow.FollowerID, follow.FollowingID, follow.CreatedAt, follow.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "follow", "create follow")
	}
	return nil
}

// Get retrieves the follow from followerID to followingID
func (r *PostgresFollowRepository) Get(ctx context.Context, followerID, followingID string) (*models.Follow, error) {
	query := `
		SELECT id, follower_id, following_id, created_at, updated_at
		FROM follows
		WHERE follower_id = $1 AND following_id = $2
	`
	var follow models.Follow
	err := r.db.QueryRow(ctx, query, followerID, followingID).Scan(
		&follow.ID, &follow.FollowerID, &follow.FollowingID, &follow.CreatedAt, &follow.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "follow", "get follow")
	}
	return &follow, nil
}

// ListByUser returns the follows where the user is either side
func (r *PostgresFollowRepository) ListByUser(ctx context.Context, userID string) ([]*models.Follow, error) {
	query := `
		SELECT id, follower_id, following_id, created_at, updated_at
		FROM follows
		WHERE follower_id = $1 OR following_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}
	follows, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[models.Follow])
	if err != nil {
		return nil, fmt.Errorf("failed to scan follows: %w", err)
	}
	return follows, nil
}

// Delete removes the follow from followerID to followingID
func (r *PostgresFollowRepository) Delete(ctx context.Context, followerID, followingID string) (int64, error) {
	result, err := r.db.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, followerID, followingID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete follow: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteByUser removes every follow where the user is either side
func (r *PostgresFollowRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM follows WHERE follower_id = $1 OR following_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete follows by user: %w", err)
	}
	return result.RowsAffected(), nil
}
