package repository

import (
	"context"
	"fmt"

	"pinboard-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// PostgresCommentRepository handles database operations for comments
type PostgresCommentRepository struct {
	db DBTX
}

// NewPostgresCommentRepository creates a new comment repository
func NewPostgresCommentRepository(db DBTX) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(&c.ID, &c.Text, &c.UserID, &c.PinID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create creates a new comment
func (r *PostgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, text, user_id, pin_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		comment.ID, comment.Text, comment.UserID, comment.PinID, comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "comment", "create comment")
	}
	return nil
}

// GetByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT id, text, user_id, pin_id, created_at, updated_at FROM comments WHERE id = $1`
	comment, err := scanComment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "comment", "get comment")
	}
	return comment, nil
}

// ListByPin returns the comments on a pin, oldest first, with the author joined in.
// Comments whose author no longer exists are returned without an author.
func (r *PostgresCommentRepository) ListByPin(ctx context.Context, pinID string) ([]*models.Comment, error) {
	query := `
		SELECT c.id, c.text, c.user_id, c.pin_id, c.created_at, c.updated_at,
		       u.id, u.username, u.profile_picture
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.pin_id = $1
		ORDER BY c.created_at, c.id
	`
	rows, err := r.db.Query(ctx, query, pinID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		var (
			c                           models.Comment
			authorID, username, picture *string
		)
		err := rows.Scan(&c.ID, &c.Text, &c.UserID, &c.PinID, &c.CreatedAt, &c.UpdatedAt, &authorID, &username, &picture)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if authorID != nil {
			c.Author = &models.Author{ID: *authorID, Username: deref(username), ProfilePicture: deref(picture)}
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}

// ListByUser returns every comment authored by a user
func (r *PostgresCommentRepository) ListByUser(ctx context.Context, userID string) ([]*models.Comment, error) {
	query := `
		SELECT id, text, user_id, pin_id, created_at, updated_at
		FROM comments
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments by user: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}

// UpdateText replaces the text of a comment and returns the updated record
func (r *PostgresCommentRepository) UpdateText(ctx context.Context, id, text string) (*models.Comment, error) {
	query := `
		UPDATE comments SET text = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, text, user_id, pin_id, created_at, updated_at
	`
	comment, err := scanComment(r.db.QueryRow(ctx, query, id, text))
	if err != nil {
		return nil, mapError(err, "comment", "update comment")
	}
	return comment, nil
}

// Delete removes a comment and reports how many rows were deleted
func (r *PostgresCommentRepository) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete comment: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteByPin removes every comment on a pin
func (r *PostgresCommentRepository) DeleteByPin(ctx context.Context, pinID string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM comments WHERE pin_id = $1`, pinID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete comments by pin: %w", err)
	}
	return result.RowsAffected(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
