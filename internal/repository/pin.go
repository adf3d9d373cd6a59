package repository

import (
	"context"
	"fmt"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var pinColumns = []string{
	"id", "title", "description", "image_url", "link", "comments", "likes", "user_id", "board_id",
	"created_at", "updated_at",
}

// PostgresPinRepository handles database operations for pins
type PostgresPinRepository struct {
	db DBTX
}

// NewPostgresPinRepository creates a new pin repository
func NewPostgresPinRepository(db DBTX) *PostgresPinRepository {
	return &PostgresPinRepository{db: db}
}

func pinDest(pin *models.Pin) []any {
	return []any{
		&pin.ID, &pin.Title, &pin.Description, &pin.ImageURL, &pin.Link, &pin.Comments, &pin.Likes,
		&pin.UserID, &pin.BoardID, &pin.CreatedAt, &pin.UpdatedAt,
	}
}

func normalizePin(pin *models.Pin) *models.Pin {
	pin.Comments = nonNil(pin.Comments)
	pin.Likes = nonNil(pin.Likes)
	return pin
}

func (r *PostgresPinRepository) collect(rows pgx.Rows) ([]*models.Pin, error) {
	defer rows.Close()

	pins := []*models.Pin{}
	for rows.Next() {
		var pin models.Pin
		if err := rows.Scan(pinDest(&pin)...); err != nil {
			return nil, fmt.Errorf("failed to scan pin: %w", err)
		}
		pins = append(pins, normalizePin(&pin))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pins: %w", err)
	}
	return pins, nil
}

// Create creates a new pin
func (r *PostgresPinRepository) Create(ctx context.Context, pin *models.Pin) error {
	query := `
		INSERT INTO pins (id, title, description, image_url, link, comments, likes, user_id, board_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		pin.ID, pin.Title, pin.Description, pin.ImageURL, pin.Link, nonNil(pin.Comments), nonNil(pin.Likes),
		pin.UserID, pin.BoardID, pin.CreatedAt, pin.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "pin", "create pin")
	}
	return nil
}

// GetByID retrieves a pin by ID
func (r *PostgresPinRepository) GetByID(ctx context.Context, id string) (*models.Pin, error) {
	query, args, err := psql.Select(pinColumns...).From("pins").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build pin query: %w", err)
	}
	var pin models.Pin
	if err := r.db.QueryRow(ctx, query, args...).Scan(pinDest(&pin)...); err != nil {
		return nil, mapError(err, "pin", "get pin")
	}
	return normalizePin(&pin), nil
}

// Lock reads a pin and row-locks it until the surrounding transaction ends
func (r *PostgresPinRepository) Lock(ctx context.Context, id string, mode LockMode) (*models.Pin, error) {
	suffix := "FOR SHARE"
	if mode == LockUpdate {
		suffix = "FOR UPDATE"
	}
	query, args, err := psql.Select(pinColumns...).From("pins").Where(sq.Eq{"id": id}).Suffix(suffix).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build pin lock query: %w", err)
	}
	var pin models.Pin
	if err := r.db.QueryRow(ctx, query, args...).Scan(pinDest(&pin)...); err != nil {
		return nil, mapError(err, "pin", "lock pin")
	}
	return normalizePin(&pin), nil
}

// List returns one page of pins, newest first, together with the total number of matching pins.
// The total comes from a window count on the same query. An empty page falls back to a plain count.
func (r *PostgresPinRepository) List(ctx context.Context, filter PinFilter) ([]*models.Pin, int, error) {
	where := sq.And{}
	if filter.UserID != "" {
		where = append(where, sq.Eq{"user_id": filter.UserID})
	}

	columns := append(append([]string{}, pinColumns...), "COUNT(*) OVER() AS total")
	builder := psql.Select(columns...).
		From("pins").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))
	if len(where) > 0 {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build pin list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pins: %w", err)
	}
	defer rows.Close()

	pins := []*models.Pin{}
	total := 0
	for rows.Next() {
		var pin models.Pin
		if err := rows.Scan(append(pinDest(&pin), &total)...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan pin: %w", err)
		}
		pins = append(pins, normalizePin(&pin))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating pins: %w", err)
	}

	if len(pins) == 0 {
		countBuilder := psql.Select("COUNT(*)").From("pins")
		if len(where) > 0 {
			countBuilder = countBuilder.Where(where)
		}
		countQuery, countArgs, err := countBuilder.ToSql()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to build pin count query: %w", err)
		}
		if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("failed to count pins: %w", err)
		}
	}

	return pins, total, nil
}

// ListByIDs returns the pins with the given ids, newest first. Unknown ids are skipped.
func (r *PostgresPinRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.Pin, error) {
	if len(ids) == 0 {
		return []*models.Pin{}, nil
	}
	query, args, err := psql.Select(pinColumns...).
		From("pins").
		Where(sq.Eq{"id": ids}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build pin query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pins by ids: %w", err)
	}
	return r.collect(rows)
}

// ListByOwner returns every pin owned by a user, newest first
func (r *PostgresPinRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Pin, error) {
	query, args, err := psql.Select(pinColumns...).
		From("pins").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build pin query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pins by owner: %w", err)
	}
	return r.collect(rows)
}

// Update writes the editable pin fields
func (r *PostgresPinRepository) Update(ctx context.Context, pin *models.Pin) error {
	query := `
		UPDATE pins
		SET title = $2, description = $3, image_url = $4, link = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := r.db.Exec(ctx, query, pin.ID, pin.Title, pin.Description, pin.ImageURL, pin.Link, pin.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update pin: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("pin not found")
	}
	return nil
}

// Delete removes a pin and reports how many rows were deleted
func (r *PostgresPinRepository) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM pins WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete pin: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresPinRepository) AddComment(ctx context.Context, pinID, commentID string) error {
	return appendToArray(ctx, r.db, "pins", "comments", pinID, commentID, "pin")
}

func (r *PostgresPinRepository) RemoveComment(ctx context.Context, pinID, commentID string) error {
	return removeFromArray(ctx, r.db, "pins", "comments", pinID, commentID)
}

func (r *PostgresPinRepository) AddLike(ctx context.Context, pinID, userID string) error {
	return appendToArray(ctx, r.db, "pins", "likes", pinID, userID, "pin")
}

func (r *PostgresPinRepository) RemoveLike(ctx context.Context, pinID, userID string) error {
	return removeFromArray(ctx, r.db, "pins", "likes", pinID, userID)
}

// SetBoard assigns the pin to a board, or clears the assignment when boardID is nil
func (r *PostgresPinRepository) SetBoard(ctx context.Context, pinID string, boardID *string) error {
	result, err := r.db.Exec(ctx, `UPDATE pins SET board_id = $2, updated_at = now() WHERE id = $1`, pinID, boardID)
	if err != nil {
		return fmt.Errorf("failed to set pin board: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("pin not found")
	}
	return nil
}

// ClearBoard detaches every pin from a board
func (r *PostgresPinRepository) ClearBoard(ctx context.Context, boardID string) (int64, error) {
	result, err := r.db.Exec(ctx, `UPDATE pins SET board_id = NULL, updated_at = now() WHERE board_id = $1`, boardID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear board from pins: %w", err)
	}
	return result.RowsAffected(), nil
}
