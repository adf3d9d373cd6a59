package repository

import (
	"context"
	"fmt"

	"pinboard-backend/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// PostgresMessageRepository handles database operations for messages
type PostgresMessageRepository struct {
	db DBTX
}

// NewPostgresMessageRepository creates a new message repository
func NewPostgresMessageRepository(db DBTX) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	if err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create creates a new message
func (r *PostgresMessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		message.ID, message.SenderID, message.ReceiverID, message.Text, message.CreatedAt, message.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "message", "create message")
	}
	return nil
}

// GetByID retrieves a message by ID
func (r *PostgresMessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	query := `SELECT id, sender_id, receiver_id, text, created_at, updated_at FROM messages WHERE id = $1`
	message, err := scanMessage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "message", "get message")
	}
	return message, nil
}

// List returns the messages a user sent or received, newest first, with both
// participants joined in. A PeerID narrows the list to one conversation.
func (r *PostgresMessageRepository) List(ctx context.Context, filter MessageFilter) ([]*models.Message, error) {
	participant := sq.Or{sq.Eq{"m.sender_id": filter.UserID}, sq.Eq{"m.receiver_id": filter.UserID}}
	where := sq.And{participant}
	if filter.PeerID != "" {
		where = append(where, sq.Or{sq.Eq{"m.sender_id": filter.PeerID}, sq.Eq{"m.receiver_id": filter.PeerID}})
	}

	query, args, err := psql.Select(
		"m.id", "m.sender_id", "m.receiver_id", "m.text", "m.created_at", "m.updated_at",
		"s.username", "s.profile_picture", "rc.username", "rc.profile_picture",
	).
		From("messages m").
		LeftJoin("users s ON s.id = m.sender_id").
		LeftJoin("users rc ON rc.id = m.receiver_id").
		Where(where).
		OrderBy("m.created_at DESC", "m.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build message list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		var (
			m                                                 models.Message
			senderName, senderPic, receiverName, receiverPic *string
		)
		err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.CreatedAt, &m.UpdatedAt,
			&senderName, &senderPic, &receiverName, &receiverPic)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if senderName != nil {
			m.Sender = &models.Author{ID: m.SenderID, Username: *senderName, ProfilePicture: deref(senderPic)}
		}
		if receiverName != nil {
			m.Receiver = &models.Author{ID: m.ReceiverID, Username: *receiverName, ProfilePicture: deref(receiverPic)}
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}

// UpdateText replaces the text of a message and returns the updated record
func (r *PostgresMessageRepository) UpdateText(ctx context.Context, id, text string) (*models.Message, error) {
	query := `
		UPDATE messages SET text = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, sender_id, receiver_id, text, created_at, updated_at
	`
	message, err := scanMessage(r.db.QueryRow(ctx, query, id, text))
	if err != nil {
		return nil, mapError(err, "message", "update message")
	}
	return message, nil
}

// Delete removes a message and reports how many rows were deleted
func (r *PostgresMessageRepository) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete message: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteByUser removes every message the user sent or received
func (r *PostgresMessageRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM messages WHERE sender_id = $1 OR receiver_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete messages by user: %w", err)
	}
	return result.RowsAffected(), nil
}
