package repository

import (
	"context"

	"pinboard-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PinFilter narrows a pin listing
type PinFilter struct {
	UserID string
	Limit  int
	Offset int
}

// LockMode selects the row lock PinRepository.Lock takes
type LockMode int

const (
	// LockShare keeps the pin from being deleted until the transaction ends
	LockShare LockMode = iota
	// LockUpdate excludes every other lock on the pin until the transaction ends
	LockUpdate
)

// MessageFilter narrows a message listing to one participant and optionally one peer
type MessageFilter struct {
	UserID string
	PeerID string
}

// UserRepository stores users and both sides of their denormalized arrays.
// Add* fail with NotFound when the user row is missing, Remove* do not.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) (int64, error)
	AddFollowing(ctx context.Context, userID, targetID string) error
	RemoveFollowing(ctx context.Context, userID, targetID string) error
	AddFollower(ctx context.Context, userID, followerID string) error
	RemoveFollower(ctx context.Context, userID, followerID string) error
	AddPost(ctx context.Context, userID, pinID string) error
	RemovePost(ctx context.Context, userID, pinID string) error
}

// PinRepository stores pins with their comment and like id arrays.
type PinRepository interface {
	Create(ctx context.Context, pin *models.Pin) error
	GetByID(ctx context.Context, id string) (*models.Pin, error)
	Lock(ctx context.Context, id string, mode LockMode) (*models.Pin, error)
	List(ctx context.Context, filter PinFilter) ([]*models.Pin, int, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.Pin, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Pin, error)
	Update(ctx context.Context, pin *models.Pin) error
	Delete(ctx context.Context, id string) (int64, error)
	AddComment(ctx context.Context, pinID, commentID string) error
	RemoveComment(ctx context.Context, pinID, commentID string) error
	AddLike(ctx context.Context, pinID, userID string) error
	RemoveLike(ctx context.Context, pinID, userID string) error
	SetBoard(ctx context.Context, pinID string, boardID *string) error
	ClearBoard(ctx context.Context, boardID string) (int64, error)
}

// BoardRepository stores boards and the pin ids they collect.
type BoardRepository interface {
	Create(ctx context.Context, board *models.Board) error
	GetByID(ctx context.Context, id string) (*models.Board, error)
	List(ctx context.Context, userID string) ([]*models.Board, error)
	Update(ctx context.Context, board *models.Board) error
	Delete(ctx context.Context, id string) (int64, error)
	AddPin(ctx context.Context, boardID, pinID string) error
	RemovePin(ctx context.Context, boardID, pinID string) error
	RemovePinEverywhere(ctx context.Context, pinID string) (int64, error)
}

// CommentRepository stores comments by pin and author.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPin(ctx context.Context, pinID string) ([]*models.Comment, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Comment, error)
	UpdateText(ctx context.Context, id, text string) (*models.Comment, error)
	Delete(ctx context.Context, id string) (int64, error)
	DeleteByPin(ctx context.Context, pinID string) (int64, error)
}

// LikeRepository stores like records, at most one per user and pin.
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	Get(ctx context.Context, userID, pinID string) (*models.Like, error)
	ListByPin(ctx context.Context, pinID string) ([]*models.Like, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Like, error)
	Delete(ctx context.Context, userID, pinID string) (int64, error)
	DeleteByPin(ctx context.Context, pinID string) (int64, error)
}

// FollowRepository stores follow edges, at most one per ordered pair.
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	Get(ctx context.Context, followerID, followingID string) (*models.Follow, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Follow, error)
	Delete(ctx context.Context, followerID, followingID string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// SaveRepository keeps one save record per user.
type SaveRepository interface {
	GetByUser(ctx context.Context, userID string) (*models.Save, error)
	AddPin(ctx context.Context, save *models.Save, pinID string) (*models.Save, error)
	RemovePin(ctx context.Context, userID, pinID string) (*models.Save, error)
	RemovePinEverywhere(ctx context.Context, pinID string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// MessageRepository stores direct messages between two users.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	List(ctx context.Context, filter MessageFilter) ([]*models.Message, error)
	UpdateText(ctx context.Context, id, text string) (*models.Message, error)
	Delete(ctx context.Context, id string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// Repositories groups every repository bound to the same connection or transaction
type Repositories struct {
	Users    UserRepository
	Pins     PinRepository
	Boards   BoardRepository
	Comments CommentRepository
	Likes    LikeRepository
	Follows  FollowRepository
	Saves    SaveRepository
	Messages MessageRepository
}
