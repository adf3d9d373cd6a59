package repository

import (
	"context"
	"fmt"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password_hash, profile_picture, cover_picture, name, bio, age, website,
		followers, following, posts, created_at, updated_at`

// PostgresUserRepository handles database operations for users
type PostgresUserRepository struct {
	db DBTX
}

// NewPostgresUserRepository creates a new user repository
func NewPostgresUserRepository(db DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.ProfilePicture, &user.CoverPicture,
		&user.Name, &user.Bio, &user.Age, &user.Website,
		&user.Followers, &user.Following, &user.Posts, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Followers = nonNil(user.Followers)
	user.Following = nonNil(user.Following)
	user.Posts = nonNil(user.Posts)
	return &user, nil
}

// Create creates a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, profile_picture, cover_picture, name, bio, age,
			website, followers, following, posts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.ProfilePicture, user.CoverPicture,
		user.Name, user.Bio, user.Age, user.Website,
		nonNil(user.Followers), nonNil(user.Following), nonNil(user.Posts), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "user", "create user")
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "user", "get user")
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, mapError(err, "user", "get user by email")
	}
	return user, nil
}

// List returns every user, newest first
func (r *PostgresUserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// Update writes the profile fields and password hash. The relationship arrays are not touched.
func (r *PostgresUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, profile_picture = $5, cover_picture = $6,
		    name = $7, bio = $8, age = $9, website = $10, updated_at = $11
		WHERE id = $1
	`
	result, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.ProfilePicture, user.CoverPicture,
		user.Name, user.Bio, user.Age, user.Website, user.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "user", "update user")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// Delete removes a user and reports how many rows were deleted
func (r *PostgresUserRepository) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresUserRepository) AddFollowing(ctx context.Context, userID, targetID string) error {
	return appendToArray(ctx, r.db, "users", "following", userID, targetID, "user")
}

func (r *PostgresUserRepository) RemoveFollowing(ctx context.Context, userID, targetID string) error {
	return removeFromArray(ctx, r.db, "users", "following", userID, targetID)
}

func (r *PostgresUserRepository) AddFollower(ctx context.Context, userID, followerID string) error {
	return appendToArray(ctx, r.db, "users", "followers", userID, followerID, "user")
}

func (r *PostgresUserRepository) RemoveFollower(ctx context.Context, userID, followerID string) error {
	return removeFromArray(ctx, r.db, "users", "followers", userID, followerID)
}

func (r *PostgresUserRepository) AddPost(ctx context.Context, userID, pinID string) error {
	return appendToArray(ctx, r.db, "users", "posts", userID, pinID, "user")
}

func (r *PostgresUserRepository) RemovePost(ctx context.Context, userID, pinID string) error {
	return removeFromArray(ctx, r.db, "users", "posts", userID, pinID)
}
