package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreate_DuplicateEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	now := time.Now()
	err := repo.Create(context.Background(), &models.User{
		ID: "u1", Username: "alice", Email: "alice@example.com", PasswordHash: "hash",
		CreatedAt: now, UpdatedAt: now,
	})
	assert.True(t, errors.Is(err, apperr.ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)

	now := time.Now()
	age := 30
	rows := pgxmock.NewRows([]string{
		"id", "username", "email", "password_hash", "profile_picture", "cover_picture", "name", "bio", "age",
		"website", "followers", "following", "posts", "created_at", "updated_at",
	}).AddRow("u1", "alice", "alice@example.com", "hash", "", "", "Alice", "", &age, "",
		[]string{"u2"}, []string(nil), []string{"p1"}, now, now)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs("u1").WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, 30, *user.Age)
	assert.Equal(t, []string{"u2"}, user.Followers)
	assert.NotNil(t, user.Following)
	assert.Equal(t, []string{"p1"}, user.Posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserAddFollowing(t *testing.T) {
	t.Run("appends once", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewPostgresUserRepository(mock)

		mock.ExpectExec(`UPDATE users\s+SET following = CASE WHEN \$2 = ANY\(following\) THEN following ELSE array_append\(following, \$2\) END`).
			WithArgs("u1", "u2").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.AddFollowing(context.Background(), "u1", "u2"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewPostgresUserRepository(mock)

		mock.ExpectExec(`UPDATE users`).
			WithArgs("ghost", "u2").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.AddFollowing(context.Background(), "ghost", "u2")
		assert.True(t, errors.Is(err, apperr.ErrNotFound))
	})
}

func TestUserUpdate_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresUserRepository(mock)

	mock.ExpectExec(`UPDATE users\s+SET username = \$2`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &models.User{ID: "ghost", UpdatedAt: time.Now()})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestFollowCreate_ConstraintErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
		kind error
	}{
		{"duplicate pair", "23505", apperr.ErrDuplicate},
		{"self follow", "23514", apperr.ErrSelfReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			repo := NewPostgresFollowRepository(mock)

			mock.ExpectExec(`INSERT INTO follows`).WillReturnError(&pgconn.PgError{Code: tt.code})

			now := time.Now()
			err := repo.Create(context.Background(), &models.Follow{
				ID: "f1", FollowerID: "u1", FollowingID: "u2", CreatedAt: now, UpdatedAt: now,
			})
			assert.True(t, errors.Is(err, tt.kind))
		})
	}
}

func TestSaveRemovePin_NoRecord(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPostgresSaveRepository(mock)

	mock.ExpectQuery(`UPDATE saves SET pins = array_remove\(pins, \$2\)`).
		WithArgs("u1", "p1").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.RemovePin(context.Background(), "u1", "p1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
