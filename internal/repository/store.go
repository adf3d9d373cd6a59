package repository

import (
	"context"
	"fmt"

	"pinboard-backend/internal/migrations"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Pool is the part of *pgxpool.Pool the store needs
type Pool interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// Store hands out postgres repositories bound to the pool or to a transaction
type Store struct {
	pool Pool
}

// NewStore creates a new postgres store
func NewStore(pool Pool) *Store {
	return &Store{pool: pool}
}

// Repos returns repositories that run each statement on the pool
func (s *Store) Repos() Repositories {
	return newRepositories(s.pool)
}

// WithTx runs fn inside one transaction. The transaction is rolled back if fn returns an error.
func (s *Store) WithTx(ctx context.Context, fn func(Repositories) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(newRepositories(tx))
	})
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func newRepositories(db DBTX) Repositories {
	return Repositories{
		Users:    NewPostgresUserRepository(db),
		Pins:     NewPostgresPinRepository(db),
		Boards:   NewPostgresBoardRepository(db),
		Comments: NewPostgresCommentRepository(db),
		Likes:    NewPostgresLikeRepository(db),
		Follows:  NewPostgresFollowRepository(db),
		Saves:    NewPostgresSaveRepository(db),
		Messages: NewPostgresMessageRepository(db),
	}
}

// RunMigrations applies the embedded migrations through a database/sql handle on the pool
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
