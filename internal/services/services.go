package services

import (
	"context"
	"errors"
	"time"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/cache"
	"pinboard-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store is implemented by the postgres and memory stores
type Store interface {
	Repos() repository.Repositories
	WithTx(ctx context.Context, fn func(repository.Repositories) error) error
}

func newID() string {
	return uuid.New().String()
}

func now() time.Time {
	return time.Now().UTC()
}

// invalidateUsers drops cached user records. Failures are logged and otherwise ignored.
func invalidateUsers(ctx context.Context, c cache.UserCache, ids ...string) {
	if err := c.Invalidate(ctx, ids...); err != nil {
		log.Warn().Err(err).Strs("user_ids", ids).Msg("Failed to invalidate cached users")
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}
