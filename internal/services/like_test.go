package services

import (
	"context"
	"testing"

	"pinboard-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	fan := env.register(t, "fan")
	pin := env.createPin(t, owner.ID, "sunset")

	like, err := env.likes.Like(ctx, fan.ID, pin.ID)
	require.NoError(t, err)
	assert.Equal(t, fan.ID, like.UserID)
	assert.Equal(t, []string{fan.ID}, env.pin(t, pin.ID).Likes)

	_, err = env.likes.Like(ctx, fan.ID, pin.ID)
	assertKind(t, err, apperr.ErrDuplicate)
	assert.Equal(t, []string{fan.ID}, env.pin(t, pin.ID).Likes)

	likes, err := env.likes.ListLikes(ctx, pin.ID)
	require.NoError(t, err)
	assert.Len(t, likes, 1)

	removed, err := env.likes.Unlike(ctx, fan.ID, pin.ID)
	require.NoError(t, err)
	assert.Equal(t, like.ID, removed.ID)
	assert.Empty(t, env.pin(t, pin.ID).Likes)
}

func TestLike_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	pin := env.createPin(t, owner.ID, "sunset")

	_, err := env.likes.Unlike(ctx, owner.ID, pin.ID)
	assertKind(t, err, apperr.ErrNotFound)

	_, err = env.likes.Like(ctx, owner.ID, "missing")
	assertKind(t, err, apperr.ErrNotFound)

	_, err = env.likes.Like(ctx, "", pin.ID)
	assertKind(t, err, apperr.ErrValidation)
}
