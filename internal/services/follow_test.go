package services

import (
	"context"
	"testing"

	"pinboard-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow_Twice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.register(t, "alice")
	b := env.register(t, "bob")

	follow, err := env.follows.Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, follow.FollowerID)
	assert.Equal(t, b.ID, follow.FollowingID)

	_, err = env.follows.Follow(ctx, a.ID, b.ID)
	assertKind(t, err, apperr.ErrDuplicate)

	assert.Equal(t, 1, count(env.user(t, b.ID).Followers, a.ID))
	assert.Equal(t, 1, count(env.user(t, a.ID).Following, b.ID))
}

func TestFollow_UnfollowRestoresState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.register(t, "alice")
	b := env.register(t, "bob")

	beforeA := env.user(t, a.ID).Following
	beforeB := env.user(t, b.ID).Followers

	_, err := env.follows.Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.NoError(t, env.follows.Unfollow(ctx, a.ID, b.ID))

	assert.Equal(t, beforeA, env.user(t, a.ID).Following)
	assert.Equal(t, beforeB, env.user(t, b.ID).Followers)

	follows, err := env.follows.ListFollows(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, follows)
}

func TestFollow_Self(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.register(t, "alice")

	_, err := env.follows.Follow(ctx, a.ID, a.ID)
	assertKind(t, err, apperr.ErrSelfReference)

	_, err = env.follows.Follow(ctx, "ghost", "ghost")
	assertKind(t, err, apperr.ErrSelfReference)

	err = env.follows.Unfollow(ctx, "ghost", "ghost")
	assertKind(t, err, apperr.ErrSelfReference)
}

func TestFollow_MissingUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.register(t, "alice")

	_, err := env.follows.Follow(ctx, a.ID, "ghost")
	assertKind(t, err, apperr.ErrNotFound)

	_, err = env.follows.Follow(ctx, "ghost", a.ID)
	assertKind(t, err, apperr.ErrNotFound)

	assert.Empty(t, env.user(t, a.ID).Following)
	assert.Empty(t, env.user(t, a.ID).Followers)
}

func TestUnfollow_NotFollowing(t *testing.T) {
	env := newTestEnv(t)
	a := env.register(t, "alice")
	b := env.register(t, "bob")

	err := env.follows.Unfollow(context.Background(), a.ID, b.ID)
	assertKind(t, err, apperr.ErrNotFound)
}
