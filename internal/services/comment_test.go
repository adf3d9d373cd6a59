package services

import (
	"context"
	"testing"

	"pinboard-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComment_AddThenDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	pin := env.createPin(t, owner.ID, "sunset")

	comment, err := env.comments.AddComment(ctx, owner.ID, pin.ID, "hi")
	require.NoError(t, err)
	assert.Contains(t, env.pin(t, pin.ID).Comments, comment.ID)

	listed, err := env.comments.ListByPin(ctx, pin.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].Author)
	assert.Equal(t, "owner", listed[0].Author.Username)

	deleted, err := env.comments.DeleteComment(ctx, owner.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, comment.ID, deleted.ID)

	assert.NotContains(t, env.pin(t, pin.ID).Comments, comment.ID)
	_, err = env.store.Repos().Comments.GetByID(ctx, comment.ID)
	assertKind(t, err, apperr.ErrNotFound)
}

func TestComment_MissingPinLeavesNoOrphan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "user")

	_, err := env.comments.AddComment(ctx, user.ID, "missing", "hi")
	assertKind(t, err, apperr.ErrNotFound)

	comments, err := env.store.Repos().Comments.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestComment_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name, user, pin, text string
	}{
		{"no text", "u1", "p1", "   "},
		{"no pin", "u1", "", "hi"},
		{"no user", "", "p1", "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.comments.AddComment(ctx, tt.user, tt.pin, tt.text)
			assertKind(t, err, apperr.ErrValidation)
		})
	}
}

func TestComment_Edit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	other := env.register(t, "other")
	pin := env.createPin(t, owner.ID, "sunset")

	comment, err := env.comments.AddComment(ctx, other.ID, pin.ID, "first")
	require.NoError(t, err)

	edited, err := env.comments.EditComment(ctx, other.ID, comment.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, "second", edited.Text)
	assert.Equal(t, pin.ID, edited.PinID)

	_, err = env.comments.EditComment(ctx, owner.ID, comment.ID, "hijack")
	assertKind(t, err, apperr.ErrForbidden)

	_, err = env.comments.EditComment(ctx, other.ID, "missing", "text")
	assertKind(t, err, apperr.ErrNotFound)

	_, err = env.comments.EditComment(ctx, other.ID, comment.ID, "")
	assertKind(t, err, apperr.ErrValidation)
}

func TestComment_DeleteByPinOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	other := env.register(t, "other")
	stranger := env.register(t, "stranger")
	pin := env.createPin(t, owner.ID, "sunset")

	comment, err := env.comments.AddComment(ctx, other.ID, pin.ID, "spam")
	require.NoError(t, err)

	_, err = env.comments.DeleteComment(ctx, stranger.ID, comment.ID)
	assertKind(t, err, apperr.ErrForbidden)

	_, err = env.comments.DeleteComment(ctx, owner.ID, comment.ID)
	require.NoError(t, err)
	assert.Empty(t, env.pin(t, pin.ID).Comments)
}

func TestDeleteAllCommentsByUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	talker := env.register(t, "talker")
	p1 := env.createPin(t, owner.ID, "one")
	p2 := env.createPin(t, owner.ID, "two")

	_, err := env.comments.AddComment(ctx, talker.ID, p1.ID, "a")
	require.NoError(t, err)
	_, err = env.comments.AddComment(ctx, talker.ID, p2.ID, "b")
	require.NoError(t, err)
	kept, err := env.comments.AddComment(ctx, owner.ID, p1.ID, "c")
	require.NoError(t, err)

	n, err := env.comments.DeleteAllCommentsByUser(ctx, talker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.Equal(t, []string{kept.ID}, env.pin(t, p1.ID).Comments)
	assert.Empty(t, env.pin(t, p2.ID).Comments)
}
