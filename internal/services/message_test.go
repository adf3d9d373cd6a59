package services

import (
	"context"
	"testing"

	"pinboard-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.register(t, "ann")
	bob := env.register(t, "bob")
	cat := env.register(t, "cat")

	sent, err := env.messages.Send(ctx, ann.ID, SendMessageRequest{ReceiverID: bob.ID, Text: "hi bob"})
	require.NoError(t, err)
	_, err = env.messages.Send(ctx, cat.ID, SendMessageRequest{ReceiverID: ann.ID, Text: "hi ann"})
	require.NoError(t, err)

	all, err := env.messages.List(ctx, ann.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	withBob, err := env.messages.List(ctx, ann.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, withBob, 1)
	require.NotNil(t, withBob[0].Sender)
	assert.Equal(t, "ann", withBob[0].Sender.Username)

	got, err := env.messages.Get(ctx, bob.ID, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi bob", got.Text)

	_, err = env.messages.Get(ctx, cat.ID, sent.ID)
	assertKind(t, err, apperr.ErrForbidden)

	edited, err := env.messages.Edit(ctx, ann.ID, sent.ID, "hello bob")
	require.NoError(t, err)
	assert.Equal(t, "hello bob", edited.Text)

	_, err = env.messages.Edit(ctx, bob.ID, sent.ID, "tampered")
	assertKind(t, err, apperr.ErrForbidden)

	err = env.messages.Delete(ctx, bob.ID, sent.ID)
	assertKind(t, err, apperr.ErrForbidden)

	require.NoError(t, env.messages.Delete(ctx, ann.ID, sent.ID))
	_, err = env.messages.Get(ctx, ann.ID, sent.ID)
	assertKind(t, err, apperr.ErrNotFound)
}

func TestSendMessage_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ann := env.register(t, "ann")

	_, err := env.messages.Send(ctx, ann.ID, SendMessageRequest{ReceiverID: ann.ID, Text: "me"})
	assertKind(t, err, apperr.ErrSelfReference)

	_, err = env.messages.Send(ctx, ann.ID, SendMessageRequest{ReceiverID: "ghost", Text: "hello"})
	assertKind(t, err, apperr.ErrNotFound)

	_, err = env.messages.Send(ctx, ann.ID, SendMessageRequest{ReceiverID: "ghost", Text: " "})
	assertKind(t, err, apperr.ErrValidation)
}
