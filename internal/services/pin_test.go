package services

import (
	"context"
	"fmt"
	"testing"

	"pinboard-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinList_Pagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	for i := 0; i < 120; i++ {
		env.createPin(t, owner.ID, fmt.Sprintf("pin-%03d", i))
	}

	first, err := env.pins.List(ctx, "", "1", "50")
	require.NoError(t, err)
	assert.Len(t, first.Items, 50)
	assert.Equal(t, 120, first.Total)
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, 1, first.CurrentPage)

	last, err := env.pins.List(ctx, "", "3", "50")
	require.NoError(t, err)
	assert.Len(t, last.Items, 20)
	assert.Equal(t, 3, last.CurrentPage)

	beyond, err := env.pins.List(ctx, "", "4", "50")
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 3, beyond.TotalPages)

	seen := map[string]bool{}
	for _, page := range []string{"1", "2", "3"} {
		result, err := env.pins.List(ctx, "", page, "50")
		require.NoError(t, err)
		for _, pin := range result.Items {
			assert.False(t, seen[pin.ID], "pin %s listed twice", pin.ID)
			seen[pin.ID] = true
		}
	}
	assert.Len(t, seen, 120)
}

func TestPinList_Defaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	other := env.register(t, "other")
	for i := 0; i < 30; i++ {
		env.createPin(t, owner.ID, fmt.Sprintf("pin-%d", i))
	}
	env.createPin(t, other.ID, "elsewhere")

	all, err := env.pins.List(ctx, "", "", "")
	require.NoError(t, err)
	assert.Len(t, all.Items, 31)
	assert.Equal(t, 1, all.TotalPages)

	mine, err := env.pins.List(ctx, owner.ID, "", "")
	require.NoError(t, err)
	assert.Len(t, mine.Items, 25)
	assert.Equal(t, 30, mine.Total)
	assert.Equal(t, 2, mine.TotalPages)
	for _, pin := range mine.Items {
		assert.Equal(t, owner.ID, pin.UserID)
	}

	clamped, err := env.pins.List(ctx, "", "1", "1000")
	require.NoError(t, err)
	assert.Equal(t, 1, clamped.TotalPages)
}

func TestPinList_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	for i := 0; i < 5; i++ {
		env.createPin(t, owner.ID, fmt.Sprintf("pin-%d", i))
	}

	page, err := env.pins.List(ctx, "", "", "")
	require.NoError(t, err)
	for i := 1; i < len(page.Items); i++ {
		assert.False(t, page.Items[i].CreatedAt.After(page.Items[i-1].CreatedAt))
	}
}

func TestPinList_InvalidParams(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, tc := range []struct{ page, size string }{
		{"0", "10"},
		{"-1", "10"},
		{"abc", "10"},
		{"1", "0"},
		{"1", "ten"},
	} {
		_, err := env.pins.List(ctx, "", tc.page, tc.size)
		assertKind(t, err, apperr.ErrValidation)
	}
}

func TestPinCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")

	pin := env.createPin(t, owner.ID, "sunset")
	assert.Equal(t, owner.ID, pin.UserID)
	assert.Empty(t, pin.Comments)
	assert.Empty(t, pin.Likes)
	assert.Equal(t, []string{pin.ID}, env.user(t, owner.ID).Posts)

	_, err := env.pins.Create(ctx, owner.ID, CreatePinRequest{Title: " ", ImageURL: "https://x.example.com/a.jpg"})
	assertKind(t, err, apperr.ErrValidation)

	_, err = env.pins.Create(ctx, owner.ID, CreatePinRequest{Title: "a", ImageURL: "https://x.example.com/a.jpg", BoardID: "missing"})
	assertKind(t, err, apperr.ErrNotFound)
	assert.Len(t, env.user(t, owner.ID).Posts, 1)
}

func TestPinCreate_OnBoard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	other := env.register(t, "other")

	board, err := env.boards.Create(ctx, owner.ID, BoardRequest{Name: "travel"})
	require.NoError(t, err)

	pin, err := env.pins.Create(ctx, owner.ID, CreatePinRequest{Title: "a", ImageURL: "https://x.example.com/a.jpg", BoardID: board.ID})
	require.NoError(t, err)
	require.NotNil(t, pin.BoardID)
	assert.Equal(t, board.ID, *pin.BoardID)

	stored, err := env.boards.Get(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{pin.ID}, stored.Pins)

	_, err = env.pins.Create(ctx, other.ID, CreatePinRequest{Title: "b", ImageURL: "https://x.example.com/b.jpg", BoardID: board.ID})
	assertKind(t, err, apperr.ErrForbidden)
}

func TestPinUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	other := env.register(t, "other")
	pin := env.createPin(t, owner.ID, "sunset")

	title := "sunrise"
	updated, err := env.pins.Update(ctx, owner.ID, pin.ID, UpdatePinRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "sunrise", updated.Title)
	assert.Equal(t, pin.ImageURL, updated.ImageURL)
	assert.Equal(t, "sunrise", env.pin(t, pin.ID).Title)

	_, err = env.pins.Update(ctx, other.ID, pin.ID, UpdatePinRequest{Title: &title})
	assertKind(t, err, apperr.ErrForbidden)

	empty := ""
	_, err = env.pins.Update(ctx, owner.ID, pin.ID, UpdatePinRequest{Title: &empty})
	assertKind(t, err, apperr.ErrValidation)
}

func TestPinDelete_RemovesReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	fan := env.register(t, "fan")
	board, err := env.boards.Create(ctx, owner.ID, BoardRequest{Name: "travel"})
	require.NoError(t, err)
	pin, err := env.pins.Create(ctx, owner.ID, CreatePinRequest{Title: "a", ImageURL: "https://x.example.com/a.jpg", BoardID: board.ID})
	require.NoError(t, err)

	_, err = env.comments.AddComment(ctx, fan.ID, pin.ID, "nice")
	require.NoError(t, err)
	_, err = env.likes.Like(ctx, fan.ID, pin.ID)
	require.NoError(t, err)
	_, err = env.saves.Save(ctx, fan.ID, pin.ID)
	require.NoError(t, err)

	err = env.pins.Delete(ctx, fan.ID, pin.ID)
	assertKind(t, err, apperr.ErrForbidden)

	require.NoError(t, env.pins.Delete(ctx, owner.ID, pin.ID))

	_, err = env.pins.Get(ctx, pin.ID)
	assertKind(t, err, apperr.ErrNotFound)
	assert.Empty(t, env.user(t, owner.ID).Posts)

	repos := env.store.Repos()
	comments, err := repos.Comments.ListByUser(ctx, fan.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	likes, err := repos.Likes.ListByUser(ctx, fan.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)

	saved, err := env.saves.GetSaved(ctx, fan.ID)
	require.NoError(t, err)
	assert.Empty(t, saved.Save.Pins)

	stored, err := env.boards.Get(ctx, board.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Pins)
}
