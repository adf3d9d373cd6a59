package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"
	"pinboard-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, s *Store, id string) {
	t.Helper()
	now := time.Now().UTC()
	err := s.Repos().Users.Create(context.Background(), &models.User{
		ID: id, Username: id, Email: id + "@example.com", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUser(t, s, "u1")
	seedUser(t, s, "u2")

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(r repository.Repositories) error {
		require.NoError(t, r.Users.AddFollowing(ctx, "u1", "u2"))
		require.NoError(t, r.Follows.Create(ctx, &models.Follow{ID: "f1", FollowerID: "u1", FollowingID: "u2"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	u1, err := s.Repos().Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, u1.Following)

	_, err = s.Repos().Follows.Get(ctx, "u1", "u2")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestWithTx_Commits(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUser(t, s, "u1")

	err := s.WithTx(ctx, func(r repository.Repositories) error {
		return r.Users.AddPost(ctx, "u1", "p1")
	})
	require.NoError(t, err)

	u1, err := s.Repos().Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, u1.Posts)
}

func TestWriteOutsideTxSurvivesRollback(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUser(t, s, "u1")

	started := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- s.WithTx(ctx, func(r repository.Repositories) error {
			close(started)
			<-release
			return errors.New("boom")
		})
	}()
	<-started

	writeDone := make(chan error, 1)
	go func() {
		writeDone <- s.Repos().Users.AddPost(ctx, "u1", "p1")
	}()

	select {
	case <-writeDone:
		t.Fatal("write finished while a transaction was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.Error(t, <-txDone)
	require.NoError(t, <-writeDone)

	u1, err := s.Repos().Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, u1.Posts)
}

func TestUniqueConstraints(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	r := s.Repos()
	seedUser(t, s, "u1")

	err := r.Users.Create(ctx, &models.User{ID: "other", Username: "u1", Email: "new@example.com"})
	assert.True(t, errors.Is(err, apperr.ErrDuplicate))

	require.NoError(t, r.Likes.Create(ctx, &models.Like{ID: "l1", UserID: "u1", PinID: "p1"}))
	err = r.Likes.Create(ctx, &models.Like{ID: "l2", UserID: "u1", PinID: "p1"})
	assert.True(t, errors.Is(err, apperr.ErrDuplicate))

	err = r.Follows.Create(ctx, &models.Follow{ID: "f1", FollowerID: "u1", FollowingID: "u1"})
	assert.True(t, errors.Is(err, apperr.ErrSelfReference))
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUser(t, s, "u1")

	u, err := s.Repos().Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	u.Followers = append(u.Followers, "intruder")

	again, err := s.Repos().Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, again.Followers)
}

func TestSaveAddPinIsIdempotent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	r := s.Repos()
	tmpl := &models.Save{ID: "s1", UserID: "u1", CreatedAt: time.Now().UTC()}

	_, err := r.Saves.AddPin(ctx, tmpl, "p1")
	require.NoError(t, err)
	save, err := r.Saves.AddPin(ctx, tmpl, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, save.Pins)
	assert.Equal(t, "s1", save.ID)
}

func TestPinListPagination(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	r := s.Repos()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		owner := "u1"
		if i%2 == 1 {
			owner = "u2"
		}
		at := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, r.Pins.Create(ctx, &models.Pin{ID: id, Title: id, ImageURL: "x", UserID: owner, CreatedAt: at, UpdatedAt: at}))
	}

	pins, total, err := r.Pins.List(ctx, repository.PinFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, pins, 2)
	assert.Equal(t, "c", pins[0].ID)
	assert.Equal(t, "b", pins[1].ID)

	pins, total, err = r.Pins.List(ctx, repository.PinFilter{UserID: "u1", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, "e", pins[0].ID)

	pins, total, err = r.Pins.List(ctx, repository.PinFilter{Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, pins)
}
