package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"pinboard-backend/internal/cache"
	"pinboard-backend/internal/models"
	"pinboard-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse"

type testEnv struct {
	store    *memory.Store
	users    *UserService
	pins     *PinService
	boards   *BoardService
	comments *CommentService
	follows  *FollowService
	likes    *LikeService
	saves    *SaveService
	messages *MessageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, memory.NewStore())
}

func newTestEnvWithStore(t *testing.T, store *memory.Store) *testEnv {
	t.Helper()
	return newTestEnvFor(store, store)
}

// newTestEnvFor lets tests wrap the store used by services while still inspecting the underlying memory store
func newTestEnvFor(svcStore Store, mem *memory.Store) *testEnv {
	c := cache.Noop{}
	return &testEnv{
		store:    mem,
		users:    NewUserService(svcStore, c, "test-secret", time.Hour, bcrypt.MinCost),
		pins:     NewPinService(svcStore, c, PageSizes{Default: 50, PerUser: 25, Max: 100}),
		boards:   NewBoardService(svcStore),
		comments: NewCommentService(svcStore),
		follows:  NewFollowService(svcStore, c),
		likes:    NewLikeService(svcStore),
		saves:    NewSaveService(svcStore),
		messages: NewMessageService(svcStore),
	}
}

func (e *testEnv) register(t *testing.T, name string) *models.User {
	t.Helper()
	user, err := e.users.Register(context.Background(), RegisterRequest{
		Username: name,
		Email:    name + "@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createPin(t *testing.T, ownerID, title string) *models.Pin {
	t.Helper()
	pin, err := e.pins.Create(context.Background(), ownerID, CreatePinRequest{
		Title:    title,
		ImageURL: "https://img.example.com/" + title + ".jpg",
	})
	require.NoError(t, err)
	return pin
}

func (e *testEnv) user(t *testing.T, id string) *models.User {
	t.Helper()
	user, err := e.store.Repos().Users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return user
}

func (e *testEnv) pin(t *testing.T, id string) *models.Pin {
	t.Helper()
	pin, err := e.store.Repos().Pins.GetByID(context.Background(), id)
	require.NoError(t, err)
	return pin
}

func assertKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
}

func count(list []string, v string) int {
	n := 0
	for _, s := range list {
		if s == v {
			n++
		}
	}
	return n
}
