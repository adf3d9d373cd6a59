package services

import (
	"context"
	"testing"
	"time"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/cache"
	"pinboard-backend/internal/repository/memory"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.users.Register(ctx, RegisterRequest{Username: "ann", Email: " Ann@Example.com ", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.NotEqual(t, testPassword, user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(testPassword)))
	assert.Empty(t, user.Followers)
	assert.Empty(t, user.Following)
	assert.Empty(t, user.Posts)

	_, err = env.users.Register(ctx, RegisterRequest{Username: "ann", Email: "other@example.com", Password: testPassword})
	assertKind(t, err, apperr.ErrDuplicate)

	_, err = env.users.Register(ctx, RegisterRequest{Username: "bob", Email: "ann@example.com", Password: testPassword})
	assertKind(t, err, apperr.ErrDuplicate)

	_, err = env.users.Register(ctx, RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "short"})
	assertKind(t, err, apperr.ErrValidation)

	_, err = env.users.Register(ctx, RegisterRequest{Username: " ", Email: "bob@example.com", Password: testPassword})
	assertKind(t, err, apperr.ErrValidation)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "ann")

	resp, err := env.users.Login(ctx, LoginRequest{Email: "ANN@example.com", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	userID, err := env.users.ValidateJWT(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = env.users.Login(ctx, LoginRequest{Email: "ann@example.com", Password: "wrong-password"})
	assertKind(t, err, apperr.ErrAuth)

	_, err = env.users.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: testPassword})
	assertKind(t, err, apperr.ErrAuth)
}

func TestValidateJWT(t *testing.T) {
	env := newTestEnv(t)

	token, err := env.users.GenerateJWT("user-1", "a@example.com")
	require.NoError(t, err)
	id, err := env.users.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	other := NewUserService(memory.NewStore(), cache.Noop{}, "other-secret", time.Hour, bcrypt.MinCost)
	_, err = other.ValidateJWT(token)
	assertKind(t, err, apperr.ErrAuth)

	expired := NewUserService(memory.NewStore(), cache.Noop{}, "test-secret", -time.Hour, bcrypt.MinCost)
	stale, err := expired.GenerateJWT("user-1", "a@example.com")
	require.NoError(t, err)
	_, err = env.users.ValidateJWT(stale)
	assertKind(t, err, apperr.ErrAuth)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	signed, err := noUser.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = env.users.ValidateJWT(signed)
	assertKind(t, err, apperr.ErrAuth)

	_, err = env.users.ValidateJWT("garbage")
	assertKind(t, err, apperr.ErrAuth)
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	other := env.register(t, "other")
	mine := env.createPin(t, owner.ID, "mine")
	theirs := env.createPin(t, other.ID, "theirs")
	_, err := env.saves.Save(ctx, owner.ID, theirs.ID)
	require.NoError(t, err)

	profile, err := env.users.GetProfile(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, profile.User.ID)
	require.Len(t, profile.Posts, 1)
	assert.Equal(t, mine.ID, profile.Posts[0].ID)
	require.Len(t, profile.SavedPins, 1)
	assert.Equal(t, theirs.ID, profile.SavedPins[0].ID)

	profile, err = env.users.GetProfile(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.SavedPins)

	_, err = env.users.GetProfile(ctx, "ghost")
	assertKind(t, err, apperr.ErrNotFound)
}

func TestCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "owner")
	pin := env.createPin(t, owner.ID, "mine")
	_, err := env.comments.AddComment(ctx, owner.ID, pin.ID, "first")
	require.NoError(t, err)
	_, err = env.boards.Create(ctx, owner.ID, BoardRequest{Name: "ideas"})
	require.NoError(t, err)

	me, err := env.users.CurrentUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, me.Pins, 1)
	assert.Len(t, me.Pins[0].Comments, 1)
	assert.Len(t, me.Boards, 1)
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.register(t, "a")
	env.register(t, "b")
	env.createPin(t, a.ID, "pin")

	users, err := env.users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	pins := 0
	for _, u := range users {
		pins += len(u.Pins)
	}
	assert.Equal(t, 1, pins)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "ann")
	other := env.register(t, "bob")

	bio := "hello"
	age := 30
	updated, err := env.users.UpdateProfile(ctx, user.ID, user.ID, UpdateUserRequest{Bio: &bio, Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Bio)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 30, *updated.Age)
	assert.Equal(t, "hello", env.user(t, user.ID).Bio)

	_, err = env.users.UpdateProfile(ctx, other.ID, user.ID, UpdateUserRequest{Bio: &bio})
	assertKind(t, err, apperr.ErrForbidden)

	taken := "bob"
	_, err = env.users.UpdateProfile(ctx, user.ID, user.ID, UpdateUserRequest{Username: &taken})
	assertKind(t, err, apperr.ErrDuplicate)

	_, err = env.users.UpdateProfile(ctx, user.ID, user.ID, UpdateUserRequest{Password: "new-password"})
	assertKind(t, err, apperr.ErrValidation)

	_, err = env.users.UpdateProfile(ctx, user.ID, user.ID, UpdateUserRequest{Password: "new-password", OldPassword: "wrong-password"})
	assertKind(t, err, apperr.ErrAuth)

	_, err = env.users.UpdateProfile(ctx, user.ID, user.ID, UpdateUserRequest{Password: "new-password", OldPassword: testPassword})
	require.NoError(t, err)

	_, err = env.users.Login(ctx, LoginRequest{Email: "ann@example.com", Password: "new-password"})
	require.NoError(t, err)
}
