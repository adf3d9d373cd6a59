package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/cache"
	"pinboard-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// UserService handles accounts, sessions and profiles
type UserService struct {
	store      Store
	cache      cache.UserCache
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
}

// NewUserService creates a new user service
func NewUserService(store Store, userCache cache.UserCache, jwtSecret string, tokenTTL time.Duration, bcryptCost int) *UserService {
	return &UserService{
		store:      store,
		cache:      userCache,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents a request to sign in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed token and the signed-in user
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UpdateUserRequest represents a profile update. Nil fields are left unchanged.
// Changing the password requires OldPassword.
type UpdateUserRequest struct {
	Username       *string `json:"username" validate:"omitempty,min=1,max=50"`
	Email          *string `json:"email" validate:"omitempty,email"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,url"`
	CoverPicture   *string `json:"cover_picture" validate:"omitempty,url"`
	Name           *string `json:"name" validate:"omitempty,max=100"`
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	Age            *int    `json:"age" validate:"omitempty,min=0,max=150"`
	Website        *string `json:"website" validate:"omitempty,url"`
	Password       string  `json:"password"`
	OldPassword    string  `json:"old_password"`
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return "", apperr.Auth("invalid token: %v", err)
	}

	if !token.Valid {
		return "", apperr.Auth("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperr.Auth("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", apperr.Auth("user_id not found in token")
	}

	return userID, nil
}

// Register creates a new account
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return nil, apperr.Validation("username, email and password are required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	createdAt := now()
	user := &models.User{
		ID:           newID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Followers:    []string{},
		Following:    []string{},
		Posts:        []string{},
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	if err := s.store.Repos().Users.Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Duplicate("username or email already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login checks the credentials and issues a token
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	user, err := s.store.Repos().Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Auth("invalid email or password")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Auth("invalid email or password")
	}

	token, err := s.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{Token: token, User: user}, nil
}

// getUser reads a user through the cache
func (s *UserService) getUser(ctx context.Context, id string) (*models.User, error) {
	cached, generation, err := s.cache.Get(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to read cached user")
	}
	if cached != nil {
		return cached, nil
	}

	user, err := s.store.Repos().Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, user, generation); err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to cache user")
	}
	return user, nil
}

// GetProfile returns a user with their posts and saved pins
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	posts, err := repos.Pins.ListByIDs(ctx, user.Posts)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}

	saved := []*models.Pin{}
	save, err := repos.Saves.GetByUser(ctx, userID)
	switch {
	case err == nil:
		saved, err = repos.Pins.ListByIDs(ctx, save.Pins)
		if err != nil {
			return nil, fmt.Errorf("failed to get saved pins: %w", err)
		}
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, fmt.Errorf("failed to get saves: %w", err)
	}

	return &models.UserProfile{User: user, Posts: posts, SavedPins: saved}, nil
}

// CurrentUser returns the signed-in user with their pins, each pin's comments, and their boards
func (s *UserService) CurrentUser(ctx context.Context, userID string) (*models.CurrentUser, error) {
	repos := s.store.Repos()
	user, err := repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	pins, err := repos.Pins.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pins: %w", err)
	}

	details := make([]*models.PinDetail, 0, len(pins))
	for _, pin := range pins {
		comments, err := repos.Comments.ListByPin(ctx, pin.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get comments: %w", err)
		}
		details = append(details, &models.PinDetail{Pin: pin, Comments: comments})
	}

	boards, err := repos.Boards.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get boards: %w", err)
	}

	return &models.CurrentUser{User: user, Pins: details, Boards: boards}, nil
}

// ListUsers returns every user with the pins they own
func (s *UserService) ListUsers(ctx context.Context) ([]*models.UserWithPins, error) {
	repos := s.store.Repos()
	users, err := repos.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := make([]*models.UserWithPins, 0, len(users))
	for _, user := range users {
		pins, err := repos.Pins.ListByOwner(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get pins: %w", err)
		}
		result = append(result, &models.UserWithPins{User: user, Pins: pins})
	}
	return result, nil
}

// UpdateProfile changes the profile of the acting user. Relationship arrays cannot be written here.
func (s *UserService) UpdateProfile(ctx context.Context, actorID, userID string, req UpdateUserRequest) (*models.User, error) {
	if actorID != userID {
		return nil, apperr.Forbidden("you can only update your own account")
	}

	repos := s.store.Repos()
	user, err := repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, apperr.Validation("username cannot be empty")
		}
		user.Username = username
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, apperr.Validation("email cannot be empty")
		}
		user.Email = email
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	if req.CoverPicture != nil {
		user.CoverPicture = *req.CoverPicture
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Website != nil {
		user.Website = *req.Website
	}

	if req.Password != "" {
		if req.OldPassword == "" {
			return nil, apperr.Validation("old_password is required to change the password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
			return nil, apperr.Auth("incorrect password")
		}
		if len(req.Password) < minPasswordLength {
			return nil, apperr.Validation("password must be at least %d characters", minPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	user.UpdatedAt = now()
	if err := repos.Users.Update(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Duplicate("username or email already registered")
		}
		return nil, err
	}
	invalidateUsers(ctx, s.cache, userID)

	return user, nil
}
