package memory

import (
	"context"
	"sort"
	"time"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"
)

type userRepo struct {
	s scope
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	var err error
	r.s.view(func(st *state) {
		if _, ok := st.users[user.ID]; ok {
			err = apperr.Duplicate("user already exists")
			return
		}
		for _, u := range st.users {
			if u.Username == user.Username || u.Email == user.Email {
				err = apperr.Duplicate("user already exists")
				return
			}
		}
		st.users[user.ID] = cloneUser(user)
	})
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	r.s.view(func(st *state) {
		u, ok := st.users[id]
		if !ok {
			err = apperr.NotFound("user not found")
			return
		}
		user = cloneUser(u)
	})
	return user, err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user *models.User
	r.s.view(func(st *state) {
		for _, u := range st.users {
			if u.Email == email {
				user = cloneUser(u)
				return
			}
		}
	})
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	users := []*models.User{}
	r.s.view(func(st *state) {
		for _, u := range st.users {
			users = append(users, cloneUser(u))
		}
	})
	sort.Slice(users, func(i, j int) bool {
		return newerFirst(users[i].CreatedAt, users[i].ID, users[j].CreatedAt, users[j].ID)
	})
	return users, nil
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	var err error
	r.s.view(func(st *state) {
		existing, ok := st.users[user.ID]
		if !ok {
			err = apperr.NotFound("user not found")
			return
		}
		for _, u := range st.users {
			if u.ID != user.ID && (u.Username == user.Username || u.Email == user.Email) {
				err = apperr.Duplicate("user already exists")
				return
			}
		}
		existing.Username = user.Username
		existing.Email = user.Email
		existing.PasswordHash = user.PasswordHash
		existing.ProfilePicture = user.ProfilePicture
		existing.CoverPicture = user.CoverPicture
		existing.Name = user.Name
		existing.Bio = user.Bio
		existing.Age = nil
		if user.Age != nil {
			age := *user.Age
			existing.Age = &age
		}
		existing.Website = user.Website
		existing.UpdatedAt = user.UpdatedAt
	})
	return err
}

func (r *userRepo) Delete(ctx context.Context, id string) (int64, error) {
	var n int64
	r.s.view(func(st *state) {
		if _, ok := st.users[id]; ok {
			delete(st.users, id)
			n = 1
		}
	})
	return n, nil
}

// mutate applies fn to the stored user. required makes a missing user an error.
func (r *userRepo) mutate(id string, required bool, fn func(u *models.User)) error {
	var err error
	r.s.view(func(st *state) {
		u, ok := st.users[id]
		if !ok {
			if required {
				err = apperr.NotFound("user not found")
			}
			return
		}
		fn(u)
		u.UpdatedAt = time.Now().UTC()
	})
	return err
}

func (r *userRepo) AddFollowing(ctx context.Context, userID, targetID string) error {
	return r.mutate(userID, true, func(u *models.User) { u.Following = appendUnique(u.Following, targetID) })
}

func (r *userRepo) RemoveFollowing(ctx context.Context, userID, targetID string) error {
	return r.mutate(userID, false, func(u *models.User) { u.Following = removeValue(u.Following, targetID) })
}

func (r *userRepo) AddFollower(ctx context.Context, userID, followerID string) error {
	return r.mutate(userID, true, func(u *models.User) { u.Followers = appendUnique(u.Followers, followerID) })
}

func (r *userRepo) RemoveFollower(ctx context.Context, userID, followerID string) error {
	return r.mutate(userID, false, func(u *models.User) { u.Followers = removeValue(u.Followers, followerID) })
}

func (r *userRepo) AddPost(ctx context.Context, userID, pinID string) error {
	return r.mutate(userID, true, func(u *models.User) { u.Posts = appendUnique(u.Posts, pinID) })
}

func (r *userRepo) RemovePost(ctx context.Context, userID, pinID string) error {
	return r.mutate(userID, false, func(u *models.User) { u.Posts = removeValue(u.Posts, pinID) })
}

func newerFirst(at time.Time, aid string, bt time.Time, bid string) bool {
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return aid > bid
}

func olderFirst(at time.Time, aid string, bt time.Time, bid string) bool {
	if !at.Equal(bt) {
		return at.Before(bt)
	}
	return aid < bid
}
