package memory

import (
	"context"
	"sort"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"
)

type likeRepo struct {
	s scope
}

func sortLikes(likes []*models.Like) {
	sort.Slice(likes, func(i, j int) bool {
		return olderFirst(likes[i].CreatedAt, likes[i].ID, likes[j].CreatedAt, likes[j].ID)
	})
}

func (r *likeRepo) Create(ctx context.Context, like *models.Like) error {
	var err error
	r.s.view(func(st *state) {
		for _, l := range st.likes {
			if l.UserID == like.UserID && l.PinID == like.PinID {
				err = apperr.Duplicate("like already exists")
				return
			}
		}
		l := *like
		st.likes[like.ID] = &l
	})
	return err
}

func (r *likeRepo) Get(ctx context.Context, userID, pinID string) (*models.Like, error) {
	var like *models.Like
	r.s.view(func(st *state) {
		for _, l := range st.likes {
			if l.UserID == userID && l.PinID == pinID {
				c := *l
				like = &c
				return
			}
		}
	})
	if like == nil {
		return nil, apperr.NotFound("like not found")
	}
	return like, nil
}

func (r *likeRepo) filter(match func(l *models.Like) bool) []*models.Like {
	likes := []*models.Like{}
	r.s.view(func(st *state) {
		for _, l := range st.likes {
			if match(l) {
				c := *l
				likes = append(likes, &c)
			}
		}
	})
	sortLikes(likes)
	return likes
}

func (r *likeRepo) ListByPin(ctx context.Context, pinID string) ([]*models.Like, error) {
	return r.filter(func(l *models.Like) bool { return l.PinID == pinID }), nil
}

func (r *likeRepo) ListByUser(ctx context.Context, userID string) ([]*models.Like, error) {
	return r.filter(func(l *models.Like) bool { return l.UserID == userID }), nil
}

func (r *likeRepo) remove(match func(l *models.Like) bool) int64 {
	var n int64
	r.s.view(func(st *state) {
		for id, l := range st.likes {
			if match(l) {
				delete(st.likes, id)
				n++
			}
		}
	})
	return n
}

func (r *likeRepo) Delete(ctx context.Context, userID, pinID string) (int64, error) {
	return r.remove(func(l *models.Like) bool { return l.UserID == userID && l.PinID == pinID }), nil
}

func (r *likeRepo) DeleteByPin(ctx context.Context, pinID string) (int64, error) {
	return r.remove(func(l *models.Like) bool { return l.PinID == pinID }), nil
}

type followRepo struct {
	s scope
}

func (r *followRepo) Create(ctx context.Context, follow *models.Follow) error {
	if follow.FollowerID == follow.FollowingID {
		return apperr.SelfReference("follow cannot reference itself")
	}
	var err error
	r.s.view(func(st *state) {
		for _, f := range st.follows {
			if f.FollowerID == follow.FollowerID && f.FollowingID == follow.FollowingID {
				err = apperr.Duplicate("follow already exists")
				return
			}
		}
		f := *follow
		st.follows[follow.ID] = &f
	})
	return err
}

func (r *followRepo) Get(ctx context.Context, followerID, followingID string) (*models.Follow, error) {
	var follow *models.Follow
	r.s.view(func(st *state) {
		for _, f := range st.follows {
			if f.FollowerID == followerID && f.FollowingID == followingID {
				c := *f
				follow = &c
				return
			}
		}
	})
	if follow == nil {
		return nil, apperr.NotFound("follow not found")
	}
	return follow, nil
}

func (r *followRepo) ListByUser(ctx context.Context, userID string) ([]*models.Follow, error) {
	follows := []*models.Follow{}
	r.s.view(func(st *state) {
		for _, f := range st.follows {
			if f.FollowerID == userID || f.FollowingID == userID {
				c := *f
				follows = append(follows, &c)
			}
		}
	})
	sort.Slice(follows, func(i, j int) bool {
		return olderFirst(follows[i].CreatedAt, follows[i].ID, follows[j].CreatedAt, follows[j].ID)
	})
	return follows, nil
}

func (r *followRepo) remove(match func(f *models.Follow) bool) int64 {
	var n int64
	r.s.view(func(st *state) {
		for id, f := range st.follows {
			if match(f) {
				delete(st.follows, id)
				n++
			}
		}
	})
	return n
}

func (r *followRepo) Delete(ctx context.Context, followerID, followingID string) (int64, error) {
	return r.remove(func(f *models.Follow) bool {
		return f.FollowerID == followerID && f.FollowingID == followingID
	}), nil
}

func (r *followRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return r.remove(func(f *models.Follow) bool {
		return f.FollowerID == userID || f.FollowingID == userID
	}), nil
}
