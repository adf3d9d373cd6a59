package memory

import (
	"context"
	"sort"
	"time"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"
)

type commentRepo struct {
	s scope
}

func sortComments(comments []*models.Comment) {
	sort.Slice(comments, func(i, j int) bool {
		return olderFirst(comments[i].CreatedAt, comments[i].ID, comments[j].CreatedAt, comments[j].ID)
	})
}

func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	var err error
	r.s.view(func(st *state) {
		if _, ok := st.comments[comment.ID]; ok {
			err = apperr.Duplicate("comment already exists")
			return
		}
		st.comments[comment.ID] = cloneComment(comment)
	})
	return err
}

func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var (
		comment *models.Comment
		err     error
	)
	r.s.view(func(st *state) {
		c, ok := st.comments[id]
		if !ok {
			err = apperr.NotFound("comment not found")
			return
		}
		comment = cloneComment(c)
	})
	return comment, err
}

func (r *commentRepo) ListByPin(ctx context.Context, pinID string) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	r.s.view(func(st *state) {
		for _, c := range st.comments {
			if c.PinID == pinID {
				cc := cloneComment(c)
				cc.Author = author(st, c.UserID)
				comments = append(comments, cc)
			}
		}
	})
	sortComments(comments)
	return comments, nil
}

func (r *commentRepo) ListByUser(ctx context.Context, userID string) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	r.s.view(func(st *state) {
		for _, c := range st.comments {
			if c.UserID == userID {
				comments = append(comments, cloneComment(c))
			}
		}
	})
	sortComments(comments)
	return comments, nil
}

func (r *commentRepo) UpdateText(ctx context.Context, id, text string) (*models.Comment, error) {
	var (
		comment *models.Comment
		err     error
	)
	r.s.view(func(st *state) {
		c, ok := st.comments[id]
		if !ok {
			err = apperr.NotFound("comment not found")
			return
		}
		c.Text = text
		c.UpdatedAt = time.Now().UTC()
		comment = cloneComment(c)
	})
	return comment, err
}

func (r *commentRepo) Delete(ctx context.Context, id string) (int64, error) {
	var n int64
	r.s.view(func(st *state) {
		if _, ok := st.comments[id]; ok {
			delete(st.comments, id)
			n = 1
		}
	})
	return n, nil
}

func (r *commentRepo) DeleteByPin(ctx context.Context, pinID string) (int64, error) {
	var n int64
	r.s.view(func(st *state) {
		for id, c := range st.comments {
			if c.PinID == pinID {
				delete(st.comments, id)
				n++
			}
		}
	})
	return n, nil
}
