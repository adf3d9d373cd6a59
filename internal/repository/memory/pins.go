package memory

import (
	"context"
	"sort"
	"time"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"
	"pinboard-backend/internal/repository"
)

type pinRepo struct {
	s scope
}

func sortPins(pins []*models.Pin) {
	sort.Slice(pins, func(i, j int) bool {
		return newerFirst(pins[i].CreatedAt, pins[i].ID, pins[j].CreatedAt, pins[j].ID)
	})
}

func (r *pinRepo) Create(ctx context.Context, pin *models.Pin) error {
	var err error
	r.s.view(func(st *state) {
		if _, ok := st.pins[pin.ID]; ok {
			err = apperr.Duplicate("pin already exists")
			return
		}
		c := clonePin(pin)
		c.Comments = nonNil(c.Comments)
		c.Likes = nonNil(c.Likes)
		st.pins[pin.ID] = c
	})
	return err
}

func (r *pinRepo) GetByID(ctx context.Context, id string) (*models.Pin, error) {
	var (
		pin *models.Pin
		err error
	)
	r.s.view(func(st *state) {
		p, ok := st.pins[id]
		if !ok {
			err = apperr.NotFound("pin not found")
			return
		}
		pin = clonePin(p)
	})
	return pin, err
}

// Lock only reads. Transactions are already serialized.
func (r *pinRepo) Lock(ctx context.Context, id string, mode repository.LockMode) (*models.Pin, error) {
	return r.GetByID(ctx, id)
}

func (r *pinRepo) List(ctx context.Context, filter repository.PinFilter) ([]*models.Pin, int, error) {
	all := []*models.Pin{}
	r.s.view(func(st *state) {
		for _, p := range st.pins {
			if filter.UserID != "" && p.UserID != filter.UserID {
				continue
			}
			all = append(all, clonePin(p))
		}
	})
	sortPins(all)

	total := len(all)
	if filter.Offset >= total {
		return []*models.Pin{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return all[filter.Offset:end], total, nil
}

func (r *pinRepo) ListByIDs(ctx context.Context, ids []string) ([]*models.Pin, error) {
	pins := []*models.Pin{}
	r.s.view(func(st *state) {
		seen := map[string]bool{}
		for _, id := range ids {
			if p, ok := st.pins[id]; ok && !seen[id] {
				seen[id] = true
				pins = append(pins, clonePin(p))
			}
		}
	})
	sortPins(pins)
	return pins, nil
}

func (r *pinRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Pin, error) {
	pins, _, err := r.List(ctx, repository.PinFilter{UserID: userID})
	return pins, err
}

func (r *pinRepo) Update(ctx context.Context, pin *models.Pin) error {
	return r.mutate(pin.ID, true, func(p *models.Pin) {
		p.Title = pin.Title
		p.Description = pin.Description
		p.ImageURL = pin.ImageURL
		p.Link = pin.Link
		p.UpdatedAt = pin.UpdatedAt
	})
}

func (r *pinRepo) Delete(ctx context.Context, id string) (int64, error) {
	var n int64
	r.s.view(func(st *state) {
		if _, ok := st.pins[id]; ok {
			delete(st.pins, id)
			n = 1
		}
	})
	return n, nil
}

func (r *pinRepo) mutate(id string, required bool, fn func(p *models.Pin)) error {
	var err error
	r.s.view(func(st *state) {
		p, ok := st.pins[id]
		if !ok {
			if required {
				err = apperr.NotFound("pin not found")
			}
			return
		}
		fn(p)
	})
	return err
}

func touch(p *models.Pin) {
	p.UpdatedAt = time.Now().UTC()
}

func (r *pinRepo) AddComment(ctx context.Context, pinID, commentID string) error {
	return r.mutate(pinID, true, func(p *models.Pin) { p.Comments = appendUnique(p.Comments, commentID); touch(p) })
}

func (r *pinRepo) RemoveComment(ctx context.Context, pinID, commentID string) error {
	return r.mutate(pinID, false, func(p *models.Pin) { p.Comments = removeValue(p.Comments, commentID); touch(p) })
}

func (r *pinRepo) AddLike(ctx context.Context, pinID, userID string) error {
	return r.mutate(pinID, true, func(p *models.Pin) { p.Likes = appendUnique(p.Likes, userID); touch(p) })
}

func (r *pinRepo) RemoveLike(ctx context.Context, pinID, userID string) error {
	return r.mutate(pinID, false, func(p *models.Pin) { p.Likes = removeValue(p.Likes, userID); touch(p) })
}

func (r *pinRepo) SetBoard(ctx context.Context, pinID string, boardID *string) error {
	return r.mutate(pinID, true, func(p *models.Pin) {
		p.BoardID = nil
		if boardID != nil {
			id := *boardID
			p.BoardID = &id
		}
		touch(p)
	})
}

func (r *pinRepo) ClearBoard(ctx context.Context, boardID string) (int64, error) {
	var n int64
	r.s.view(func(st *state) {
		for _, p := range st.pins {
			if p.BoardID != nil && *p.BoardID == boardID {
				p.BoardID = nil
				touch(p)
				n++
			}
		}
	})
	return n, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
