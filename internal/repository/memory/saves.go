package memory

import (
	"context"
	"time"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"
)

type saveRepo struct {
	s scope
}

func (r *saveRepo) GetByUser(ctx context.Context, userID string) (*models.Save, error) {
	var save *models.Save
	r.s.view(func(st *state) {
		if sv, ok := st.saves[userID]; ok {
			save = cloneSave(sv)
		}
	})
	if save == nil {
		return nil, apperr.NotFound("save not found")
	}
	return save, nil
}

// AddPin keys save records by user id, matching the unique user_id constraint
func (r *saveRepo) AddPin(ctx context.Context, save *models.Save, pinID string) (*models.Save, error) {
	var result *models.Save
	r.s.view(func(st *state) {
		sv, ok := st.saves[save.UserID]
		if !ok {
			sv = cloneSave(save)
			sv.Pins = []string{}
			sv.UpdatedAt = sv.CreatedAt
			st.saves[save.UserID] = sv
		} else if !contains(sv.Pins, pinID) {
			sv.UpdatedAt = time.Now().UTC()
		}
		sv.Pins = appendUnique(sv.Pins, pinID)
		result = cloneSave(sv)
	})
	return result, nil
}

func (r *saveRepo) RemovePin(ctx context.Context, userID, pinID string) (*models.Save, error) {
	var result *models.Save
	r.s.view(func(st *state) {
		sv, ok := st.saves[userID]
		if !ok {
			return
		}
		sv.Pins = removeValue(sv.Pins, pinID)
		sv.UpdatedAt = time.Now().UTC()
		result = cloneSave(sv)
	})
	if result == nil {
		return nil, apperr.NotFound("save not found")
	}
	return result, nil
}

func (r *saveRepo) RemovePinEverywhere(ctx context.Context, pinID string) (int64, error) {
	var n int64
	r.s.view(func(st *state) {
		for _, sv := range st.saves {
			if contains(sv.Pins, pinID) {
				sv.Pins = removeValue(sv.Pins, pinID)
				sv.UpdatedAt = time.Now().UTC()
				n++
			}
		}
	})
	return n, nil
}

func (r *saveRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	r.s.view(func(st *state) {
		if _, ok := st.saves[userID]; ok {
			delete(st.saves, userID)
			n = 1
		}
	})
	return n, nil
}
