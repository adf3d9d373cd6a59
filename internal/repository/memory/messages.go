package memory

import (
	"context"
	"sort"
	"time"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/models"
	"pinboard-backend/internal/repository"
)

type messageRepo struct {
	s scope
}

func (r *messageRepo) Create(ctx context.Context, message *models.Message) error {
	var err error
	r.s.view(func(st *state) {
		if _, ok := st.messages[message.ID]; ok {
			err = apperr.Duplicate("message already exists")
			return
		}
		st.messages[message.ID] = cloneMessage(message)
	})
	return err
}

func (r *messageRepo) GetByID(ctx context.Context, id string) (*models.Message, error) {
	var (
		message *models.Message
		err     error
	)
	r.s.view(func(st *state) {
		m, ok := st.messages[id]
		if !ok {
			err = apperr.NotFound("message not found")
			return
		}
		message = cloneMessage(m)
	})
	return message, err
}

func involves(m *models.Message, userID string) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

func (r *messageRepo) List(ctx context.Context, filter repository.MessageFilter) ([]*models.Message, error) {
	messages := []*models.Message{}
	r.s.view(func(st *state) {
		for _, m := range st.messages {
			if !involves(m, filter.UserID) {
				continue
			}
			if filter.PeerID != "" && !involves(m, filter.PeerID) {
				continue
			}
			c := cloneMessage(m)
			c.Sender = author(st, m.SenderID)
			c.Receiver = author(st, m.ReceiverID)
			messages = append(messages, c)
		}
	})
	sort.Slice(messages, func(i, j int) bool {
		return newerFirst(messages[i].CreatedAt, messages[i].ID, messages[j].CreatedAt, messages[j].ID)
	})
	return messages, nil
}

func (r *messageRepo) UpdateText(ctx context.Context, id, text string) (*models.Message, error) {
	var (
		message *models.Message
		err     error
	)
	r.s.view(func(st *state) {
		m, ok := st.messages[id]
		if !ok {
			err = apperr.NotFound("message not found")
			return
		}
		m.Text = text
		m.UpdatedAt = time.Now().UTC()
		message = cloneMessage(m)
	})
	return message, err
}

func (r *messageRepo) Delete(ctx context.Context, id string) (int64, error) {
	var n int64
	r.s.view(func(st *state) {
		if _, ok := st.messages[id]; ok {
			delete(st.messages, id)
			n = 1
		}
	})
	return n, nil
}

func (r *messageRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	r.s.view(func(st *state) {
		for id, m := range st.messages {
			if involves(m, userID) {
				delete(st.messages, id)
				n++
			}
		}
	})
	return n, nil
}
