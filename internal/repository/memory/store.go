// Package memory is an in-process store with the same contract as the postgres repositories.
// Transactions are serialized and rolled back by restoring a snapshot. Calls outside a transaction wait for it to finish.
package memory

import (
	"context"
	"sync"

	"pinboard-backend/internal/models"
	"pinboard-backend/internal/repository"
)

type state struct {
	users    map[string]*models.User
	pins     map[string]*models.Pin
	boards   map[string]*models.Board
	comments map[string]*models.Comment
	likes    map[string]*models.Like
	follows  map[string]*models.Follow
	saves    map[string]*models.Save
	messages map[string]*models.Message
}

func newState() *state {
	return &state{
		users:    map[string]*models.User{},
		pins:     map[string]*models.Pin{},
		boards:   map[string]*models.Board{},
		comments: map[string]*models.Comment{},
		likes:    map[string]*models.Like{},
		follows:  map[string]*models.Follow{},
		saves:    map[string]*models.Save{},
		messages: map[string]*models.Message{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = cloneUser(v)
	}
	for k, v := range s.pins {
		c.pins[k] = clonePin(v)
	}
	for k, v := range s.boards {
		c.boards[k] = cloneBoard(v)
	}
	for k, v := range s.comments {
		c.comments[k] = cloneComment(v)
	}
	for k, v := range s.likes {
		l := *v
		c.likes[k] = &l
	}
	for k, v := range s.follows {
		f := *v
		c.follows[k] = &f
	}
	for k, v := range s.saves {
		c.saves[k] = cloneSave(v)
	}
	for k, v := range s.messages {
		c.messages[k] = cloneMessage(v)
	}
	return c
}

// Store keeps every entity in maps guarded by a mutex
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   *state
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{st: newState()}
}

// scope is the store as one set of repositories sees it.
// Calls made outside a transaction wait for the running one, so its rollback cannot undo them.
type scope struct {
	store *Store
	inTx  bool
}

func (sc scope) view(fn func(st *state)) {
	if !sc.inTx {
		sc.store.txMu.Lock()
		defer sc.store.txMu.Unlock()
	}
	sc.store.view(fn)
}

// Repos returns repositories operating on the store outside any transaction
func (s *Store) Repos() repository.Repositories {
	return s.repos(scope{store: s})
}

func (s *Store) repos(sc scope) repository.Repositories {
	return repository.Repositories{
		Users:    &userRepo{s: sc},
		Pins:     &pinRepo{s: sc},
		Boards:   &boardRepo{s: sc},
		Comments: &commentRepo{s: sc},
		Likes:    &likeRepo{s: sc},
		Follows:  &followRepo{s: sc},
		Saves:    &saveRepo{s: sc},
		Messages: &messageRepo{s: sc},
	}
}

// WithTx runs fn while holding the transaction lock and restores the previous state if fn fails
func (s *Store) WithTx(ctx context.Context, fn func(repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(s.repos(scope{store: s, inTx: true})); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// view runs fn with the state locked
func (s *Store) view(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func removeValue(list []string, v string) []string {
	out := list[:0:0]
	for _, existing := range list {
		if existing != v {
			out = append(out, existing)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, existing := range list {
		if existing == v {
			return true
		}
	}
	return false
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.Age != nil {
		age := *u.Age
		c.Age = &age
	}
	c.Followers = cloneStrings(u.Followers)
	c.Following = cloneStrings(u.Following)
	c.Posts = cloneStrings(u.Posts)
	return &c
}

func clonePin(p *models.Pin) *models.Pin {
	c := *p
	if p.BoardID != nil {
		id := *p.BoardID
		c.BoardID = &id
	}
	c.Comments = cloneStrings(p.Comments)
	c.Likes = cloneStrings(p.Likes)
	return &c
}

func cloneBoard(b *models.Board) *models.Board {
	c := *b
	c.Pins = cloneStrings(b.Pins)
	return &c
}

func cloneComment(cm *models.Comment) *models.Comment {
	c := *cm
	c.Author = nil
	return &c
}

func cloneSave(sv *models.Save) *models.Save {
	c := *sv
	c.Pins = cloneStrings(sv.Pins)
	return &c
}

func cloneMessage(m *models.Message) *models.Message {
	c := *m
	c.Sender = nil
	c.Receiver = nil
	return &c
}

func author(st *state, userID string) *models.Author {
	u, ok := st.users[userID]
	if !ok {
		return nil
	}
	return &models.Author{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
}
