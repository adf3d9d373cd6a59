package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
		str  string
	}{
		{"validation", Validation("title is required"), ErrValidation, "validation"},
		{"not found", NotFound("pin %s not found", "p1"), ErrNotFound, "not_found"},
		{"duplicate", Duplicate("already following"), ErrDuplicate, "duplicate"},
		{"self reference", SelfReference("cannot follow yourself"), ErrSelfReference, "self_reference"},
		{"auth", Auth("incorrect password"), ErrAuth, "auth"},
		{"forbidden", Forbidden("not your pin"), ErrForbidden, "forbidden"},
		{"wrapped", fmt.Errorf("failed to like pin: %w", NotFound("pin not found")), ErrNotFound, "not_found"},
		{"plain", errors.New("connection reset"), ErrInternal, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, Kind(tt.err))
			assert.Equal(t, tt.str, KindName(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := NotFound("pin %s not found", "p1")
	assert.Equal(t, "pin p1 not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrDuplicate))
}
