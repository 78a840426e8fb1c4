package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrValidation, ErrForbidden, ErrUnavailable}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name        string
		entity      string
		id          string
		expectedMsg string
	}{
		{"question with id", EntityQuestion, "q-1", `question with id "q-1" not found`},
		{"reply without id", EntityReply, "", "reply not found"},
		{"blob key", EntityBlob, "campusqa_tags", `blob with id "campusqa_tags" not found`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFoundError(tt.entity, tt.id)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrNotFound)

			var notFound *NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.entity, notFound.Entity)
			assert.Equal(t, tt.id, notFound.ID)
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationErrorWithValue("parentReplyId", "belongs to another question", "r-9")

	assert.Equal(t, "validation failed for parentReplyId: belongs to another question", err.Error())
	require.ErrorIs(t, err, ErrValidation)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "r-9", validation.Value)

	assert.Equal(t, "validation failed: bad input", NewValidationError("", "bad input").Error())
}

func TestForbiddenError(t *testing.T) {
	assert.Equal(t, `operation "reply" forbidden: question is locked`,
		NewForbiddenError("reply", "question is locked").Error())
	assert.Equal(t, `operation "wipe" forbidden`, NewForbiddenError("wipe", "").Error())
}

func TestUnavailableError(t *testing.T) {
	err := NewUnavailableError("sqlite", "database is locked")

	assert.Equal(t, `backend "sqlite" unavailable: database is locked`, err.Error())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, `backend "remote" unavailable`, NewUnavailableError("remote", "").Error())
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isFunc   func(error) bool
		expected bool
	}{
		{"IsNotFound typed", NewNotFoundError(EntityQuestion, "1"), IsNotFound, true},
		{"IsNotFound wrapped", fmt.Errorf("load: %w", ErrNotFound), IsNotFound, true},
		{"IsNotFound other", ErrForbidden, IsNotFound, false},
		{"IsNotFound nil", nil, IsNotFound, false},

		{"IsValidation typed", NewValidationError("content", "empty"), IsValidation, true},
		{"IsValidation other", ErrNotFound, IsValidation, false},

		{"IsForbidden typed", NewForbiddenError("reply", "locked"), IsForbidden, true},
		{"IsForbidden wrapped", fmt.Errorf("x: %w", ErrForbidden), IsForbidden, true},
		{"IsForbidden nil", nil, IsForbidden, false},

		{"IsUnavailable typed", NewUnavailableError("postgres", "down"), IsUnavailable, true},
		{"IsUnavailable other", ErrValidation, IsUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.isFunc(tt.err))
		})
	}
}

func TestErrorWrappingChain(t *testing.T) {
	original := NewNotFoundError(EntityReply, "r-1")
	wrapped := fmt.Errorf("create reply: %w", fmt.Errorf("parent: %w", original))

	assert.True(t, IsNotFound(wrapped))

	var notFound *NotFoundError
	require.ErrorAs(t, wrapped, &notFound)
	assert.Equal(t, "r-1", notFound.ID)
}
