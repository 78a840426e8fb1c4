package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/campus-qa/internal/domain"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Get(ctx, "campusqa_tags")
	require.ErrorIs(t, err, domain.ErrNotFound)

	value := []byte(`["exam"]`)
	require.NoError(t, s.Put(ctx, "campusqa_tags", value))
	value[0] = 'X'

	got, err := s.Get(ctx, "campusqa_tags")
	require.NoError(t, err)
	assert.JSONEq(t, `["exam"]`, string(got), "stored value must not alias the caller's slice")
	assert.Equal(t, []string{"campusqa_tags"}, s.Keys())

	require.NoError(t, s.Delete(ctx, "campusqa_tags"))
	require.NoError(t, s.Delete(ctx, "campusqa_tags"))

	_, err = s.Get(ctx, "campusqa_tags")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, New().Put(ctx, "k", nil), context.Canceled)
}
