package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/campus-qa/internal/domain"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	s, err := Open(dir)
	require.NoError(t, err)

	_, err = s.Get(ctx, "campusqa_questions")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Put(ctx, "campusqa_questions", []byte(`[]`)))
	require.NoError(t, s.Put(ctx, "campusqa_questions", []byte(`[{"id":"q1"}]`)))

	got, err := s.Get(ctx, "campusqa_questions")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"q1"}]`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	require.NoError(t, s.Delete(ctx, "campusqa_questions"))
	require.NoError(t, s.Delete(ctx, "campusqa_questions"))
}

func TestStore_RejectsPathKeys(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	err = s.Put(context.Background(), "../escape", []byte("x"))
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestStore_Check(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Check(context.Background()))
	assert.Equal(t, "storage.file", s.Name())

	require.NoError(t, os.RemoveAll(dir))
	require.ErrorIs(t, s.Check(context.Background()), domain.ErrUnavailable)
}
