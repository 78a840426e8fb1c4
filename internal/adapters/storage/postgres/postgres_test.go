package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/campus-qa/internal/domain"
)

// Set CAMPUSQA_TEST_POSTGRES_DSN to run against a live database.
func TestStore_RoundTrip(t *testing.T) {
	dsn := os.Getenv("CAMPUSQA_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CAMPUSQA_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()

	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	key := "campusqa_test_" + t.Name()
	t.Cleanup(func() { _ = s.Delete(context.Background(), key) })

	require.NoError(t, s.Put(ctx, key, []byte(`["exam"]`)))
	require.NoError(t, s.Put(ctx, key, []byte(`["fees"]`)))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `["fees"]`, string(got))

	require.NoError(t, s.Delete(ctx, key))

	_, err = s.Get(ctx, key)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, s.Check(ctx))
}

func TestOpen_BadDSN(t *testing.T) {
	_, err := Open(context.Background(), "postgres://%zz")
	require.Error(t, err)
}
