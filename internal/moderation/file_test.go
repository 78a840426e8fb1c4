package moderation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.yaml")

	require.NoError(t, SaveFile(path, []string{"damn", "jerk"}))

	words, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"damn", "jerk"}, words)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("words: [unclosed"), 0o600))

	_, err = LoadFile(bad)
	assert.ErrorContains(t, err, "parsing words file")
}
