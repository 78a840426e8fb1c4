package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/campus-qa/internal/adapters/storage/memory"
	"github.com/jsamuelsen/campus-qa/internal/domain"
	"github.com/jsamuelsen/campus-qa/internal/moderation"
)

func persistedWords(t *testing.T, blobs *memory.Store) []string {
	t.Helper()

	data, err := blobs.Get(t.Context(), KeyBannedWords)
	require.NoError(t, err)

	var words []string
	require.NoError(t, json.Unmarshal(data, &words))

	return words
}

func TestBannedWords_Load(t *testing.T) {
	t.Run("nothing persisted keeps defaults", func(t *testing.T) {
		list := moderation.NewWordList(moderation.DefaultWords...)
		b := NewBannedWords(BannedWordsConfig{List: list, Blobs: memory.New()})

		require.NoError(t, b.Load(t.Context()))
		assert.Equal(t, moderation.DefaultWords, b.Words())
	})

	t.Run("persisted list replaces defaults", func(t *testing.T) {
		blobs := memory.New()
		require.NoError(t, blobs.Put(t.Context(), KeyBannedWords, []byte(`["Spoiler","meme"]`)))

		list := moderation.NewWordList(moderation.DefaultWords...)
		b := NewBannedWords(BannedWordsConfig{List: list, Blobs: blobs})

		require.NoError(t, b.Load(t.Context()))
		assert.Equal(t, []string{"spoiler", "meme"}, b.Words())
		assert.Equal(t, "no ******* please", list.Filter("no spoiler please"))
	})

	t.Run("backend error", func(t *testing.T) {
		b := NewBannedWords(BannedWordsConfig{List: moderation.NewWordList(), Blobs: &brokenBlobs{}})

		assert.ErrorIs(t, b.Load(t.Context()), errBackendDown)
	})
}

func TestBannedWords_Edits(t *testing.T) {
	blobs := memory.New()
	list := moderation.NewWordList("dumb")
	b := NewBannedWords(BannedWordsConfig{List: list, Blobs: blobs})

	assert.True(t, b.Add(t.Context(), "Gross"))
	assert.False(t, b.Add(t.Context(), "gross"))
	assert.False(t, b.Add(t.Context(), "  "))
	assert.Equal(t, []string{"dumb", "gross"}, persistedWords(t, blobs))

	assert.True(t, b.Remove(t.Context(), "DUMB"))
	assert.False(t, b.Remove(t.Context(), "dumb"))
	assert.Equal(t, []string{"gross"}, persistedWords(t, blobs))

	b.Sync(t.Context(), []string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, persistedWords(t, blobs))
	assert.Equal(t, []string{"a", "b"}, list.Words())
}

func TestBannedWords_EditsDoNotRefilter(t *testing.T) {
	blobs := memory.New()
	list := moderation.NewWordList()
	words := NewBannedWords(BannedWordsConfig{List: list, Blobs: blobs})

	s := NewContentStore(ContentStoreConfig{Blobs: blobs, Filter: list, StrictReplies: true})
	require.NoError(t, s.Init(t.Context()))

	before := s.CreateQuestion(t.Context(), "a", "spoiler ahead", nil)

	words.Add(t.Context(), "spoiler")
	after := s.CreateQuestion(t.Context(), "b", "spoiler ahead", nil)

	stored, ok := s.Question(before.ID)
	require.True(t, ok)
	assert.Equal(t, "spoiler ahead", stored.Content)
	assert.Equal(t, "******* ahead", after.Content)
}

func TestBannedWords_SaveFailureIsLogged(t *testing.T) {
	blobs := &flakyBlobs{Store: memory.New()}
	blobs.failing.Store(true)

	b := NewBannedWords(BannedWordsConfig{List: moderation.NewWordList(), Blobs: blobs})

	assert.True(t, b.Add(t.Context(), "word"), "the in-memory edit stands")
	assert.Equal(t, []string{"word"}, b.Words())

	_, err := blobs.Store.Get(t.Context(), KeyBannedWords)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
