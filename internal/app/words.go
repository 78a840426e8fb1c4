package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/campus-qa/internal/moderation"
	"github.com/jsamuelsen/campus-qa/internal/platform/logging"
	"github.com/jsamuelsen/campus-qa/internal/ports"
)

// BannedWordsConfig holds dependencies for BannedWords.
type BannedWordsConfig struct {
	List   *moderation.WordList
	Blobs  ports.BlobStore
	Logger *slog.Logger
}

// BannedWords manages the mutable banned-word list and keeps it persisted
// under KeyBannedWords. Edits affect future writes only.
type BannedWords struct {
	list   *moderation.WordList
	blobs  ports.BlobStore
	logger *slog.Logger
}

// NewBannedWords creates the service around an existing list.
func NewBannedWords(cfg BannedWordsConfig) *BannedWords {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &BannedWords{
		list:   cfg.List,
		blobs:  cfg.Blobs,
		logger: logger.With(slog.String("component", "app.BannedWords")),
	}
}

// Load replaces the list with the persisted one. With nothing persisted
// the current list (usually moderation.DefaultWords) is kept.
func (b *BannedWords) Load(ctx context.Context) error {
	words, found, err := loadCollection[string](ctx, b.blobs, KeyBannedWords, b.logger)
	if err != nil {
		return fmt.Errorf("loading banned words: %w", err)
	}

	if found {
		b.list.Replace(words)
	}

	return nil
}

// Words returns the current list.
func (b *BannedWords) Words() []string {
	return b.list.Words()
}

// Add bans word, reporting false when it was already banned or blank.
func (b *BannedWords) Add(ctx context.Context, word string) bool {
	if !b.list.Add(word) {
		return false
	}

	b.save(ctx)

	return true
}

// Remove unbans word, reporting whether it was banned.
func (b *BannedWords) Remove(ctx context.Context, word string) bool {
	if !b.list.Remove(word) {
		return false
	}

	b.save(ctx)

	return true
}

// Sync persists words after an external reload, e.g. from the words file.
func (b *BannedWords) Sync(ctx context.Context, words []string) {
	b.list.Replace(words)
	b.save(ctx)
}

func (b *BannedWords) save(ctx context.Context) {
	logger := logging.FromContextOr(ctx, b.logger)

	data, err := encodeJSON(b.list.Words())
	if err == nil {
		err = b.blobs.Put(context.WithoutCancel(ctx), KeyBannedWords, data)
	}

	if err != nil {
		logger.WarnContext(ctx, "persisting banned words failed", slog.Any("error", err))
	}
}
