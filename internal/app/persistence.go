package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/campus-qa/internal/domain"
	"github.com/jsamuelsen/campus-qa/internal/ports"
)

// Storage keys of the persisted collections.
const (
	KeyQuestions   = "campusqa_questions"
	KeyReplies     = "campusqa_replies"
	KeyTags        = "campusqa_tags"
	KeyBannedWords = "campusqa_profanity_list"
)

// CollectionKeys lists the keys owned by the content store.
var CollectionKeys = []string{KeyQuestions, KeyReplies, KeyTags}

// blob is one encoded collection ready to be written. seq orders snapshots
// of the same key; a higher seq holds newer state.
type blob struct {
	key  string
	data []byte
	seq  uint64
}

// encodeJSON marshals a collection, writing nil slices as empty arrays.
func encodeJSON[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}

	return json.Marshal(items)
}

// loadCollection reads and decodes key. A missing key reports found=false.
// A blob that does not decode is logged and treated as an empty collection.
// Backend failures are returned.
func loadCollection[T any](
	ctx context.Context,
	blobs ports.BlobStore,
	key string,
	logger *slog.Logger,
) (items []T, found bool, err error) {
	data, err := blobs.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}

	if err := json.Unmarshal(data, &items); err != nil {
		logger.WarnContext(ctx, "discarding unreadable collection",
			slog.String("key", key),
			slog.Any("error", err),
		)

		return []T{}, true, nil
	}

	return items, true, nil
}

// writeBlobs stores every blob, attempting all of them even when some fail.
func writeBlobs(ctx context.Context, blobs ports.BlobStore, items []blob) error {
	return EachPartial(ctx, items, func(ctx context.Context, b blob) error {
		if err := blobs.Put(ctx, b.key, b.data); err != nil {
			return fmt.Errorf("writing %s: %w", b.key, err)
		}

		return nil
	})
}
