// Package app holds the content store: the owned in-memory state of
// questions, replies and tags, the mutations applied to it, and the save
// step that follows every successful mutation.
//
// The store talks to storage only through ports.BlobStore, so the backend
// (file, SQLite, PostgreSQL, remote) is chosen by the caller.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/campus-qa/internal/domain"
	"github.com/jsamuelsen/campus-qa/internal/platform/logging"
	"github.com/jsamuelsen/campus-qa/internal/platform/telemetry"
	"github.com/jsamuelsen/campus-qa/internal/ports"
)

// TextFilter masks banned words in free text. *moderation.WordList
// satisfies it.
type TextFilter interface {
	Filter(text string) string
}

// ContentStoreConfig holds dependencies for a ContentStore.
type ContentStoreConfig struct {
	// Blobs is the persistence backend. Required.
	Blobs ports.BlobStore

	// Filter is applied to question and reply content on write.
	// Nil stores text unchanged.
	Filter TextFilter

	// StrictReplies rejects replies whose question or parent is unknown.
	StrictReplies bool

	Metrics *telemetry.StoreMetrics
	Logger  *slog.Logger

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// ContentStore owns questions, replies and the tag registry. It is safe for
// concurrent use. Collections are kept newest first.
type ContentStore struct {
	blobs   ports.BlobStore
	filter  TextFilter
	strict  bool
	metrics *telemetry.StoreMetrics
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	mu        sync.RWMutex
	questions []domain.Question
	replies   []domain.Reply
	tags      []string

	// version stamps every encoded snapshot.
	version atomic.Uint64

	// persistMu serializes backend writes. written holds the newest seq
	// stored per key so an older snapshot never lands after a newer one.
	persistMu sync.Mutex
	written   map[string]uint64
}

// NewContentStore creates an empty store. Call Init to load persisted state.
func NewContentStore(cfg ContentStoreConfig) *ContentStore {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	newID := cfg.NewID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}

	return &ContentStore{
		blobs:   cfg.Blobs,
		filter:  cfg.Filter,
		strict:  cfg.StrictReplies,
		metrics: cfg.Metrics,
		logger:  logger.With(slog.String("component", "app.ContentStore")),
		now:     now,
		newID:   newID,
		tags:    slices.Clone(domain.DefaultTags),
		written: make(map[string]uint64, len(CollectionKeys)),
	}
}

// Init replaces the in-memory state with the persisted collections.
// Missing keys start empty (the tag registry starts with the default tags);
// unreadable blobs are logged and start empty. Only backend failures are
// returned.
func (s *ContentStore) Init(ctx context.Context) error {
	logger := s.log(ctx)

	questions, replies, tags, err := Parallel3(ctx,
		func(ctx context.Context) ([]domain.Question, error) {
			items, _, err := loadCollection[domain.Question](ctx, s.blobs, KeyQuestions, logger)
			return items, err
		},
		func(ctx context.Context) ([]domain.Reply, error) {
			items, _, err := loadCollection[domain.Reply](ctx, s.blobs, KeyReplies, logger)
			return items, err
		},
		func(ctx context.Context) ([]string, error) {
			items, found, err := loadCollection[string](ctx, s.blobs, KeyTags, logger)
			if err == nil && !found {
				items = slices.Clone(domain.DefaultTags)
			}

			return items, err
		},
	)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	s.mu.Lock()
	s.questions = nonNil(questions)
	s.replies = nonNil(replies)
	s.tags = nonNil(tags)
	s.mu.Unlock()

	logger.InfoContext(ctx, "content loaded",
		slog.Int("questions", len(questions)),
		slog.Int("replies", len(replies)),
		slog.Int("tags", len(tags)),
	)

	return nil
}

// Flush writes all three collections and returns any backend error.
// Mutations already save on their own; Flush is for shutdown and tools.
func (s *ContentStore) Flush(ctx context.Context) error {
	s.mu.RLock()
	blobs, err := s.encodeLocked(CollectionKeys)
	s.mu.RUnlock()

	if err != nil {
		return err
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := writeBlobs(ctx, s.blobs, s.dropStaleLocked(blobs)); err != nil {
		return fmt.Errorf("flushing content: %w", err)
	}

	return nil
}

// CreateQuestion filters content, prepends a new question and merges its
// tags into the registry. Input is not validated here.
func (s *ContentStore) CreateQuestion(ctx context.Context, author, content string, tags []string) domain.Question {
	var created domain.Question

	_ = s.mutate(ctx, "create_question", func() ([]string, error) {
		created = domain.Question{
			ID:        s.newID(),
			Author:    author,
			Content:   s.mask(content),
			Timestamp: s.now().UnixMilli(),
			Tags:      domain.NormalizeTags(tags),
		}

		s.questions = slices.Insert(s.questions, 0, created)

		return s.withTags([]string{KeyQuestions}, created.Tags), nil
	})

	return created.Clone()
}

// UpdateQuestion replaces the stored question with the same ID, keeping its
// position. Content is filtered again and new tags are merged. It reports
// false, changing nothing, when no question has that ID.
func (s *ContentStore) UpdateQuestion(ctx context.Context, q domain.Question) bool {
	found := false

	_ = s.mutate(ctx, "update_question", func() ([]string, error) {
		i := s.questionIndex(q.ID)
		if i < 0 {
			return nil, nil
		}

		found = true
		q = q.Clone()
		q.Content = s.mask(q.Content)

		return s.replaceQuestionLocked(i, q), nil
	})

	return found
}

// QuestionEdit lists the fields to change; nil fields are kept.
type QuestionEdit struct {
	Author  *string
	Content *string
	Tags    []string
	Pinned  *bool
	Locked  *bool
}

// EditQuestion applies edit to the current record and stores it the way
// UpdateQuestion does, under one lock. Only new content is filtered; an
// edit that leaves content alone never re-masks it.
func (s *ContentStore) EditQuestion(ctx context.Context, id string, edit QuestionEdit) (domain.Question, bool) {
	var (
		updated domain.Question
		found   bool
	)

	_ = s.mutate(ctx, "update_question", func() ([]string, error) {
		i := s.questionIndex(id)
		if i < 0 {
			return nil, nil
		}

		found = true
		q := s.questions[i].Clone()

		if edit.Author != nil {
			q.Author = *edit.Author
		}

		if edit.Content != nil {
			q.Content = s.mask(*edit.Content)
		}

		if edit.Tags != nil {
			q.Tags = edit.Tags
		}

		if edit.Pinned != nil {
			q.IsPinned = *edit.Pinned
		}

		if edit.Locked != nil {
			q.IsLocked = *edit.Locked
		}

		keys := s.replaceQuestionLocked(i, q)
		updated = s.questions[i]

		return keys, nil
	})

	return updated.Clone(), found
}

// replaceQuestionLocked normalizes the tags of q, stores it at index i and
// merges its tags into the registry. Caller holds mu and has filtered any
// new content.
func (s *ContentStore) replaceQuestionLocked(i int, q domain.Question) []string {
	q.Tags = domain.NormalizeTags(q.Tags)
	s.questions[i] = q

	return s.withTags([]string{KeyQuestions}, q.Tags)
}

// SetPinned pins or unpins a question.
func (s *ContentStore) SetPinned(ctx context.Context, id string, pinned bool) (domain.Question, bool) {
	return s.EditQuestion(ctx, id, QuestionEdit{Pinned: &pinned})
}

// SetLocked locks or unlocks a question. Locked questions accept no replies.
func (s *ContentStore) SetLocked(ctx context.Context, id string, locked bool) (domain.Question, bool) {
	return s.EditQuestion(ctx, id, QuestionEdit{Locked: &locked})
}

// UpvoteQuestion toggles the viewer's vote on a question. Unknown IDs are
// a no-op reported as false.
func (s *ContentStore) UpvoteQuestion(ctx context.Context, id string) (domain.Question, bool) {
	var (
		updated domain.Question
		found   bool
	)

	_ = s.mutate(ctx, "upvote_question", func() ([]string, error) {
		i := s.questionIndex(id)
		if i < 0 {
			return nil, nil
		}

		found = true
		s.questions[i].ToggleUpvote()
		updated = s.questions[i].Clone()

		return []string{KeyQuestions}, nil
	})

	return updated, found
}

// UpvoteReply toggles the viewer's vote on a reply.
func (s *ContentStore) UpvoteReply(ctx context.Context, id string) (domain.Reply, bool) {
	var (
		updated domain.Reply
		found   bool
	)

	_ = s.mutate(ctx, "upvote_reply", func() ([]string, error) {
		i := s.replyIndex(id)
		if i < 0 {
			return nil, nil
		}

		found = true
		s.replies[i].ToggleUpvote()
		updated = s.replies[i]

		return []string{KeyReplies}, nil
	})

	return updated, found
}

// NewReply is the input of CreateReply.
type NewReply struct {
	QuestionID    string
	ParentReplyID string
	Author        string
	Content       string
}

// CreateReply filters content and prepends a new reply.
//
// With strict replies enabled it returns a NotFoundError for an unknown
// question or parent and a ValidationError when the parent belongs to a
// different question. Replying to a locked question is always forbidden.
func (s *ContentStore) CreateReply(ctx context.Context, in NewReply) (domain.Reply, error) {
	var created domain.Reply

	err := s.mutate(ctx, "create_reply", func() ([]string, error) {
		if err := s.checkReplyTarget(in); err != nil {
			return nil, err
		}

		created = domain.Reply{
			ID:            s.newID(),
			QuestionID:    in.QuestionID,
			ParentReplyID: in.ParentReplyID,
			Author:        in.Author,
			Content:       s.mask(in.Content),
			Timestamp:     s.now().UnixMilli(),
		}

		s.replies = slices.Insert(s.replies, 0, created)

		return []string{KeyReplies}, nil
	})
	if err != nil {
		return domain.Reply{}, fmt.Errorf("creating reply: %w", err)
	}

	return created, nil
}

func (s *ContentStore) checkReplyTarget(in NewReply) error {
	qi := s.questionIndex(in.QuestionID)
	if qi < 0 {
		if s.strict {
			return domain.NewNotFoundError(domain.EntityQuestion, in.QuestionID)
		}

		return nil
	}

	if s.questions[qi].IsLocked {
		return domain.NewForbiddenError("reply", "question is locked")
	}

	if in.ParentReplyID == "" || !s.strict {
		return nil
	}

	pi := s.replyIndex(in.ParentReplyID)
	if pi < 0 {
		return domain.NewNotFoundError(domain.EntityReply, in.ParentReplyID)
	}

	if s.replies[pi].QuestionID != in.QuestionID {
		return domain.NewValidationErrorWithValue("parentReplyId",
			"parent reply belongs to another question", in.ParentReplyID)
	}

	return nil
}

// AddTag normalizes tag and appends it to the registry when absent.
// It returns the normalized tag and whether the registry changed.
func (s *ContentStore) AddTag(ctx context.Context, tag string) (string, bool) {
	tag = domain.NormalizeTag(tag)
	if tag == "" {
		return "", false
	}

	added := false

	_ = s.mutate(ctx, "add_tag", func() ([]string, error) {
		if slices.Contains(s.tags, tag) {
			return nil, nil
		}

		added = true
		s.tags = append(s.tags, tag)

		return []string{KeyTags}, nil
	})

	return tag, added
}

// ClearAll empties questions, replies and tags. It cannot be undone.
func (s *ContentStore) ClearAll(ctx context.Context) {
	_ = s.mutate(ctx, "clear_all", func() ([]string, error) {
		s.questions = []domain.Question{}
		s.replies = []domain.Reply{}
		s.tags = []string{}

		return CollectionKeys, nil
	})

	s.log(ctx).WarnContext(ctx, "all content cleared")
}

// mutate runs apply under the write lock and, when apply reports changed
// keys, saves those collections after releasing it. Readers never wait on
// the backend. Save failures are logged and dropped so the in-memory change
// stands.
func (s *ContentStore) mutate(ctx context.Context, op string, apply func() ([]string, error)) error {
	s.mu.Lock()

	keys, err := apply()
	if err != nil || len(keys) == 0 {
		s.mu.Unlock()
		return err
	}

	blobs, encErr := s.encodeLocked(keys)
	s.mu.Unlock()

	s.metrics.RecordMutation(ctx, op)

	if encErr != nil {
		s.log(ctx).ErrorContext(ctx, "encoding collections", slog.String("op", op), slog.Any("error", encErr))
		return nil
	}

	s.persist(context.WithoutCancel(ctx), op, blobs)

	return nil
}

func (s *ContentStore) persist(ctx context.Context, op string, blobs []blob) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	blobs = s.dropStaleLocked(blobs)
	if len(blobs) == 0 {
		return
	}

	start := s.now()
	err := writeBlobs(ctx, s.blobs, blobs)
	s.metrics.RecordPersist(ctx, s.now().Sub(start), err)

	if err != nil {
		s.log(ctx).WarnContext(ctx, "persisting content failed, change kept in memory only",
			slog.String("op", op),
			slog.Any("error", err),
		)
	}
}

// dropStaleLocked removes blobs older than the last one written for their
// key and records the rest as written. Caller holds persistMu.
func (s *ContentStore) dropStaleLocked(blobs []blob) []blob {
	fresh := blobs[:0:0]

	for _, b := range blobs {
		if b.seq <= s.written[b.key] {
			continue
		}

		s.written[b.key] = b.seq
		fresh = append(fresh, b)
	}

	return fresh
}

// encodeLocked snapshots keys under a fresh seq. Caller holds mu, for
// reading at least; mutations hold it for writing so seq follows state.
func (s *ContentStore) encodeLocked(keys []string) ([]blob, error) {
	seq := s.version.Add(1)
	out := make([]blob, 0, len(keys))

	for _, key := range keys {
		var (
			data []byte
			err  error
		)

		switch key {
		case KeyQuestions:
			data, err = encodeJSON(s.questions)
		case KeyReplies:
			data, err = encodeJSON(s.replies)
		case KeyTags:
			data, err = encodeJSON(s.tags)
		default:
			err = fmt.Errorf("unknown collection %q", key)
		}

		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}

		out = append(out, blob{key: key, data: data, seq: seq})
	}

	return out, nil
}

// withTags merges tags into the registry and adds KeyTags to keys when
// the registry grew. Caller holds mu.
func (s *ContentStore) withTags(keys, tags []string) []string {
	before := len(s.tags)
	s.tags = domain.MergeTags(s.tags, tags)

	if len(s.tags) != before {
		keys = append(keys, KeyTags)
	}

	return keys
}

func (s *ContentStore) mask(text string) string {
	if s.filter == nil {
		return text
	}

	return s.filter.Filter(text)
}

func (s *ContentStore) questionIndex(id string) int {
	return slices.IndexFunc(s.questions, func(q domain.Question) bool { return q.ID == id })
}

func (s *ContentStore) replyIndex(id string) int {
	return slices.IndexFunc(s.replies, func(r domain.Reply) bool { return r.ID == id })
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}

func (s *ContentStore) log(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}
