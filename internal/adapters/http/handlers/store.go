package handlers

import (
	"context"

	"github.com/jsamuelsen/campus-qa/internal/app"
	"github.com/jsamuelsen/campus-qa/internal/domain"
)

// ContentStore is the part of app.ContentStore the handlers use.
type ContentStore interface {
	CreateQuestion(ctx context.Context, author, content string, tags []string) domain.Question
	EditQuestion(ctx context.Context, id string, edit app.QuestionEdit) (domain.Question, bool)
	SetPinned(ctx context.Context, id string, pinned bool) (domain.Question, bool)
	SetLocked(ctx context.Context, id string, locked bool) (domain.Question, bool)
	UpvoteQuestion(ctx context.Context, id string) (domain.Question, bool)
	UpvoteReply(ctx context.Context, id string) (domain.Reply, bool)
	CreateReply(ctx context.Context, in app.NewReply) (domain.Reply, error)
	AddTag(ctx context.Context, tag string) (string, bool)
	ClearAll(ctx context.Context)

	Question(id string) (domain.Question, bool)
	ListQuestions(f app.QuestionFilter) []domain.Question
	RepliesFor(questionID, parentReplyID string) []domain.Reply
	ReplyCount(questionID string) int
	ReplyDepth(id string) (int, bool)
	Tags() []string
	Stats() app.Stats
}

// WordStore is the part of app.BannedWords the admin handlers use.
type WordStore interface {
	Words() []string
	Add(ctx context.Context, word string) bool
	Remove(ctx context.Context, word string) bool
}

var (
	_ ContentStore = (*app.ContentStore)(nil)
	_ WordStore    = (*app.BannedWords)(nil)
)
