package dto

import (
	"github.com/jsamuelsen/campus-qa/internal/app"
	"github.com/jsamuelsen/campus-qa/internal/domain"
)

// Field limits for user-supplied text. Struct tags cannot reference
// constants, so the validate tags below repeat these values;
// TestFieldLimitsMatchTags keeps the two in step.
const (
	MaxAuthorLength  = 80
	MaxContentLength = 5000
	MaxTags          = 10
	MaxTagLength     = 40
	MaxWordLength    = 64
)

// CreateQuestionRequest is the body of POST /questions.
type CreateQuestionRequest struct {
	Author  string   `json:"author"  validate:"required,notblank,max=80"`
	Content string   `json:"content" validate:"required,notblank,max=5000"`
	Tags    []string `json:"tags"    validate:"max=10,dive,tag,max=40"`
}

// UpdateQuestionRequest is the body of PUT /questions/:id. Omitted fields
// are kept.
type UpdateQuestionRequest struct {
	Author  *string  `json:"author"  validate:"omitempty,notblank,max=80"`
	Content *string  `json:"content" validate:"omitempty,notblank,max=5000"`
	Tags    []string `json:"tags"    validate:"omitempty,max=10,dive,tag,max=40"`
}

// Edit converts the request into a store edit.
func (r *UpdateQuestionRequest) Edit() app.QuestionEdit {
	return app.QuestionEdit{Author: r.Author, Content: r.Content, Tags: r.Tags}
}

// ListQuestionsQuery holds the query of GET /questions.
type ListQuestionsQuery struct {
	PaginationRequest

	Tags   []string `form:"tag"`
	Search string   `form:"q"    validate:"max=200"`
	Sort   string   `form:"sort" validate:"omitempty,oneof=recent trending"`
}

// Filter converts the query into a store filter.
func (q *ListQuestionsQuery) Filter() app.QuestionFilter {
	sort := app.SortOrder(q.Sort)
	if sort == "" {
		sort = app.SortRecent
	}

	return app.QuestionFilter{Tags: q.Tags, Search: q.Search, Sort: sort}
}

// QuestionResponse is a question with its reply count.
type QuestionResponse struct {
	domain.Question

	ReplyCount int `json:"replyCount"`
}

// CreateReplyRequest is the body of POST /questions/:id/replies.
type CreateReplyRequest struct {
	ParentReplyID string `json:"parentReplyId"`
	Author        string `json:"author"        validate:"required,notblank,max=80"`
	Content       string `json:"content"       validate:"required,notblank,max=5000"`
}

// ReplyResponse is a reply with its nesting depth (0 for top level).
type ReplyResponse struct {
	domain.Reply

	Depth int `json:"depth"`
}

// ListRepliesQuery holds the query of GET /questions/:id/replies.
type ListRepliesQuery struct {
	Parent string `form:"parent"`
}

// ReplyCountResponse is the body of GET /questions/:id/reply-count.
type ReplyCountResponse struct {
	QuestionID string `json:"questionId"`
	Count      int    `json:"count"`
}

// TagRequest is the body of POST /tags.
type TagRequest struct {
	Tag string `json:"tag" validate:"required,tag,max=40"`
}

// TagResponse reports the normalized tag and whether it was new.
type TagResponse struct {
	Tag   string `json:"tag"`
	Added bool   `json:"added"`
}

// TagsResponse is the tag registry.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// FlagRequest sets a boolean question flag (pin, lock).
type FlagRequest struct {
	Value *bool `json:"value" validate:"required"`
}

// BannedWordRequest is the body of POST /admin/banned-words.
type BannedWordRequest struct {
	Word string `json:"word" validate:"required,notblank,max=64"`
}

// BannedWordsResponse is the current banned-word list.
type BannedWordsResponse struct {
	Words []string `json:"words"`
}

// WordChangeResponse reports whether a list edit changed anything.
type WordChangeResponse struct {
	Word    string `json:"word"`
	Changed bool   `json:"changed"`
}

// StatsResponse summarizes the store.
type StatsResponse struct {
	app.Stats

	BannedWords int `json:"bannedWords"`
}
