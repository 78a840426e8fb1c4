package domain

// Reply answers a question or another reply on the same question.
type Reply struct {
	ID         string `json:"id"`
	QuestionID string `json:"questionId"`

	// ParentReplyID is empty for top-level replies.
	ParentReplyID string `json:"parentReplyId,omitempty"`

	Author    string `json:"author"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
	Upvotes   int    `json:"upvotes"`
	Upvoted   bool   `json:"upvoted"`
}

// IsTopLevel reports whether the reply hangs directly off its question.
func (r *Reply) IsTopLevel() bool {
	return r.ParentReplyID == ""
}

// ToggleUpvote flips the viewer's vote and moves the count by one.
func (r *Reply) ToggleUpvote() {
	r.Upvotes, r.Upvoted = toggle(r.Upvotes, r.Upvoted)
}
