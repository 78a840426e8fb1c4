package domain

// Question is a post on the board. Field tags match the persisted layout.
type Question struct {
	// ID is an opaque unique identifier (UUID v4).
	ID string `json:"id"`

	Author  string `json:"author"`
	Content string `json:"content"`

	// Timestamp is the creation time in milliseconds since the Unix epoch.
	Timestamp int64 `json:"timestamp"`

	// Upvotes is never negative. Upvoted is the viewer's toggle flag and
	// moves together with Upvotes.
	Upvotes int  `json:"upvotes"`
	Upvoted bool `json:"upvoted"`

	IsPinned bool `json:"isPinned"`
	IsLocked bool `json:"isLocked"`

	// Tags holds normalized tag names without duplicates.
	Tags []string `json:"tags"`
}

// ToggleUpvote flips the viewer's vote and moves the count by one.
func (q *Question) ToggleUpvote() {
	q.Upvotes, q.Upvoted = toggle(q.Upvotes, q.Upvoted)
}

// Clone returns a copy that shares no slices with q.
func (q Question) Clone() Question {
	if q.Tags != nil {
		q.Tags = append([]string(nil), q.Tags...)
	}

	return q
}

func toggle(count int, voted bool) (int, bool) {
	if voted {
		if count > 0 {
			count--
		}

		return count, false
	}

	return count + 1, true
}
