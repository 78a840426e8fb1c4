package app

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jsamuelsen/campus-qa/internal/domain"
)

// SortOrder selects how ListQuestions orders unpinned and pinned groups.
type SortOrder string

const (
	// SortRecent orders by timestamp, newest first.
	SortRecent SortOrder = "recent"

	// SortTrending orders by upvotes plus age in days, highest first.
	SortTrending SortOrder = "trending"

	msPerDay = 24 * 60 * 60 * 1000
)

// QuestionFilter narrows ListQuestions.
type QuestionFilter struct {
	// Tags keeps questions carrying at least one of these tags.
	Tags []string

	// Search is matched case-insensitively against content and tags.
	Search string

	Sort SortOrder
}

// Stats summarizes collection sizes.
type Stats struct {
	Questions int `json:"questions"`
	Replies   int `json:"replies"`
	Tags      int `json:"tags"`
}

// Questions returns every question in stored order (newest first).
func (s *ContentStore) Questions() []domain.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Question, len(s.questions))
	for i, q := range s.questions {
		out[i] = q.Clone()
	}

	return out
}

// Question returns the question with id.
func (s *ContentStore) Question(id string) (domain.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.questionIndex(id)
	if i < 0 {
		return domain.Question{}, false
	}

	return s.questions[i].Clone(), true
}

// ListQuestions returns the questions matching f with pinned questions
// first. Within each group the order follows f.Sort; an empty Sort keeps
// stored order.
func (s *ContentStore) ListQuestions(f QuestionFilter) []domain.Question {
	tags := domain.NormalizeTags(f.Tags)
	search := strings.ToLower(strings.TrimSpace(f.Search))
	nowMs := s.now().UnixMilli()

	s.mu.RLock()

	out := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if len(tags) > 0 && !q.HasAnyTag(tags) {
			continue
		}

		if search != "" && !matchesSearch(q, search) {
			continue
		}

		out = append(out, q.Clone())
	}

	s.mu.RUnlock()

	switch f.Sort {
	case SortRecent:
		slices.SortStableFunc(out, func(a, b domain.Question) int {
			return cmp.Compare(b.Timestamp, a.Timestamp)
		})
	case SortTrending:
		slices.SortStableFunc(out, func(a, b domain.Question) int {
			return cmp.Compare(trendingScore(b, nowMs), trendingScore(a, nowMs))
		})
	}

	slices.SortStableFunc(out, func(a, b domain.Question) int {
		return pinRank(a) - pinRank(b)
	})

	return out
}

func pinRank(q domain.Question) int {
	if q.IsPinned {
		return 0
	}

	return 1
}

// trendingScore adds the age in days to the vote count, so older
// questions rank higher at equal votes.
func trendingScore(q domain.Question, nowMs int64) float64 {
	return float64(q.Upvotes) + float64(nowMs-q.Timestamp)/msPerDay
}

func matchesSearch(q domain.Question, needle string) bool {
	if strings.Contains(strings.ToLower(q.Content), needle) {
		return true
	}

	return slices.ContainsFunc(q.Tags, func(t string) bool { return strings.Contains(t, needle) })
}

// Replies returns every reply in stored order (newest first).
func (s *ContentStore) Replies() []domain.Reply {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.replies)
}

// Reply returns the reply with id.
func (s *ContentStore) Reply(id string) (domain.Reply, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.replyIndex(id)
	if i < 0 {
		return domain.Reply{}, false
	}

	return s.replies[i], true
}

// RepliesFor returns the replies of questionID whose parent is
// parentReplyID. An empty parentReplyID selects top-level replies.
func (s *ContentStore) RepliesFor(questionID, parentReplyID string) []domain.Reply {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Reply, 0)
	for _, r := range s.replies {
		if r.QuestionID == questionID && r.ParentReplyID == parentReplyID {
			out = append(out, r)
		}
	}

	return out
}

// ReplyCount counts the replies of questionID at every depth.
func (s *ContentStore) ReplyCount(questionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, r := range s.replies {
		if r.QuestionID == questionID {
			n++
		}
	}

	return n
}

// ReplyDepth returns how many ancestors the reply has; top-level replies
// have depth 0. A broken or cyclic parent chain stops at the last reply
// found.
func (s *ContentStore) ReplyDepth(id string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.replyIndex(id)
	if i < 0 {
		return 0, false
	}

	depth := 0
	seen := map[string]bool{id: true}

	for parent := s.replies[i].ParentReplyID; parent != "" && !seen[parent]; depth++ {
		seen[parent] = true

		pi := s.replyIndex(parent)
		if pi < 0 {
			break
		}

		parent = s.replies[pi].ParentReplyID
	}

	return depth, true
}

// Tags returns the tag registry in insertion order.
func (s *ContentStore) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.tags)
}

// Stats reports the size of each collection.
func (s *ContentStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{Questions: len(s.questions), Replies: len(s.replies), Tags: len(s.tags)}
}
