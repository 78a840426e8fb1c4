package domain

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultTags seeds an empty tag registry.
var DefaultTags = []string{"hostel", "exam", "fees", "club", "faculty", "placement", "events", "food"}

// NormalizeTag converts user input into registry form: NFC, lowercase,
// whitespace runs collapsed into a single hyphen. Returns "" for blank input.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(norm.NFC.String(tag))
	if tag == "" {
		return ""
	}

	fields := strings.FieldsFunc(strings.ToLower(tag), unicode.IsSpace)

	return strings.Join(fields, "-")
}

// NormalizeTags normalizes each tag, dropping blanks and duplicates while
// keeping first-seen order. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" {
			continue
		}

		if _, dup := seen[n]; dup {
			continue
		}

		seen[n] = struct{}{}
		out = append(out, n)
	}

	return out
}

// MergeTags appends the tags missing from registry, preserving the order of
// existing entries. Both inputs are expected to be normalized.
func MergeTags(registry, tags []string) []string {
	for _, t := range tags {
		if !slices.Contains(registry, t) {
			registry = append(registry, t)
		}
	}

	return registry
}

// HasAnyTag reports whether q carries at least one of tags.
func (q *Question) HasAnyTag(tags []string) bool {
	for _, t := range tags {
		if slices.Contains(q.Tags, t) {
			return true
		}
	}

	return false
}
