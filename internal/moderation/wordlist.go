package moderation

import (
	"regexp"
	"slices"
	"sync"
)

// WordList is the mutable banned-word configuration. It is safe for
// concurrent use and caches one compiled matcher per word.
type WordList struct {
	mu       sync.RWMutex
	words    []string
	patterns map[string]*regexp.Regexp
}

// NewWordList returns a list holding words, lowercased and deduplicated.
func NewWordList(words ...string) *WordList {
	l := &WordList{}
	l.Replace(words)

	return l
}

// Filter masks the current banned words in text.
func (l *WordList) Filter(text string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, w := range l.words {
		text = maskWith(l.patterns[w], text)
	}

	return text
}

// Add inserts word. It reports false when word is blank or already listed.
func (l *WordList) Add(word string) bool {
	word = normalizeWord(word)
	if word == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.patterns[word]; ok {
		return false
	}

	if l.patterns == nil {
		l.patterns = make(map[string]*regexp.Regexp)
	}

	l.words = append(l.words, word)
	l.patterns[word] = compile(word)

	return true
}

// Remove deletes word, reporting whether it was present.
func (l *WordList) Remove(word string) bool {
	word = normalizeWord(word)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.patterns[word]; !ok {
		return false
	}

	delete(l.patterns, word)
	l.words = slices.DeleteFunc(l.words, func(w string) bool { return w == word })

	return true
}

// Contains reports whether word is banned.
func (l *WordList) Contains(word string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.patterns[normalizeWord(word)]

	return ok
}

// Words returns a copy of the list in insertion order.
func (l *WordList) Words() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return slices.Clone(l.words)
}

// Len returns the number of banned words.
func (l *WordList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.words)
}

// Replace swaps the whole list.
func (l *WordList) Replace(words []string) {
	next := make([]string, 0, len(words))
	patterns := make(map[string]*regexp.Regexp, len(words))

	for _, w := range words {
		w = normalizeWord(w)
		if w == "" {
			continue
		}

		if _, dup := patterns[w]; dup {
			continue
		}

		next = append(next, w)
		patterns[w] = compile(w)
	}

	l.mu.Lock()
	l.words = next
	l.patterns = patterns
	l.mu.Unlock()
}
