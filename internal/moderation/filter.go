// Package moderation masks banned words in user-submitted text.
//
// Masking happens once, when content is written. Changing the word list
// affects later writes only; stored text is never re-scanned.
package moderation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaskChar replaces every character of a banned word.
const MaskChar = "*"

// DefaultWords is the list a fresh installation starts with.
var DefaultWords = []string{
	"profanity", "offensive", "inappropriate", "damn", "hell", "shit", "fuck",
	"asshole", "bitch", "bastard", "cunt", "dick", "pussy", "slut", "whore",
	"piss", "cock", "bullshit", "ass", "crap", "idiot", "stupid", "dumb",
	"retard", "moron", "jerk", "loser", "fat",
}

// Mask replaces each case-insensitive whole-word occurrence of words in text
// with a run of MaskChar of the same length. Words embedded in longer words
// are left alone.
func Mask(text string, words []string) string {
	for _, w := range words {
		re := compile(w)
		if re == nil {
			continue
		}

		text = maskWith(re, text)
	}

	return text
}

// compile builds the whole-word matcher for word, or nil for a blank word.
func compile(word string) *regexp.Regexp {
	word = normalizeWord(word)
	if word == "" {
		return nil
	}

	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
}

func maskWith(re *regexp.Regexp, text string) string {
	return re.ReplaceAllStringFunc(text, func(match string) string {
		return strings.Repeat(MaskChar, utf8.RuneCountInString(match))
	})
}

func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
