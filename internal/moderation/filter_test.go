package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		words []string
		want  string
	}{
		{"whole word", "that is dumb", []string{"dumb"}, "that is ****"},
		{"substring untouched", "dumbest", []string{"dumb"}, "dumbest"},
		{"case insensitive", "DUMB and Dumb", []string{"dumb"}, "**** and ****"},
		{"punctuation boundary", "jerk! you jerk.", []string{"jerk"}, "****! you ****."},
		{"several words", "stupid crap", []string{"stupid", "crap"}, "****** ****"},
		{"regex metacharacters quoted", "a.b axb", []string{"a.b"}, "*** axb"},
		{"blank word ignored", "hello", []string{"  "}, "hello"},
		{"no words", "hello", nil, "hello"},
		{"uppercase word entry", "hell no", []string{"HELL"}, "**** no"},
		{"inside hyphenated word", "fat-free", []string{"fat"}, "***-free"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.text, tt.words))
		})
	}
}

func TestMask_DefaultWords(t *testing.T) {
	got := Mask("Don't be a loser, the class is hellish", DefaultWords)

	assert.Equal(t, "Don't be a *****, the class is hellish", got)
}

func BenchmarkMask_DefaultWords(b *testing.B) {
	text := "where is the hostel office? the warden is a jerk and the food is crap"

	for b.Loop() {
		Mask(text, DefaultWords)
	}
}

func BenchmarkWordList_Filter(b *testing.B) {
	list := NewWordList(DefaultWords...)
	text := "where is the hostel office? the warden is a jerk and the food is crap"

	for b.Loop() {
		list.Filter(text)
	}
}
