package moderation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordList_AddRemove(t *testing.T) {
	list := NewWordList("damn")

	assert.True(t, list.Add("Jerk"))
	assert.False(t, list.Add("jerk"), "duplicate")
	assert.False(t, list.Add(" "), "blank")
	assert.Equal(t, []string{"damn", "jerk"}, list.Words())

	assert.Equal(t, "**** ****", list.Filter("damn jerk"))

	assert.True(t, list.Remove("DAMN"))
	assert.False(t, list.Remove("damn"))
	assert.Equal(t, "damn ****", list.Filter("damn jerk"))
	assert.False(t, list.Contains("damn"))
	assert.True(t, list.Contains("jerk"))
}

func TestWordList_Replace(t *testing.T) {
	list := NewWordList(DefaultWords...)

	list.Replace([]string{"exam", "Exam", ""})

	assert.Equal(t, []string{"exam"}, list.Words())
	assert.Equal(t, 1, list.Len())
	assert.Equal(t, "stupid ****", list.Filter("stupid exam"))
}

func TestWordList_WordsIsACopy(t *testing.T) {
	list := NewWordList("crap")

	words := list.Words()
	words[0] = "changed"

	assert.Equal(t, []string{"crap"}, list.Words())
}

func TestWordList_ConcurrentUse(t *testing.T) {
	list := NewWordList(DefaultWords...)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			list.Add("extra")
			list.Remove("extra")
		}()

		go func() {
			defer wg.Done()
			_ = list.Filter("you moron")
		}()
	}

	wg.Wait()
	assert.Equal(t, "you *****", list.Filter("you moron"))
}
