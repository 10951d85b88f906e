package spell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDictionary struct {
	corrections map[string]string
	panics      bool
}

func (dictionary *fakeDictionary) Unknown(words []string) []string {
	if dictionary.panics {
		panic("dictionary exploded")
	}
	unknown := make([]string, 0)
	for _, word := range words {
		if _, exists := dictionary.corrections[word]; exists {
			unknown = append(unknown, word)
		}
	}
	return unknown
}

func (dictionary *fakeDictionary) Correction(word string) string {
	if dictionary.panics {
		panic("dictionary exploded")
	}
	return dictionary.corrections[word]
}

func TestCorrectReplacesUnknownWords(t *testing.T) {
	dictionary := &fakeDictionary{corrections: map[string]string{
		"teh":  "the",
		"qick": "quick",
	}}

	outcome := Correct("Teh qick brown fox", "eng", dictionary)
	assert.True(t, outcome.Applied)
	assert.Equal(t, "the quick brown fox", outcome.Text)
}

func TestCorrectReplacesEveryOccurrenceCaseInsensitively(t *testing.T) {
	dictionary := &fakeDictionary{corrections: map[string]string{
		"teh": "the",
	}}

	outcome := Correct("Teh start, teh middle and TEH end", "eng", dictionary)
	assert.True(t, outcome.Applied)
	assert.Equal(t, "the start, the middle and the end", outcome.Text)
}

func TestCorrectLeavesWholeWordBoundaries(t *testing.T) {
	dictionary := &fakeDictionary{corrections: map[string]string{
		"teh": "the",
	}}

	// "tehran" contains the misspelling but is its own word.
	outcome := Correct("teh tehran", "eng", dictionary)
	assert.Equal(t, "the tehran", outcome.Text)
}

func TestCorrectSkipsNonEnglish(t *testing.T) {
	dictionary := &fakeDictionary{corrections: map[string]string{
		"teh": "the",
	}}

	outcome := Correct("teh texto", "spa", dictionary)
	assert.False(t, outcome.Applied)
	assert.Equal(t, "teh texto", outcome.Text)
}

func TestCorrectWithAllKnownWords(t *testing.T) {
	dictionary := &fakeDictionary{corrections: map[string]string{}}

	outcome := Correct("every word is fine", "eng", dictionary)
	assert.False(t, outcome.Applied)
	assert.Equal(t, "every word is fine", outcome.Text)
}

func TestCorrectRecoversFromPanickingDictionary(t *testing.T) {
	dictionary := &fakeDictionary{panics: true}

	outcome := Correct("some text", "eng", dictionary)
	assert.False(t, outcome.Applied)
	assert.Equal(t, "some text", outcome.Text)
}

func TestCorrectEmptyText(t *testing.T) {
	dictionary := &fakeDictionary{corrections: map[string]string{}}

	outcome := Correct("", "eng", dictionary)
	assert.False(t, outcome.Applied)
	assert.Equal(t, "", outcome.Text)
}

func TestDefaultDictionaryKnowsCommonMisspellings(t *testing.T) {
	dictionary := DefaultDictionary()
	require.NotNil(t, dictionary)

	unknown := dictionary.Unknown([]string{"acheive", "fox"})
	assert.Contains(t, unknown, "acheive")
	assert.NotContains(t, unknown, "fox")
	assert.Equal(t, "achieve", dictionary.Correction("acheive"))
}
