// Package spell applies dictionary-based spelling correction to recognized
// text. The dictionary itself is a narrow external collaborator; the default
// implementation is backed by the misspell corpus of common English
// misspellings.
package spell

import (
	"sync"

	"github.com/client9/misspell"
)

/*
Dictionary is the collaborator contract of the spelling stage: given a set
of lowercase tokens it reports the subset it does not recognize as valid
words, and for a single token it proposes the single best correction (or ""
when it has none).
*/
type Dictionary interface {
	Unknown(words []string) []string
	Correction(word string) string
}

var (
	defaultDictionaryOnce sync.Once
	defaultDictionary     Dictionary
)

// DefaultDictionary returns the shared misspell-backed dictionary. Building
// the replacer compiles its rule trie, so it is done once per process.
func DefaultDictionary() Dictionary {
	defaultDictionaryOnce.Do(func() {
		defaultDictionary = &misspellDictionary{replacer: misspell.New()}
	})
	return defaultDictionary
}

type misspellDictionary struct {
	replacer *misspell.Replacer
}

/*
Unknown reports the tokens the corpus flags as misspellings. Tokens the
corpus has no opinion on are treated as valid words: this dictionary only
covers well-known English misspellings, which keeps the stage conservative.
*/
func (dictionary *misspellDictionary) Unknown(words []string) []string {
	unknown := make([]string, 0)
	seen := make(map[string]bool, len(words))
	for _, word := range words {
		if seen[word] {
			continue
		}
		seen[word] = true
		if corrected, _ := dictionary.replacer.Replace(word); corrected != word {
			unknown = append(unknown, word)
		}
	}
	return unknown
}

// Correction returns the corpus correction for the word, or "" when the word
// is not a known misspelling.
func (dictionary *misspellDictionary) Correction(word string) string {
	corrected, _ := dictionary.replacer.Replace(word)
	if corrected == word {
		return ""
	}
	return corrected
}
