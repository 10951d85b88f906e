package spell

import (
	"regexp"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

// englishLanguageCode gates the stage: the dictionaries backing it only
// cover English.
const englishLanguageCode = "eng"

// wordTokenRegexp splits text into word-boundary tokens (alphanumeric runs).
var wordTokenRegexp = regexp.MustCompile(`\b\w+\b`)

/*
Outcome is the tagged result of a correction attempt. Applied tells the
caller whether Text differs from the input, making the best-effort contract
visible in the type instead of hiding it in a recover block.
*/
type Outcome struct {
	Text    string
	Applied bool
}

/*
Correct applies dictionary-based spelling correction to the text.

It only runs for English ("eng"); any other language code returns the input
unchanged. Tokens are the lowercased word-boundary runs of the text; the
dictionary reports the unknown subset, and every unknown token with a
differing best correction is replaced in ALL of its case-insensitive
whole-word occurrences across the whole text. A word misspelled twice is
corrected both times identically.

The stage is strictly best effort: any failure, including a panicking
dictionary collaborator, returns the original text unchanged.
*/
func Correct(text string, language string, dictionary Dictionary) (outcome Outcome) {
	outcome = Outcome{Text: text}

	if language != englishLanguageCode {
		tl.Log(tl.Info, palette.Cyan, "Skipping spell check: not available for language '%s'", language)
		return outcome
	}

	defer func() {
		if panicValue := recover(); panicValue != nil {
			tl.Log(tl.Warning, palette.YellowBold, "Spell check failed: '%v'. Returning text unchanged", panicValue)
			outcome = Outcome{Text: text}
		}
	}()

	words := wordTokenRegexp.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return outcome
	}

	unknown := dictionary.Unknown(words)
	tl.Log(tl.Info, palette.Cyan, "Spell check found '%d' potentially unknown words", len(unknown))

	corrected := text
	for _, word := range unknown {
		correction := dictionary.Correction(word)
		if correction == "" || correction == word {
			continue
		}
		tl.Log(tl.Detailed, palette.CyanDim, "Correcting '%s' -> '%s'", word, correction)
		wholeWord := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		corrected = wholeWord.ReplaceAllString(corrected, correction)
	}

	outcome = Outcome{Text: corrected, Applied: corrected != text}
	return outcome
}
