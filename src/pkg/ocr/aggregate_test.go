package ocr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateWordsFiltersByConfidence(t *testing.T) {
	detections := []WordDetection{
		{Text: "Hello", Confidence: 90},
		{Text: "xz", Confidence: 20},
		{Text: "World", Confidence: 60},
	}

	assert.Equal(t, "Hello World", AggregateWords(detections, 35))
}

func TestAggregateWordsKeepsBoundaryConfidence(t *testing.T) {
	detections := []WordDetection{
		{Text: "exactly", Confidence: 35},
		{Text: "below", Confidence: 34.999},
	}

	assert.Equal(t, "exactly", AggregateWords(detections, 35))
}

func TestAggregateWordsSkipsMalformedConfidence(t *testing.T) {
	detections := []WordDetection{
		{Text: "first", Confidence: 80},
		{Text: "broken", Confidence: math.NaN()},
		{Text: "alsobroken", Confidence: math.Inf(1)},
		{Text: "last", Confidence: 70},
	}

	assert.Equal(t, "first last", AggregateWords(detections, 35))
}

func TestAggregateWordsDropsWhitespaceTokens(t *testing.T) {
	detections := []WordDetection{
		{Text: "  ", Confidence: 99},
		{Text: "\ttoken\n", Confidence: 99},
		{Text: "", Confidence: 99},
	}

	assert.Equal(t, "token", AggregateWords(detections, 35))
}

func TestAggregateWordsEmptyInput(t *testing.T) {
	assert.Equal(t, "", AggregateWords(nil, 35))
}
