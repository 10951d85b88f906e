package ocr

import (
	"math"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

/*
AggregateWords filters the raw per-word detections with the confidence policy
and concatenates the survivors into a single text string.

A token is kept if and only if its confidence is at least minConfidence
(boundary inclusive) and its trimmed text is non-empty. A malformed record
(confidence outside any sane numeric range, i.e. NaN or infinite) is logged
and skipped at word granularity; the remaining detections keep processing.
Kept tokens are joined with single spaces in engine-returned order.
*/
func AggregateWords(detections []WordDetection, minConfidence float64) string {
	kept := make([]string, 0, len(detections))
	for index, detection := range detections {
		if math.IsNaN(detection.Confidence) || math.IsInf(detection.Confidence, 0) {
			tl.Log(
				tl.Warning, palette.YellowDim, "Skipping detection index '%d' due to malformed confidence value",
				index,
			)
			continue
		}

		trimmed := strings.TrimSpace(detection.Text)
		if detection.Confidence >= minConfidence && trimmed != "" {
			kept = append(kept, trimmed)
		}
	}

	tl.Log(
		tl.Info1, palette.Cyan, "Kept '%d' of '%d' detections with confidence >= %.0f",
		len(kept), len(detections), minConfidence,
	)

	return strings.TrimSpace(strings.Join(kept, " "))
}
