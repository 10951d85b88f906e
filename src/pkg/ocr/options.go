package ocr

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

// BlurType selects the optional smoothing filter applied before binarization.
type BlurType string

const (
	BlurNone     BlurType = "None"
	BlurGaussian BlurType = "Gaussian"
	BlurMedian   BlurType = "Median"
)

/*
RecognitionOptions is the immutable configuration consumed by the whole
recognition pipeline: engine settings (language, page segmentation mode,
engine mode, optional tessdata directory) plus the preprocessing toggles.

The tunables at the bottom (MinConfidence, AdaptiveBlockSize, AdaptiveBias)
are exposed as configuration with calibrated defaults rather than buried
constants. Build a value with DefaultOptions() and override what you need,
then Validate() before use.
*/
type RecognitionOptions struct {
	Language        string   `json:"language,omitempty"`
	PageSegMode     int      `json:"page_segmentation_mode"`
	EngineMode      int      `json:"engine_mode"`
	TessdataDir     string   `json:"tessdata_dir,omitempty"`
	ApplyDeskew     bool     `json:"apply_deskew"`
	ApplyCLAHE      bool     `json:"apply_clahe"`
	ApplySpellcheck bool     `json:"apply_spellcheck"`
	BlurType        BlurType `json:"blur_type,omitempty"`

	// MinConfidence is the inclusive per-word confidence cutoff (0-100).
	MinConfidence float64 `json:"min_confidence"`
	// AdaptiveBlockSize is the odd neighborhood size for adaptive thresholding.
	AdaptiveBlockSize int `json:"adaptive_block_size"`
	// AdaptiveBias is subtracted from the local weighted mean.
	AdaptiveBias float64 `json:"adaptive_bias"`
}

/*
DefaultOptions returns the calibrated defaults: English, fully automatic page
segmentation (PSM 3), default engine mode (OEM 3), all enhancement stages
enabled, Gaussian blur, confidence cutoff 35, adaptive threshold 11/4.
*/
func DefaultOptions() RecognitionOptions {
	return RecognitionOptions{
		Language:          "eng",
		PageSegMode:       3,
		EngineMode:        3,
		ApplyDeskew:       true,
		ApplyCLAHE:        true,
		ApplySpellcheck:   true,
		BlurType:          BlurGaussian,
		MinConfidence:     35,
		AdaptiveBlockSize: 11,
		AdaptiveBias:      4,
	}
}

/*
Validate checks the enum-like fields. PageSegMode must be 0-13, EngineMode
0-3, Language non-empty, AdaptiveBlockSize an odd value of at least 3.

An unknown BlurType is deliberately NOT an error here: the blur stage treats
it as BlurNone with a logged warning.
*/
func (options RecognitionOptions) Validate() error {
	if options.Language == "" {
		return fmt.Errorf("language must not be empty")
	}
	if options.PageSegMode < 0 || options.PageSegMode > 13 {
		return fmt.Errorf("page_segmentation_mode %d out of range 0-13", options.PageSegMode)
	}
	if options.EngineMode < 0 || options.EngineMode > 3 {
		return fmt.Errorf("engine_mode %d out of range 0-3", options.EngineMode)
	}
	if options.AdaptiveBlockSize < 3 || options.AdaptiveBlockSize%2 == 0 {
		return fmt.Errorf("adaptive_block_size %d must be odd and >= 3", options.AdaptiveBlockSize)
	}
	if options.MinConfidence < 0 || options.MinConfidence > 100 {
		return fmt.Errorf("min_confidence %.1f out of range 0-100", options.MinConfidence)
	}
	return nil
}

/*
ParseBlurType maps a free-form string ("gaussian", "Median", ...) onto a
BlurType. Unknown values fall back to BlurNone with a logged warning, never
an error, so a bad settings value can not break a recognition run.
*/
func ParseBlurType(value string) BlurType {
	switch value {
	case string(BlurNone), "none", "":
		return BlurNone
	case string(BlurGaussian), "gaussian":
		return BlurGaussian
	case string(BlurMedian), "median":
		return BlurMedian
	default:
		tl.Log(tl.Warning, palette.YellowBold, "Unknown blur type '%s'. Falling back to '%s'", value, string(BlurNone))
		return BlurNone
	}
}
