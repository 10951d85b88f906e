package ocr

import (
	"image"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"github.com/pangkywara/tesseractgui/src/pkg/spell"
)

/*
Recognize is the core entry point: it conditions the image at imagePath,
invokes the default OCR engine on the conditioned buffer, aggregates the
per-word output with the confidence policy, and optionally runs the
dictionary-based spelling pass.

It returns the recognition result together with the conditioned image buffer
for optional caller-side preview. The recorded dimensions always describe
the conditioned buffer at the moment of engine invocation.

Error classes: ErrImageLoad for unreadable input, ErrEngineNotFound when the
engine is unavailable, and *RecognitionError wrapping any other failure with
its cause. The pipeline is synchronous, never retries, and supports no
mid-flight cancellation; run it off any interactive thread.
*/
func Recognize(imagePath string, options RecognitionOptions) (Result, *image.Gray, error) {
	return RecognizeWithEngine(imagePath, options, DefaultEngine())
}

// RecognizeWithEngine is Recognize with an explicit engine, mainly for tests
// and callers embedding their own provider.
func RecognizeWithEngine(imagePath string, options RecognitionOptions, engine Engine) (Result, *image.Gray, error) {
	if err := options.Validate(); err != nil {
		return Result{}, nil, wrapRecognition("option validation", err)
	}

	tl.Log(
		tl.Notice, palette.BlueBold, "Recognizing '%s' with lang='%s', psm=%d, oem=%d, blur='%s'",
		imagePath, options.Language, options.PageSegMode, options.EngineMode, string(options.BlurType),
	)

	conditioned, conditionErr := Condition(imagePath, options)
	if conditionErr != nil {
		return Result{}, nil, wrapRecognition("conditioning", conditionErr)
	}

	detections, detectErr := engine.DetectWords(conditioned, BuildEngineConfig(options))
	if detectErr != nil {
		return Result{}, nil, wrapRecognition("engine invocation", detectErr)
	}

	fullText := AggregateWords(detections, options.MinConfidence)

	spellcheckApplied := false
	if options.ApplySpellcheck {
		outcome := spell.Correct(fullText, options.Language, spell.DefaultDictionary())
		if outcome.Applied {
			tl.Log(tl.Info1, palette.Green, "Spell correction %s the text", "changed")
		}
		fullText = outcome.Text
		spellcheckApplied = outcome.Applied
	} else {
		tl.Log(tl.Info, palette.Cyan, "Skipping %s", "spell check")
	}

	result := Result{
		FullText:             fullText,
		ProcessedImageWidth:  conditioned.Rect.Dx(),
		ProcessedImageHeight: conditioned.Rect.Dy(),
		SpellcheckApplied:    spellcheckApplied,
	}

	tl.Log(
		tl.Notice1, palette.GreenBold, "Recognition completed for '%s' (text length: %d, %dx%d)",
		imagePath, len(result.FullText), result.ProcessedImageWidth, result.ProcessedImageHeight,
	)
	return result, conditioned, nil
}
