package ocr

import (
	"errors"
	"fmt"
)

// Sentinel error classes a caller can test with errors.Is. Both are fatal to
// the recognition request that produced them.
var (
	// ErrImageLoad marks a missing, corrupt or undecodable input image.
	ErrImageLoad = errors.New("image could not be loaded")

	// ErrEngineNotFound marks an unavailable OCR engine (missing native
	// library or language data). Surfaced distinctly so callers can give
	// actionable guidance, e.g. "apt install tesseract-ocr".
	ErrEngineNotFound = errors.New("ocr engine not available")
)

/*
RecognitionError wraps any other unexpected failure of a recognition request,
preserving the original cause for errors.As / errors.Unwrap chains.
*/
type RecognitionError struct {
	Stage string // pipeline stage that failed, e.g. "conditioning"
	Cause error
}

func (recognitionError *RecognitionError) Error() string {
	return fmt.Sprintf("recognition failed during %s: %v", recognitionError.Stage, recognitionError.Cause)
}

func (recognitionError *RecognitionError) Unwrap() error {
	return recognitionError.Cause
}

/*
wrapRecognition classifies an error coming out of a pipeline stage. The two
sentinel classes pass through untouched so they stay distinguishable; anything
else becomes a *RecognitionError carrying the stage name and the cause.
*/
func wrapRecognition(stage string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrImageLoad) || errors.Is(err, ErrEngineNotFound) {
		return err
	}
	return &RecognitionError{Stage: stage, Cause: err}
}
