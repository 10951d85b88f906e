package ocr

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// Artifact file names inside a run directory.
const (
	ConditionedImageFileName = "conditioned.png"
	TextFileName             = "ocr.txt"
	ReportFileName           = "result.json"
)

/*
RunReport is the result.json payload stored in every run directory. It keeps
enough context (options, engine, timing) to make a stored run reproducible
and listable by the history tooling.
*/
type RunReport struct {
	Result        Result             `json:"result"`
	Options       RecognitionOptions `json:"options"`
	EngineName    string             `json:"engine_name"`
	SourceImage   string             `json:"source_image"`
	CreatedAtUnix int64              `json:"created_at"`
	ElapsedMs     int64              `json:"elapsed_ms"`
}

/*
ProcessImage orchestrates a full recognition run with persisted artifacts.

It performs the following steps:
 1. Validates the input image path.
 2. Ensures the root output directory exists.
 3. Creates a per-run directory under the root, named by timestamp.
 4. Copies the original image into that run directory as orig.<ext>.
 5. Runs the recognition pipeline (condition, OCR, aggregate, spell check).
 6. Saves conditioned.png (the buffer the engine saw), ocr.txt and
    result.json into the run directory.

If any step fails, it returns a *xerr.Error describing the problem.
*/
func ProcessImage(imagePath string, outputDirPath string, options RecognitionOptions) (runDirPath string, report RunReport, e *xerr.Error) {
	e = validateImagePath(imagePath)
	if e != nil {
		return
	}

	normalizedOutputDirPath := strings.TrimSpace(outputDirPath)
	if normalizedOutputDirPath == "" {
		normalizedOutputDirPath = "./out"
	}

	tl.Log(
		tl.Notice, palette.BlueBold, "%s recognition for '%s' into root '%s'",
		"Starting", imagePath, normalizedOutputDirPath,
	)

	e = ensureOutputDirectory(normalizedOutputDirPath)
	if e != nil {
		return "", report, e
	}

	// Timestamp-based directory name with filename-safe characters only.
	// Example: 2025-11-26_16-35-31
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	runDirPath = filepath.Join(normalizedOutputDirPath, timestamp)

	e = ensureOutputDirectory(runDirPath)
	if e != nil {
		return runDirPath, report, e
	}

	// Determine original extension (keep the dot).
	originalExt := strings.ToLower(filepath.Ext(imagePath))
	if originalExt == "" {
		originalExt = ".jpg"
	}

	originalOutPath := filepath.Join(runDirPath, "orig"+originalExt)
	conditionedOutPath := filepath.Join(runDirPath, ConditionedImageFileName)
	textOutPath := filepath.Join(runDirPath, TextFileName)
	reportOutPath := filepath.Join(runDirPath, ReportFileName)

	e = copyOriginalImage(imagePath, originalOutPath)
	if e != nil {
		return runDirPath, report, e
	}

	startTime := time.Now()
	result, conditioned, recognizeErr := Recognize(imagePath, options)
	if recognizeErr != nil {
		e = xerr.NewError(recognizeErr, "recognize image", imagePath)
		return runDirPath, report, e
	}

	saveErr := imaging.Save(conditioned, conditionedOutPath)
	if saveErr != nil {
		e = xerr.NewError(saveErr, "save conditioned image", conditionedOutPath)
		return runDirPath, report, e
	}

	e = saveTextToFile(textOutPath, result.FullText)
	if e != nil {
		return runDirPath, report, e
	}

	report = RunReport{
		Result:        result,
		Options:       options,
		EngineName:    DefaultEngine().Name(),
		SourceImage:   imagePath,
		CreatedAtUnix: startTime.Unix(),
		ElapsedMs:     time.Since(startTime).Milliseconds(),
	}
	e = saveJSONToFile(reportOutPath, report)
	if e != nil {
		return runDirPath, report, e
	}

	tl.Log(
		tl.Info1, palette.Green, "Finished recognition run for '%s'. Run dir: '%s', conditioned: '%s', text: '%s'",
		imagePath, runDirPath, conditionedOutPath, textOutPath,
	)

	return runDirPath, report, e
}

/*
validateImagePath ensures the image path is not empty. Decodability is
checked later by the conditioner, which surfaces ErrImageLoad.
*/
func validateImagePath(imagePath string) (e *xerr.Error) {
	if strings.TrimSpace(imagePath) == "" {
		err := fmt.Errorf("image path is empty")
		e = xerr.NewError(err, "no input image path provided", imagePath)
		tl.Log(
			tl.Important, palette.PurpleBold, "Exiting early: '%s'",
			"no input image provided",
		)
	}
	return
}
