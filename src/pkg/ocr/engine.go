package ocr

import (
	"fmt"
	"image"
	"os"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

/*
WordDetection is one transient per-word record emitted by the OCR engine:
token text, self-reported confidence (0-100) and the bounding box in pixel
coordinates of the submitted image. Only the text survives aggregation.
*/
type WordDetection struct {
	Text       string
	Confidence float64
	Box        image.Rectangle
}

/*
EngineConfig is the per-invocation engine configuration derived from
RecognitionOptions by BuildEngineConfig.
*/
type EngineConfig struct {
	Language    string
	PageSegMode int
	EngineMode  int
	// TessdataDir is empty unless the configured override is an existing
	// directory; separators are already normalized to forward slashes.
	TessdataDir string
}

/*
String renders the classic command-line form of the configuration, mainly
for logging: "--oem 3 --psm 3 -l eng [--tessdata-dir <dir>]".
*/
func (engineConfig EngineConfig) String() string {
	rendered := fmt.Sprintf("--oem %d --psm %d -l %s", engineConfig.EngineMode, engineConfig.PageSegMode, engineConfig.Language)
	if engineConfig.TessdataDir != "" {
		rendered += fmt.Sprintf(" --tessdata-dir %s", engineConfig.TessdataDir)
	}
	return rendered
}

/*
BuildEngineConfig maps the option set onto an engine configuration. A
TessdataDir that does not point at an existing directory is silently ignored
(logged, never an error), so a stale settings value can not break runs.
*/
func BuildEngineConfig(options RecognitionOptions) EngineConfig {
	engineConfig := EngineConfig{
		Language:    options.Language,
		PageSegMode: options.PageSegMode,
		EngineMode:  options.EngineMode,
	}

	if options.TessdataDir != "" {
		info, statErr := os.Stat(options.TessdataDir)
		if statErr == nil && info.IsDir() {
			engineConfig.TessdataDir = strings.ReplaceAll(options.TessdataDir, "\\", "/")
		} else {
			tl.Log(
				tl.Info, palette.Purple, "Tessdata directory '%s' is %s, ignoring the override",
				options.TessdataDir, "not a valid directory",
			)
		}
	}

	return engineConfig
}

/*
Engine is the contract of the external OCR engine: one conditioned image in,
per-word detections out. Implementations must surface an unavailable engine
as ErrEngineNotFound (wrapped), distinct from every other failure.
*/
type Engine interface {
	Name() string
	DetectWords(img image.Image, engineConfig EngineConfig) ([]WordDetection, error)
}

var defaultEngine Engine = NewTesseractEngine()

// DefaultEngine returns the process-wide default engine (Tesseract).
func DefaultEngine() Engine {
	return defaultEngine
}

// SetDefaultEngine swaps the process-wide default engine, e.g. for tests.
func SetDefaultEngine(engine Engine) {
	defaultEngine = engine
}
