package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"github.com/pangkywara/tesseractgui/src/pkg/config"
	"github.com/pangkywara/tesseractgui/src/pkg/ocr"
	"github.com/pangkywara/tesseractgui/src/pkg/util"
)

/*
main is the entrypoint of the recognition CLI.

It initializes configuration, parses flags, and runs the full recognition
flow: image conditioning, OCR, word aggregation and spell check, with all
artifacts stored in a timestamped run directory. If any fatal error occurs,
it is logged and the program exits with a non-zero status code.
*/
func main() {
	config.CheckIfEnvVarsPresent()

	// Common flags.
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")

	// Program-specific flags. Flags win over the configuration file.
	imagePath := flag.String("image", "", "Path to the image to recognize.")
	outputDirPath := flag.String("out", "", "Directory where run artifacts will be stored. Default comes from config.")
	language := flag.String("language", "eng", "Language of the text. eng, spa, eng+spa etc. \"tesseract --list-langs\", \"apt install tesseract-ocr-fra\"")
	pageSegMode := flag.Int("psm", 3, "Tesseract page segmentation mode, 0-13.")
	engineMode := flag.Int("oem", 3, "Tesseract engine mode, 0-3.")
	tessdataDir := flag.String("tessdata", "", "Directory with tesseract language data. Empty uses the system default.")
	applyDeskew := flag.Bool("deskew", true, "Estimate and correct text skew before binarization.")
	applyCLAHE := flag.Bool("clahe", true, "Apply contrast-limited adaptive histogram equalization.")
	applySpellcheck := flag.Bool("spellcheck", true, "Apply dictionary-based spelling correction (English only).")
	blurType := flag.String("blur", string(ocr.BlurGaussian), "Noise reduction blur: gaussian, median or none.")

	// Parse and initialize config.
	flag.Parse()
	util.RequiredFlag(imagePath, "image")
	util.EnsureFlags()
	config.InitializeConfig(*configPath)

	// Config supplies the calibrated tunables, flags pick the per-run knobs.
	options := config.Cfg.Ocr.Options()
	options.Language = *language
	options.PageSegMode = *pageSegMode
	options.EngineMode = *engineMode
	options.TessdataDir = *tessdataDir
	options.ApplyDeskew = *applyDeskew
	options.ApplyCLAHE = *applyCLAHE
	options.ApplySpellcheck = *applySpellcheck
	options.BlurType = ocr.ParseBlurType(*blurType)

	rootOutputDirPath := *outputDirPath
	if rootOutputDirPath == "" {
		rootOutputDirPath = config.Cfg.Ocr.OutputDir
	}

	// Build year-month suffix like "september-2006".
	currentTime := time.Now()
	monthName := strings.ToLower(currentTime.Month().String())
	yearValue := currentTime.Year()
	yearMonthDirName := fmt.Sprintf("%s-%04d", monthName, yearValue)

	// Final output directory: base out dir + "month-year".
	finalOutputDirPath := filepath.Join(rootOutputDirPath, yearMonthDirName)

	// Log basic startup information.
	tl.Log(
		tl.Notice, palette.BlueBold, "%s recognition entrypoint. Config path: '%s'",
		"Running", *configPath,
	)
	tl.Log(
		tl.Info1, palette.Cyan, "%s '%s'",
		"Using output directory", finalOutputDirPath,
	)

	// Run the main processing flow.
	runDirPath, report, e := ocr.ProcessImage(*imagePath, finalOutputDirPath, options)
	e.QuitIf(xerr.ErrorTypeError)

	tl.Log(tl.Notice1, palette.GreenBold, "%s. Results stored in '%s'", "Recognition run completed", runDirPath)
	tl.Log(tl.Info, palette.Green, "Recognized text:\n```\n%s\n```", report.Result.FullText)
}
