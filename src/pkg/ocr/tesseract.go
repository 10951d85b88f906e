package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

/*
TesseractEngine implements Engine on top of the gosseract client. A fresh
client is created per invocation: the pipeline is synchronous and two
invocations must never share engine state.
*/
type TesseractEngine struct {
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs the Tesseract-backed engine.
func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{clientFactory: gosseract.NewClient}
}

func (engine *TesseractEngine) Name() string { return "tesseract" }

/*
DetectWords runs Tesseract over the conditioned image in structured per-word
mode and returns the raw detections in engine order.

The engine mode is an init-time Tesseract parameter that the binding does not
expose; it is applied as a client variable and a failure to set it degrades
to a logged warning, never an error.
*/
func (engine *TesseractEngine) DetectWords(img image.Image, engineConfig EngineConfig) ([]WordDetection, error) {
	tl.Log(tl.Info1, palette.Cyan, "Running Tesseract with config '%s'", engineConfig)

	client := engine.clientFactory()
	defer func() {
		_ = client.Close()
	}()

	if engineConfig.TessdataDir != "" {
		if err := client.SetTessdataPrefix(engineConfig.TessdataDir); err != nil {
			return nil, classifyEngineError(err, "set tessdata prefix")
		}
	}

	if err := client.SetLanguage(strings.Split(engineConfig.Language, "+")...); err != nil {
		return nil, classifyEngineError(err, "set language")
	}

	if err := client.SetPageSegMode(gosseract.PageSegMode(engineConfig.PageSegMode)); err != nil {
		return nil, classifyEngineError(err, "set page segmentation mode")
	}

	if err := client.SetVariable("tessedit_ocr_engine_mode", strconv.Itoa(engineConfig.EngineMode)); err != nil {
		tl.Log(tl.Warning, palette.YellowDim, "Unable to set engine mode %d: '%s'. Continuing with the default", engineConfig.EngineMode, err)
	}

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img); err != nil {
		return nil, fmt.Errorf("encode conditioned image for the engine: %w", err)
	}
	if err := client.SetImageFromBytes(buffer.Bytes()); err != nil {
		return nil, classifyEngineError(err, "set image")
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, classifyEngineError(err, "detect words")
	}

	detections := make([]WordDetection, 0, len(boxes))
	for _, box := range boxes {
		detections = append(detections, WordDetection{
			Text:       box.Word,
			Confidence: box.Confidence,
			Box:        box.Box,
		})
	}

	tl.Log(tl.Info1, palette.Green, "Tesseract returned '%d' word detections", len(detections))
	return detections, nil
}

/*
classifyEngineError separates "the engine itself is unavailable" (missing
native data, failed initialization) from ordinary invocation failures. With
a linked libtesseract this is the analogue of a missing executable.
*/
func classifyEngineError(err error, action string) error {
	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "could not initialize tesseract"),
		strings.Contains(message, "couldn't load any languages"),
		strings.Contains(message, "failed loading language"),
		strings.Contains(message, "tessdata"):
		return fmt.Errorf("%w: %s: %v", ErrEngineNotFound, action, err)
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}
