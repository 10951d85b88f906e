// Package config loads the application configuration from a JSON file and
// exposes it through the package-level Cfg value. Missing files or fields
// fall back to defaults, so every entrypoint can run unconfigured.
package config

import (
	"encoding/json"
	"os"
	"runtime"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"github.com/pangkywara/tesseractgui/src/pkg/ocr"
)

/*
OcrConfig is the recognition section: engine defaults plus the calibrated
preprocessing tunables. Values here seed ocr.RecognitionOptions; CLI flags
override them per run.
*/
type OcrConfig struct {
	Language          string  `json:"language,omitempty"`
	PageSegMode       int     `json:"page_segmentation_mode,omitempty"`
	EngineMode        int     `json:"engine_mode,omitempty"`
	TessdataDir       string  `json:"tessdata_dir,omitempty"`
	BlurType          string  `json:"blur_type,omitempty"`
	MinConfidence     float64 `json:"min_confidence,omitempty"`
	AdaptiveBlockSize int     `json:"adaptive_block_size,omitempty"`
	AdaptiveBias      float64 `json:"adaptive_bias,omitempty"`
	OutputDir         string  `json:"output_dir,omitempty"`
}

// ServerConfig mirrors the echo-middleware section; cmd/serve hands it over
// to echomw.InitializeConfig.
type ServerConfig struct {
	Address             string `json:"address,omitempty"`
	Port                int    `json:"port,omitempty"`
	MiddlewareRateLimit int    `json:"middleware_rate_limit,omitempty"`
	MiddlewareBurst     int    `json:"middleware_burst,omitempty"`
}

// EmailConfig is the delivery section for the send-email tooling.
type EmailConfig struct {
	Provider      string `json:"provider,omitempty"`
	SenderAddress string `json:"sender_address,omitempty"`
}

type Config struct {
	Ocr    OcrConfig    `json:"ocr,omitempty"`
	Server ServerConfig `json:"server,omitempty"`
	Email  EmailConfig  `json:"email,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		Ocr: OcrConfig{
			Language:          "eng",
			PageSegMode:       3,
			EngineMode:        3,
			BlurType:          string(ocr.BlurGaussian),
			MinConfidence:     35,
			AdaptiveBlockSize: 11,
			AdaptiveBias:      4,
			OutputDir:         "./out",
		},
		Server: ServerConfig{
			Address:             "127.0.0.1",
			Port:                8402,
			MiddlewareRateLimit: 3,
			MiddlewareBurst:     50,
		},
		Email: EmailConfig{
			Provider: "mailgun",
		},
	}
}

// create config with default values before config gets initialized
var Cfg Config = DefaultValueConfig() // this one we use to access config values from anywhere

/*
InitializeConfig reads the JSON configuration file at configPath into Cfg.

A missing file is not an error: defaults stay in effect. Fields absent from
the file are filled from DefaultValueConfig with a log line per field.
*/
func InitializeConfig(configPath string) {
	contentBytes, readErr := os.ReadFile(configPath)
	if readErr != nil {
		tl.Log(tl.Info, palette.Purple, "Config file '%s' is %s, keeping %s", configPath, "not readable", "default configuration")
		return
	}

	loaded := Config{}
	if unmarshalErr := json.Unmarshal(contentBytes, &loaded); unmarshalErr != nil {
		tl.Log(tl.Warning, palette.YellowBold, "Config file '%s' is %s: '%s'. Keeping defaults", configPath, "not valid JSON", unmarshalErr)
		return
	}

	Cfg = loaded
	defaultConfig := DefaultValueConfig()
	tl.ApplyDefaults(&Cfg, defaultConfig, func(field string, defVal any) {
		tl.Log(
			tl.Info, palette.Purple,
			"%s field is %s in %s configuration. Using default value: %v",
			field, "missing", GetPackageName(), tl.PrettyForStderr(defVal),
		)
	})

	tl.Log(tl.Info, palette.Green, "Configuration %s from '%s'", "loaded", configPath)
	tl.LogJSON(tl.Verbose, palette.CyanDim, "application configuration", Cfg)
}

/*
Options builds the per-run recognition options from this section: boolean
stages default to enabled, everything else comes from configuration.
*/
func (ocrConfig OcrConfig) Options() ocr.RecognitionOptions {
	options := ocr.DefaultOptions()
	options.Language = ocrConfig.Language
	options.PageSegMode = ocrConfig.PageSegMode
	options.EngineMode = ocrConfig.EngineMode
	options.TessdataDir = ocrConfig.TessdataDir
	options.BlurType = ocr.ParseBlurType(ocrConfig.BlurType)
	options.MinConfidence = ocrConfig.MinConfidence
	options.AdaptiveBlockSize = ocrConfig.AdaptiveBlockSize
	options.AdaptiveBias = ocrConfig.AdaptiveBias
	return options
}

/*
CheckIfEnvVarsPresent warns about each missing environment variable so an
entrypoint can announce its external requirements up front without failing.
*/
func CheckIfEnvVarsPresent(variableNames ...string) {
	for _, variableName := range variableNames {
		if strings.TrimSpace(os.Getenv(variableName)) == "" {
			tl.Log(tl.Warning, palette.YellowBold, "Environment variable %s is %s", variableName, "not set")
		}
	}
}

/*
GetPackageName reports the package name of the caller, for log lines that
want to say which package's configuration they talk about.
*/
func GetPackageName() string {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return "unknown"
	}
	fullName := runtime.FuncForPC(pc).Name() // e.g. "module/src/pkg/ocr.Condition"
	lastSlash := strings.LastIndex(fullName, "/")
	trimmed := fullName[lastSlash+1:]
	if dot := strings.Index(trimmed, "."); dot >= 0 {
		return trimmed[:dot]
	}
	return trimmed
}
