package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pangkywara/tesseractgui/src/pkg/ocr"
)

func TestDefaultValueConfig(t *testing.T) {
	defaults := DefaultValueConfig()

	assert.Equal(t, "eng", defaults.Ocr.Language)
	assert.Equal(t, 3, defaults.Ocr.PageSegMode)
	assert.Equal(t, 3, defaults.Ocr.EngineMode)
	assert.InDelta(t, 35, defaults.Ocr.MinConfidence, 0)
	assert.Equal(t, 11, defaults.Ocr.AdaptiveBlockSize)
	assert.InDelta(t, 4, defaults.Ocr.AdaptiveBias, 0)
	assert.Equal(t, "./out", defaults.Ocr.OutputDir)
	assert.Equal(t, 8402, defaults.Server.Port)
	assert.Equal(t, "mailgun", defaults.Email.Provider)
}

func TestOcrConfigOptions(t *testing.T) {
	ocrConfig := OcrConfig{
		Language:          "spa",
		PageSegMode:       6,
		EngineMode:        1,
		TessdataDir:       "/data/tessdata",
		BlurType:          "median",
		MinConfidence:     50,
		AdaptiveBlockSize: 15,
		AdaptiveBias:      2,
	}

	options := ocrConfig.Options()
	assert.Equal(t, "spa", options.Language)
	assert.Equal(t, 6, options.PageSegMode)
	assert.Equal(t, 1, options.EngineMode)
	assert.Equal(t, "/data/tessdata", options.TessdataDir)
	assert.Equal(t, ocr.BlurMedian, options.BlurType)
	assert.InDelta(t, 50, options.MinConfidence, 0)
	assert.Equal(t, 15, options.AdaptiveBlockSize)
	assert.InDelta(t, 2, options.AdaptiveBias, 0)

	// Stage toggles keep the pipeline defaults.
	assert.True(t, options.ApplyDeskew)
	assert.True(t, options.ApplyCLAHE)
	assert.True(t, options.ApplySpellcheck)
}

func TestInitializeConfigLoadsProvidedValues(t *testing.T) {
	defer func() { Cfg = DefaultValueConfig() }()

	configPath := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"ocr": {
			"language": "eng+spa",
			"page_segmentation_mode": 6,
			"engine_mode": 3,
			"blur_type": "Gaussian",
			"min_confidence": 40,
			"adaptive_block_size": 11,
			"adaptive_bias": 4,
			"output_dir": "./runs"
		},
		"server": {
			"address": "0.0.0.0",
			"port": 9000,
			"middleware_rate_limit": 5,
			"middleware_burst": 10
		},
		"email": {
			"provider": "ses",
			"sender_address": "ocr@example.com"
		}
	}`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	InitializeConfig(configPath)

	assert.Equal(t, "eng+spa", Cfg.Ocr.Language)
	assert.Equal(t, 6, Cfg.Ocr.PageSegMode)
	assert.Equal(t, "./runs", Cfg.Ocr.OutputDir)
	assert.Equal(t, "0.0.0.0", Cfg.Server.Address)
	assert.Equal(t, 9000, Cfg.Server.Port)
	assert.Equal(t, "ses", Cfg.Email.Provider)
	assert.Equal(t, "ocr@example.com", Cfg.Email.SenderAddress)
}

func TestInitializeConfigMissingFileKeepsDefaults(t *testing.T) {
	defer func() { Cfg = DefaultValueConfig() }()
	Cfg = DefaultValueConfig()

	InitializeConfig("/no/such/config.json")
	assert.Equal(t, DefaultValueConfig(), Cfg)
}

func TestInitializeConfigInvalidJSONKeepsDefaults(t *testing.T) {
	defer func() { Cfg = DefaultValueConfig() }()
	Cfg = DefaultValueConfig()

	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte("{not json"), 0o644))

	InitializeConfig(configPath)
	assert.Equal(t, DefaultValueConfig(), Cfg)
}

func TestGetPackageName(t *testing.T) {
	assert.Equal(t, "config", GetPackageName())
}
