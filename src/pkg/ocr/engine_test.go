package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineConfigString(t *testing.T) {
	engineConfig := EngineConfig{Language: "eng", PageSegMode: 3, EngineMode: 3}
	assert.Equal(t, "--oem 3 --psm 3 -l eng", engineConfig.String())

	engineConfig.TessdataDir = "/usr/share/tessdata"
	assert.Equal(t, "--oem 3 --psm 3 -l eng --tessdata-dir /usr/share/tessdata", engineConfig.String())
}

func TestBuildEngineConfigKeepsExistingTessdataDir(t *testing.T) {
	options := DefaultOptions()
	options.TessdataDir = t.TempDir()

	engineConfig := BuildEngineConfig(options)
	assert.Equal(t, options.TessdataDir, engineConfig.TessdataDir)
	assert.Equal(t, options.Language, engineConfig.Language)
	assert.Equal(t, options.PageSegMode, engineConfig.PageSegMode)
	assert.Equal(t, options.EngineMode, engineConfig.EngineMode)
}

func TestBuildEngineConfigIgnoresMissingTessdataDir(t *testing.T) {
	options := DefaultOptions()
	options.TessdataDir = "/definitely/not/a/real/tessdata/dir"

	engineConfig := BuildEngineConfig(options)
	assert.Empty(t, engineConfig.TessdataDir)
}
