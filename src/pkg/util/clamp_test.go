package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(5, 0, 10))
	assert.Equal(t, 0, Clamp(-3, 0, 10))
	assert.Equal(t, 10, Clamp(42, 0, 10))
	assert.InDelta(t, 1.0, Clamp(2.5, 0.0, 1.0), 0)
}

func TestNormalizeFlagName(t *testing.T) {
	assert.Equal(t, "--sender", normalizeFlagName("sender"))
	assert.Equal(t, "--sender", normalizeFlagName("-sender"))
	assert.Equal(t, "--sender", normalizeFlagName("--sender"))
	assert.Equal(t, "--sender", normalizeFlagName("  sender "))
}
