package ocr

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
drawRotatedBar paints a thick dark bar through the center of a white canvas,
tilted by angleDegrees from the horizontal. Thick enough that the minimum
area rectangle around it is unambiguous.
*/
func drawRotatedBar(size int, angleDegrees float64) *image.Gray {
	canvas := uniformGray(size, size, 255)
	radians := angleDegrees * math.Pi / 180
	center := float64(size) / 2

	along := float64(size) * 0.4
	for t := -along; t <= along; t += 0.25 {
		for offset := -6.0; offset <= 6.0; offset += 0.25 {
			x := center + t*math.Cos(radians) - offset*math.Sin(radians)
			y := center - t*math.Sin(radians) - offset*math.Cos(radians)
			px, py := int(math.Round(x)), int(math.Round(y))
			if px < 0 || py < 0 || px >= size || py >= size {
				continue
			}
			canvas.Pix[py*canvas.Stride+px] = 0
		}
	}
	return canvas
}

func TestDeskewCorrectsTiltedBar(t *testing.T) {
	tilted := drawRotatedBar(200, 10)

	result := Deskew(tilted)
	require.True(t, result.Applied)
	assert.InDelta(t, 10, math.Abs(result.Angle), 2)
	assert.Equal(t, tilted.Rect, result.Image.Rect)

	// The corrected image should estimate as straight to within a degree.
	residual, found := estimateSkewAngle(result.Image)
	require.True(t, found)
	assert.Less(t, math.Abs(residual), 1.0)
}

func TestDeskewSkipsNearlyStraightImage(t *testing.T) {
	straight := drawRotatedBar(200, 0)

	result := Deskew(straight)
	assert.False(t, result.Applied)
	assert.Zero(t, result.Angle)
	assert.Same(t, straight, result.Image)
}

func TestDeskewSkipsBlankImage(t *testing.T) {
	blank := uniformGray(64, 64, 255)

	result := Deskew(blank)
	assert.False(t, result.Applied)
	assert.Same(t, blank, result.Image)
}

func TestEstimateSkewAngleFindsNothingOnBlank(t *testing.T) {
	blank := uniformGray(32, 32, 255)

	_, found := estimateSkewAngle(blank)
	assert.False(t, found)
}

func TestRotateAboutCenterPreservesDimensions(t *testing.T) {
	src := drawRotatedBar(100, 5)

	rotated := rotateAboutCenter(src, -5)
	assert.Equal(t, src.Rect, rotated.Rect)
}
