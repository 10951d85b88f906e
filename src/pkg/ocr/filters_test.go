package ocr

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformGray(width, height int, value uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

func TestGaussianKernelIsNormalizedAndSymmetric(t *testing.T) {
	kernel := gaussianKernel1D(5, 0)
	require.Len(t, kernel, 5)

	sum := 0.0
	for _, weight := range kernel {
		sum += weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.InDelta(t, kernel[0], kernel[4], 1e-12)
	assert.InDelta(t, kernel[1], kernel[3], 1e-12)
	assert.Greater(t, kernel[2], kernel[1])
}

func TestAdaptiveThresholdProducesInvertedBinaryOutput(t *testing.T) {
	src := uniformGray(40, 40, 200)
	// Dark 3-px stroke standing in for text: thinner than the 11x11 window,
	// so the local mean around it stays dominated by the bright background.
	for y := 19; y < 22; y++ {
		for x := 5; x < 35; x++ {
			src.Pix[y*src.Stride+x] = 40
		}
	}

	binary := adaptiveGaussianThreshold(src, 11, 4)

	for _, value := range binary.Pix {
		assert.Contains(t, []uint8{0, 255}, value)
	}
	// Stroke center turns white, flat background turns black.
	assert.EqualValues(t, 255, binary.Pix[20*binary.Stride+20])
	assert.EqualValues(t, 0, binary.Pix[2*binary.Stride+2])
}

func TestOtsuThresholdSeparatesBimodalImage(t *testing.T) {
	src := uniformGray(20, 20, 20)
	for y := 0; y < 20; y++ {
		for x := 10; x < 20; x++ {
			src.Pix[y*src.Stride+x] = 220
		}
	}

	threshold := otsuThreshold(src)
	assert.GreaterOrEqual(t, threshold, uint8(20))
	assert.Less(t, threshold, uint8(220))

	binary := binarize(src, threshold)
	assert.EqualValues(t, 0, binary.Pix[0])
	assert.EqualValues(t, 255, binary.Pix[15])
}

func TestMedianBlurRemovesSaltNoise(t *testing.T) {
	src := uniformGray(11, 11, 100)
	src.Pix[5*src.Stride+5] = 255

	smoothed := medianBlur(src, 5)
	assert.EqualValues(t, 100, smoothed.Pix[5*smoothed.Stride+5])
}

func TestInvertFlipsIntensities(t *testing.T) {
	src := uniformGray(4, 4, 0)
	src.Pix[0] = 200

	inverted := invert(src)
	assert.EqualValues(t, 55, inverted.Pix[0])
	assert.EqualValues(t, 255, inverted.Pix[1])
}

func TestCLAHEKeepsDimensionsAndUniformity(t *testing.T) {
	// Small inputs leave partial edge tiles; clipping must still redistribute
	// the histogram mass instead of discarding it.
	cases := []struct {
		name          string
		width, height int
	}{
		{"smaller than the tile grid span", 50, 30},
		{"tiny", 13, 9},
		{"tile-aligned", 64, 64},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			src := uniformGray(testCase.width, testCase.height, 128)

			equalized := applyCLAHE(src, 2.0, 8)
			require.Equal(t, testCase.width, equalized.Rect.Dx())
			require.Equal(t, testCase.height, equalized.Rect.Dy())

			// A constant image maps through identical tile tables everywhere.
			first := equalized.Pix[0]
			for _, value := range equalized.Pix {
				assert.Equal(t, first, value)
			}
		})
	}
}

func TestCLAHEPreservesHistogramMassOnGradient(t *testing.T) {
	// A mid-gray gradient must keep its spread and stay in the mid band.
	// Discarding clipped histogram mass instead of redistributing it would
	// crush the whole image toward black.
	src := uniformGray(64, 64, 128)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			src.Pix[y*src.Stride+x] = uint8(110 + (x+y)/4)
		}
	}

	equalized := applyCLAHE(src, 2.0, 8)

	minValue, maxValue := equalized.Pix[0], equalized.Pix[0]
	for _, value := range equalized.Pix {
		if value < minValue {
			minValue = value
		}
		if value > maxValue {
			maxValue = value
		}
	}
	assert.Greater(t, int(maxValue)-int(minValue), 20)
	assert.GreaterOrEqual(t, minValue, uint8(60))
}

func TestGaussianBlurPreservesFlatRegions(t *testing.T) {
	src := uniformGray(16, 16, 77)

	smoothed := gaussianBlur(src, 5)
	for _, value := range smoothed.Pix {
		assert.EqualValues(t, 77, value)
	}
}
