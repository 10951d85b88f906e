package ocr

import (
	"image"
	"math"

	"github.com/pangkywara/tesseractgui/src/pkg/util"
)

// All filters below operate on origin-based *image.Gray buffers (the loader
// normalizes bounds) and return a freshly allocated buffer, so every pipeline
// stage owns its input exclusively and hands a new buffer downstream.

/*
gaussianKernel1D builds a normalized 1-D Gaussian kernel of the given odd
size. A non-positive sigma is derived from the kernel size the same way the
classic vision libraries do it: 0.3*((size-1)*0.5 - 1) + 0.8, which gives
1.1 for the 5-tap blur kernel and 2.0 for the 11-tap threshold window.
*/
func gaussianKernel1D(size int, sigma float64) []float64 {
	if sigma <= 0 {
		sigma = 0.3*(float64(size-1)*0.5-1) + 0.8
	}
	kernel := make([]float64, size)
	half := size / 2
	sum := 0.0
	for i := 0; i < size; i++ {
		d := float64(i - half)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// grayAtClamped reads a pixel with edge replication outside the buffer.
func grayAtClamped(src *image.Gray, x, y int) uint8 {
	x = util.Clamp(x, 0, src.Rect.Dx()-1)
	y = util.Clamp(y, 0, src.Rect.Dy()-1)
	return src.Pix[y*src.Stride+x]
}

/*
convolveSeparable runs the same 1-D kernel horizontally and then vertically
with replicated borders and returns the smoothed values as float64, so the
caller decides whether to round into pixels (blur) or compare against them
(adaptive threshold).
*/
func convolveSeparable(src *image.Gray, kernel []float64) []float64 {
	width, height := src.Rect.Dx(), src.Rect.Dy()
	half := len(kernel) / 2

	horizontal := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sum := 0.0
			for k := 0; k < len(kernel); k++ {
				sum += kernel[k] * float64(grayAtClamped(src, x+k-half, y))
			}
			horizontal[y*width+x] = sum
		}
	}

	smoothed := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sum := 0.0
			for k := 0; k < len(kernel); k++ {
				sampleY := util.Clamp(y+k-half, 0, height-1)
				sum += kernel[k] * horizontal[sampleY*width+x]
			}
			smoothed[y*width+x] = sum
		}
	}
	return smoothed
}

// gaussianBlur applies an odd-sized Gaussian kernel with sigma derived from
// the kernel size.
func gaussianBlur(src *image.Gray, size int) *image.Gray {
	width, height := src.Rect.Dx(), src.Rect.Dy()
	smoothed := convolveSeparable(src, gaussianKernel1D(size, 0))
	dst := image.NewGray(image.Rect(0, 0, width, height))
	for i, value := range smoothed {
		dst.Pix[i] = uint8(util.Clamp(int(math.Round(value)), 0, 255))
	}
	return dst
}

// medianBlur replaces each pixel with the median of its size x size
// neighborhood (borders replicated).
func medianBlur(src *image.Gray, size int) *image.Gray {
	width, height := src.Rect.Dx(), src.Rect.Dy()
	half := size / 2
	window := make([]uint8, 0, size*size)
	dst := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			window = window[:0]
			for dy := -half; dy <= half; dy++ {
				for dx := -half; dx <= half; dx++ {
					window = append(window, grayAtClamped(src, x+dx, y+dy))
				}
			}
			// Insertion sort: the window is tiny (25 values for size 5).
			for i := 1; i < len(window); i++ {
				for j := i; j > 0 && window[j] < window[j-1]; j-- {
					window[j], window[j-1] = window[j-1], window[j]
				}
			}
			dst.Pix[y*dst.Stride+x] = window[len(window)/2]
		}
	}
	return dst
}

/*
adaptiveGaussianThreshold binarizes with a per-pixel threshold: the Gaussian
weighted mean of the blockSize x blockSize neighborhood minus the bias
constant. The output is inverted (text = 255, background = 0) because the
downstream engine is calibrated for light-on-dark input in this pipeline.
*/
func adaptiveGaussianThreshold(src *image.Gray, blockSize int, bias float64) *image.Gray {
	width, height := src.Rect.Dx(), src.Rect.Dy()
	localMean := convolveSeparable(src, gaussianKernel1D(blockSize, 0))

	dst := image.NewGray(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		threshold := localMean[i] - bias
		if float64(src.Pix[(i/width)*src.Stride+i%width]) > threshold {
			dst.Pix[i] = 0
		} else {
			dst.Pix[i] = 255
		}
	}
	return dst
}

// invert flips intensities so dark text becomes bright.
func invert(src *image.Gray) *image.Gray {
	width, height := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dst.Pix[y*dst.Stride+x] = 255 - src.Pix[y*src.Stride+x]
		}
	}
	return dst
}

/*
otsuThreshold picks the global threshold that maximizes the between-class
variance of the histogram. Used by the skew estimator to isolate candidate
text pixels.
*/
func otsuThreshold(src *image.Gray) uint8 {
	var histogram [256]int
	width, height := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			histogram[src.Pix[y*src.Stride+x]]++
		}
	}

	total := width * height
	sumAll := 0.0
	for value, count := range histogram {
		sumAll += float64(value) * float64(count)
	}

	bestThreshold := uint8(0)
	bestVariance := -1.0
	sumBackground := 0.0
	weightBackground := 0

	for value := 0; value < 256; value++ {
		weightBackground += histogram[value]
		if weightBackground == 0 {
			continue
		}
		weightForeground := total - weightBackground
		if weightForeground == 0 {
			break
		}
		sumBackground += float64(value) * float64(histogram[value])

		meanBackground := sumBackground / float64(weightBackground)
		meanForeground := (sumAll - sumBackground) / float64(weightForeground)
		meanDelta := meanBackground - meanForeground
		variance := float64(weightBackground) * float64(weightForeground) * meanDelta * meanDelta
		if variance > bestVariance {
			bestVariance = variance
			bestThreshold = uint8(value)
		}
	}
	return bestThreshold
}

// binarize maps pixels above the threshold to 255 and the rest to 0.
func binarize(src *image.Gray, threshold uint8) *image.Gray {
	width, height := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if src.Pix[y*src.Stride+x] > threshold {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}
	return dst
}

/*
applyCLAHE performs contrast limited adaptive histogram equalization: the
image is divided into a tiles x tiles grid, each tile gets a clipped,
equalized lookup table, and every pixel is mapped through a bilinear blend of
the four surrounding tile tables to avoid visible tile seams.
*/
func applyCLAHE(src *image.Gray, clipLimit float64, tiles int) *image.Gray {
	width, height := src.Rect.Dx(), src.Rect.Dy()
	tileWidth := (width + tiles - 1) / tiles
	tileHeight := (height + tiles - 1) / tiles
	tileArea := tileWidth * tileHeight

	// Per-tile lookup tables. Tiles sample through edge replication, so every
	// tile covers the same area and partial edge tiles on small inputs cannot
	// degenerate the equalization.
	luts := make([][256]uint8, tiles*tiles)
	for tileY := 0; tileY < tiles; tileY++ {
		for tileX := 0; tileX < tiles; tileX++ {
			var histogram [256]int
			for y := tileY * tileHeight; y < (tileY+1)*tileHeight; y++ {
				for x := tileX * tileWidth; x < (tileX+1)*tileWidth; x++ {
					histogram[grayAtClamped(src, x, y)]++
				}
			}

			clipCount := int(clipLimit * float64(tileArea) / 256.0)
			if clipCount < 1 {
				clipCount = 1
			}

			// Clip the histogram and redistribute the full excess: the even
			// share over every bin, the leftover one count at a time over
			// evenly stepped bins. The histogram mass stays tileArea.
			excess := 0
			for value := range histogram {
				if histogram[value] > clipCount {
					excess += histogram[value] - clipCount
					histogram[value] = clipCount
				}
			}
			bonus := excess / 256
			for value := range histogram {
				histogram[value] += bonus
			}
			if residual := excess % 256; residual > 0 {
				step := 256 / residual
				if step < 1 {
					step = 1
				}
				for value := 0; value < 256 && residual > 0; value += step {
					histogram[value]++
					residual--
				}
			}

			scale := 255.0 / float64(tileArea)
			cumulative := 0
			lut := &luts[tileY*tiles+tileX]
			for value := 0; value < 256; value++ {
				cumulative += histogram[value]
				lut[value] = uint8(util.Clamp(int(math.Round(float64(cumulative)*scale)), 0, 255))
			}
		}
	}

	dst := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		gridY := (float64(y)+0.5)/float64(tileHeight) - 0.5
		tileY0 := util.Clamp(int(math.Floor(gridY)), 0, tiles-1)
		tileY1 := util.Clamp(tileY0+1, 0, tiles-1)
		fracY := util.Clamp(gridY-float64(tileY0), 0, 1)

		for x := 0; x < width; x++ {
			gridX := (float64(x)+0.5)/float64(tileWidth) - 0.5
			tileX0 := util.Clamp(int(math.Floor(gridX)), 0, tiles-1)
			tileX1 := util.Clamp(tileX0+1, 0, tiles-1)
			fracX := util.Clamp(gridX-float64(tileX0), 0, 1)

			value := src.Pix[y*src.Stride+x]
			top := (1-fracX)*float64(luts[tileY0*tiles+tileX0][value]) + fracX*float64(luts[tileY0*tiles+tileX1][value])
			bottom := (1-fracX)*float64(luts[tileY1*tiles+tileX0][value]) + fracX*float64(luts[tileY1*tiles+tileX1][value])
			blended := (1-fracY)*top + fracY*bottom
			dst.Pix[y*dst.Stride+x] = uint8(util.Clamp(int(math.Round(blended)), 0, 255))
		}
	}
	return dst
}
