package ocr

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

// Conditioner constants calibrated against the threshold stage: CLAHE clip
// limit 2.0 over an 8x8 tile grid, 5x5 smoothing kernels.
const (
	claheClipLimit = 2.0
	claheTileGrid  = 8
	blurKernelSize = 5
)

/*
Condition loads the image at the given path and runs the deterministic
preprocessing sequence that turns it into a single binary buffer ready for
OCR:

  1. Decode and convert to single-channel grayscale.
  2. Optional deskew (best effort, never fails the pipeline).
  3. Optional CLAHE contrast equalization.
  4. Optional Gaussian or median blur.
  5. Mandatory inverted adaptive binarization (text = 255, background = 0).

Steps 2-4 are individually toggleable via the options; step 5 always runs.
Any failure here invalidates the whole recognition request and is returned
to the caller (wrapped in ErrImageLoad when the file cannot be decoded).
*/
func Condition(imagePath string, options RecognitionOptions) (*image.Gray, error) {
	decoded, openErr := imaging.Open(imagePath)
	if openErr != nil {
		return nil, fmt.Errorf("%w: '%s': %v", ErrImageLoad, imagePath, openErr)
	}

	current := toGray(imaging.Grayscale(decoded))
	tl.Log(
		tl.Info, palette.Blue, "Loaded '%s' as grayscale (%dx%d)",
		imagePath, current.Rect.Dx(), current.Rect.Dy(),
	)

	if options.ApplyDeskew {
		current = Deskew(current).Image
	} else {
		tl.Log(tl.Info, palette.Cyan, "Skipping %s", "deskew")
	}

	if options.ApplyCLAHE {
		current = applyCLAHE(current, claheClipLimit, claheTileGrid)
		tl.Log(tl.Info, palette.Cyan, "Applied CLAHE (clip %.1f, %dx%d tiles)", claheClipLimit, claheTileGrid, claheTileGrid)
	} else {
		tl.Log(tl.Info, palette.Cyan, "Skipping %s", "CLAHE")
	}

	switch options.BlurType {
	case BlurGaussian:
		current = gaussianBlur(current, blurKernelSize)
		tl.Log(tl.Info, palette.Cyan, "Applied %s blur", "Gaussian")
	case BlurMedian:
		current = medianBlur(current, blurKernelSize)
		tl.Log(tl.Info, palette.Cyan, "Applied %s blur", "median")
	case BlurNone:
		tl.Log(tl.Info, palette.Cyan, "Skipping %s", "blur")
	default:
		tl.Log(tl.Warning, palette.YellowBold, "Unknown blur type '%s'. Skipping blur", string(options.BlurType))
	}

	conditioned := adaptiveGaussianThreshold(current, options.AdaptiveBlockSize, options.AdaptiveBias)
	tl.Log(
		tl.Info1, palette.Green, "Applied adaptive thresholding (block %d, bias %.0f, inverted)",
		options.AdaptiveBlockSize, options.AdaptiveBias,
	)

	return conditioned, nil
}

/*
toGray copies a decoded image into an origin-based single-channel buffer.
The source has already been desaturated, so the red channel is a sufficient
brightness proxy.
*/
func toGray(src *image.NRGBA) *image.Gray {
	width, height := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dst.Pix[y*dst.Stride+x] = src.Pix[y*src.Stride+x*4]
		}
	}
	return dst
}
