package ocr

import (
	"image"
	"math"
	"sort"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"github.com/pangkywara/tesseractgui/src/pkg/util"
)

// skewGate is the angle magnitude (degrees) below which rotation is skipped:
// re-sampling for negligible skew only adds noise.
const skewGate = 0.5

/*
DeskewResult is the tagged outcome of a deskew attempt. Applied tells the
caller whether Image is a rotated copy or the untouched input buffer, so the
"best effort, never fails the pipeline" contract is visible in the type.
*/
type DeskewResult struct {
	Image   *image.Gray
	Applied bool
	// Angle is the corrective rotation in degrees (0 when not applied).
	Angle float64
}

/*
Deskew estimates the document rotation of a grayscale buffer from its pixel
geometry and rotates it straight when the estimate is significant.

The estimate inverts the image, isolates candidate text pixels with a global
Otsu threshold, and takes the angle of the minimum-area rectangle enclosing
them. Estimation failure of any kind (including degenerate geometry) is
recovered locally: the input comes back unchanged and the pipeline continues.
*/
func Deskew(gray *image.Gray) (result DeskewResult) {
	result = DeskewResult{Image: gray}

	defer func() {
		if panicValue := recover(); panicValue != nil {
			tl.Log(tl.Warning, palette.YellowBold, "Deskew estimation failed: '%v'. Keeping image as is", panicValue)
			result = DeskewResult{Image: gray}
		}
	}()

	angle, found := estimateSkewAngle(gray)
	if !found {
		tl.Log(tl.Info, palette.Cyan, "Deskew: no candidate text pixels, %s", "skipping rotation")
		return result
	}

	tl.Log(tl.Info, palette.Cyan, "Deskew: estimated angle %.2f degrees", angle)

	if math.Abs(angle) <= skewGate {
		tl.Log(tl.Info, palette.Cyan, "Deskew: angle within %.1f degrees, %s", skewGate, "skipping rotation")
		return result
	}

	result = DeskewResult{
		Image:   rotateAboutCenter(gray, angle),
		Applied: true,
		Angle:   angle,
	}
	tl.Log(tl.Info1, palette.Green, "Deskew: rotated image by %.2f degrees", angle)
	return result
}

/*
estimateSkewAngle returns the corrective rotation for the grayscale buffer,
in degrees, and whether any candidate text pixels were found at all.

The minimum-area rectangle reports its angle in [-90, 0); that convention is
normalized onto a signed rotation relative to the horizontal axis: angles
below -45 map to -(90+angle), the rest to -angle.
*/
func estimateSkewAngle(gray *image.Gray) (angle float64, found bool) {
	inverted := invert(gray)
	candidates := binarize(inverted, otsuThreshold(inverted))

	points := collectExtremePoints(candidates)
	if len(points) == 0 {
		return 0, false
	}

	rectAngle := minAreaRectAngle(points)
	if rectAngle < -45 {
		angle = -(90 + rectAngle)
	} else {
		angle = -rectAngle
	}
	return angle, true
}

type point struct {
	a, b float64
}

/*
collectExtremePoints gathers (row, column) coordinates of non-zero pixels.
Only the leftmost and rightmost hit of each row is kept: the convex hull of
the per-row extremes equals the hull of the full point set, which keeps the
hull computation cheap on dense text regions.
*/
func collectExtremePoints(binary *image.Gray) []point {
	width, height := binary.Rect.Dx(), binary.Rect.Dy()
	points := make([]point, 0, height*2)
	for y := 0; y < height; y++ {
		first, last := -1, -1
		for x := 0; x < width; x++ {
			if binary.Pix[y*binary.Stride+x] != 0 {
				if first < 0 {
					first = x
				}
				last = x
			}
		}
		if first < 0 {
			continue
		}
		points = append(points, point{a: float64(y), b: float64(first)})
		if last != first {
			points = append(points, point{a: float64(y), b: float64(last)})
		}
	}
	return points
}

/*
minAreaRectAngle fits the minimum-area bounding rectangle over the points
(convex hull, then rotating calipers over the hull edges) and reports its
orientation in the half-open range [-90, 0).
*/
func minAreaRectAngle(points []point) float64 {
	hull := convexHull(points)
	if len(hull) < 3 {
		// A single point or a perfectly axis-aligned line: treat as upright.
		return -90
	}

	bestArea := math.Inf(1)
	bestEdgeAngle := 0.0
	for i := 0; i < len(hull); i++ {
		edge := point{
			a: hull[(i+1)%len(hull)].a - hull[i].a,
			b: hull[(i+1)%len(hull)].b - hull[i].b,
		}
		length := math.Hypot(edge.a, edge.b)
		if length == 0 {
			continue
		}
		unitA, unitB := edge.a/length, edge.b/length

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			u := p.a*unitA + p.b*unitB
			v := -p.a*unitB + p.b*unitA
			minU, maxU = math.Min(minU, u), math.Max(maxU, u)
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
		}

		area := (maxU - minU) * (maxV - minV)
		if area < bestArea {
			bestArea = area
			bestEdgeAngle = math.Atan2(unitB, unitA) * 180 / math.Pi
		}
	}

	// Rectangle edges repeat every 90 degrees; fold the edge orientation into
	// [0, 90) and shift it into the [-90, 0) reporting convention.
	folded := math.Mod(bestEdgeAngle, 90)
	if folded < 0 {
		folded += 90
	}
	return folded - 90
}

// convexHull computes the hull with the monotone chain algorithm, in
// counter-clockwise order without the duplicated endpoint.
func convexHull(points []point) []point {
	if len(points) < 3 {
		return points
	}
	sorted := make([]point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].a != sorted[j].a {
			return sorted[i].a < sorted[j].a
		}
		return sorted[i].b < sorted[j].b
	})

	cross := func(o, p, q point) float64 {
		return (p.a-o.a)*(q.b-o.b) - (p.b-o.b)*(q.a-o.a)
	}

	hull := make([]point, 0, len(sorted)*2)
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

/*
rotateAboutCenter rotates the buffer by the given angle (degrees) around its
center, sampling with cubic (Catmull-Rom) interpolation and replicating
border pixels from the edge. Dimensions are preserved.
*/
func rotateAboutCenter(src *image.Gray, angleDegrees float64) *image.Gray {
	width, height := src.Rect.Dx(), src.Rect.Dy()
	radians := angleDegrees * math.Pi / 180
	sin, cos := math.Sin(radians), math.Cos(radians)
	centerX := float64(width-1) / 2
	centerY := float64(height-1) / 2

	dst := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Inverse mapping of the forward rotation.
			dx := float64(x) - centerX
			dy := float64(y) - centerY
			sourceX := cos*dx - sin*dy + centerX
			sourceY := sin*dx + cos*dy + centerY
			dst.Pix[y*dst.Stride+x] = sampleCubic(src, sourceX, sourceY)
		}
	}
	return dst
}

// catmullRom is the cubic interpolation weight for a tap at distance t.
func catmullRom(t float64) float64 {
	t = math.Abs(t)
	switch {
	case t < 1:
		return 1.5*t*t*t - 2.5*t*t + 1
	case t < 2:
		return -0.5*t*t*t + 2.5*t*t - 4*t + 2
	default:
		return 0
	}
}

// sampleCubic reads a sub-pixel position with a 4x4 Catmull-Rom filter,
// replicating edge pixels outside the buffer.
func sampleCubic(src *image.Gray, x, y float64) uint8 {
	baseX := math.Floor(x)
	baseY := math.Floor(y)
	fracX := x - baseX
	fracY := y - baseY

	sum := 0.0
	weightSum := 0.0
	for tapY := -1; tapY <= 2; tapY++ {
		weightY := catmullRom(float64(tapY) - fracY)
		if weightY == 0 {
			continue
		}
		for tapX := -1; tapX <= 2; tapX++ {
			weightX := catmullRom(float64(tapX) - fracX)
			if weightX == 0 {
				continue
			}
			weight := weightX * weightY
			sample := grayAtClamped(src, int(baseX)+tapX, int(baseY)+tapY)
			sum += weight * float64(sample)
			weightSum += weight
		}
	}
	if weightSum == 0 {
		return grayAtClamped(src, int(baseX), int(baseY))
	}
	return uint8(util.Clamp(int(math.Round(sum/weightSum)), 0, 255))
}
