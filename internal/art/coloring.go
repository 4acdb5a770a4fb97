package art

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// innerPad is the temporary white border, in pixels, added around the
// image before filtering so edge detection does not produce artifacts at
// the raster boundary. It is removed before returning.
const innerPad = 10

// smoothRadius and contourRadius control the blur and edge-detection
// kernels of the line-art branch.
const (
	smoothRadius  = 1.0
	contourRadius = 1.0
)

// Options controls the coloring transform.
type Options struct {
	// Crop trims the image to its content bounding box before resizing.
	Crop bool

	// Color skips line-art conversion and returns the resized image
	// with its colors intact.
	Color bool

	// NoiseThreshold is the two-sided cutoff fraction: pixels brighter
	// than 255*(1-NoiseThreshold) are forced white, pixels darker than
	// 255*NoiseThreshold are forced black.
	NoiseThreshold float64

	// HistogramCutoff is the fraction of pixels clipped from each
	// histogram tail when stretching the remaining mid-tones.
	HistogramCutoff float64
}

// DefaultOptions returns the standard coloring-page settings.
func DefaultOptions() Options {
	return Options{
		Crop:            true,
		Color:           false,
		NoiseThreshold:  0.05,
		HistogramCutoff: 0.10,
	}
}

// ToColoring converts src into a coloring-page raster no larger than
// maxWidth x maxHeight. The input is never modified; the returned image
// is freshly allocated and owned by the caller. With Options.Color set
// the result is a color raster, otherwise a grayscale one.
func ToColoring(src image.Image, maxWidth, maxHeight int, opts Options) image.Image {
	img := flattenOnWhite(src)

	if opts.Crop {
		if bbox, ok := contentBounds(img); ok {
			img = imaging.Crop(img, bbox)
			img = padWhite(img, 1)
		}
	}

	img = aspectFit(img, maxWidth, maxHeight)

	if opts.Color {
		return img
	}

	gray := toGray(img)
	gray = padGray(gray, innerPad, 255)

	smoothed := blur.Gaussian(gray, smoothRadius)
	contours := effect.Invert(effect.EdgeDetection(smoothed, contourRadius))

	out := toGray(contours)
	applyNoiseThreshold(out, opts.NoiseThreshold)
	autocontrast(out, opts.HistogramCutoff, 255)

	return cropGray(out, innerPad)
}

// flattenOnWhite composites an image with an alpha channel over an
// opaque white background so transparent pixels render as white. Images
// without alpha are cloned untouched.
func flattenOnWhite(src image.Image) *image.NRGBA {
	if !hasAlpha(src) {
		return imaging.Clone(src)
	}
	bounds := src.Bounds()
	bg := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(bg, src, image.Pt(0, 0), 1.0)
}

func hasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.NRGBA, *image.RGBA, *image.NRGBA64, *image.RGBA64:
		return true
	}
	return false
}

// contentBounds computes the bounding box of non-background content: the
// smallest rectangle containing every pixel that is not pure white in
// the grayscale rendition. ok is false when the image is entirely
// background.
func contentBounds(img *image.NRGBA) (image.Rectangle, bool) {
	inverted := imaging.Invert(imaging.Grayscale(img))
	w := inverted.Bounds().Dx()
	h := inverted.Bounds().Dy()

	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		row := inverted.Pix[y*inverted.Stride : y*inverted.Stride+w*4]
		for x := 0; x < w; x++ {
			if row[x*4] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// aspectFit scales img so the limiting dimension exactly fits within
// (maxWidth, maxHeight), preserving aspect ratio, using Lanczos
// resampling.
func aspectFit(img *image.NRGBA, maxWidth, maxHeight int) *image.NRGBA {
	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()

	w := maxWidth
	h := int(float64(srcH) * float64(w) / float64(srcW))
	if h > maxHeight {
		h = maxHeight
		w = int(float64(srcW) * float64(h) / float64(srcH))
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// padWhite surrounds img with a white border of the given width.
func padWhite(img *image.NRGBA, border int) *image.NRGBA {
	out := imaging.New(img.Bounds().Dx()+2*border, img.Bounds().Dy()+2*border, color.White)
	return imaging.Paste(out, img, image.Pt(border, border))
}
