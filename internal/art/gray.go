package art

import (
	"image"
)

// toGray converts any image to 8-bit grayscale using ITU-R BT.601
// luminance weights (0.299*R + 0.587*G + 0.114*B).
func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			lum := (299*(r>>8) + 587*(g>>8) + 114*(b>>8)) / 1000
			out.Pix[y*out.Stride+x] = uint8(lum)
		}
	}
	return out
}

// padGray surrounds g with a border filled with the given value.
func padGray(g *image.Gray, border int, fill uint8) *image.Gray {
	w := g.Bounds().Dx()
	h := g.Bounds().Dy()

	out := image.NewGray(image.Rect(0, 0, w+2*border, h+2*border))
	for i := range out.Pix {
		out.Pix[i] = fill
	}
	for y := 0; y < h; y++ {
		copy(out.Pix[(y+border)*out.Stride+border:(y+border)*out.Stride+border+w],
			g.Pix[y*g.Stride:y*g.Stride+w])
	}
	return out
}

// cropGray removes a border of the given width from all sides.
func cropGray(g *image.Gray, border int) *image.Gray {
	w := g.Bounds().Dx() - 2*border
	h := g.Bounds().Dy() - 2*border

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+w],
			g.Pix[(y+border)*g.Stride+border:(y+border)*g.Stride+border+w])
	}
	return out
}

// applyNoiseThreshold forces near-white pixels fully white and
// near-black pixels fully black, in place. threshold is the fraction of
// the value range treated as noise on each side.
func applyNoiseThreshold(g *image.Gray, threshold float64) {
	white := uint8(255 * (1 - threshold))
	black := uint8(255 * threshold)
	for i, p := range g.Pix {
		switch {
		case p > white:
			g.Pix[i] = 255
		case p < black:
			g.Pix[i] = 0
		}
	}
}

// autocontrast stretches the histogram of g in place, clipping the given
// fraction of pixels from each tail before computing the stretch range.
// Pixels with the ignore value are treated as background and excluded
// from the histogram, though the final mapping still applies to them.
func autocontrast(g *image.Gray, cutoff float64, ignore int) {
	var hist [256]int
	for _, p := range g.Pix {
		hist[p]++
	}
	if ignore >= 0 && ignore < 256 {
		hist[ignore] = 0
	}

	total := 0
	for _, n := range hist {
		total += n
	}
	if total == 0 {
		return
	}

	if cutoff > 0 {
		// Clip cutoff*total pixels from the low tail.
		cut := int(float64(total) * cutoff)
		for i := 0; i < 256 && cut > 0; i++ {
			n := hist[i]
			if n > cut {
				hist[i] -= cut
				cut = 0
			} else {
				hist[i] = 0
				cut -= n
			}
		}
		// And from the high tail.
		cut = int(float64(total) * cutoff)
		for i := 255; i >= 0 && cut > 0; i-- {
			n := hist[i]
			if n > cut {
				hist[i] -= cut
				cut = 0
			} else {
				hist[i] = 0
				cut -= n
			}
		}
	}

	lo, hi := -1, -1
	for i := 0; i < 256; i++ {
		if hist[i] > 0 {
			lo = i
			break
		}
	}
	for i := 255; i >= 0; i-- {
		if hist[i] > 0 {
			hi = i
			break
		}
	}
	if lo < 0 || hi <= lo {
		return
	}

	scale := 255.0 / float64(hi-lo)
	var lut [256]uint8
	for i := range lut {
		v := float64(i-lo) * scale
		switch {
		case v < 0:
			lut[i] = 0
		case v > 255:
			lut[i] = 255
		default:
			lut[i] = uint8(v + 0.5)
		}
	}
	for i, p := range g.Pix {
		g.Pix[i] = lut[p]
	}
}
