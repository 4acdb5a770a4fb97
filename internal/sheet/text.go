package sheet

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	labelFontOnce sync.Once
	labelFont     *opentype.Font
	labelFontErr  error
)

func loadLabelFont() (*opentype.Font, error) {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = opentype.Parse(goregular.TTF)
	})
	return labelFont, labelFontErr
}

// drawLabel renders lines of black text onto dst with the top-left of
// the first line at (x, y). sizePx is the font size in pixels.
func drawLabel(dst draw.Image, x, y int, lines []string, sizePx int) error {
	if sizePx < 1 {
		sizePx = 1
	}
	f, err := loadLabelFont()
	if err != nil {
		return err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72, // size is already in pixels
		Hinting: font.HintingFull,
	})
	if err != nil {
		return err
	}
	defer face.Close()

	metrics := face.Metrics()
	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}

	baseline := fixed.I(y) + metrics.Ascent
	for _, line := range lines {
		drawer.Dot = fixed.Point26_6{X: fixed.I(x), Y: baseline}
		drawer.DrawString(line)
		baseline += metrics.Height
	}
	return nil
}

// capWords capitalizes each word, treating hyphens as spaces, for type
// tag labels.
func capWords(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
