// Package sheet lays out coloring images onto a printable page raster.
package sheet

import (
	"fmt"
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/arcwork/pokesheet/internal/apperr"
)

// mmPerInch converts between millimeters and DPI-based pixel counts.
const mmPerInch = 25.4

// PageSpec describes the physical page and grid for one render. It is a
// pure value: mutations copy and replace the whole spec.
type PageSpec struct {
	WidthMM       float64
	HeightMM      float64
	OuterMarginMM float64
	InnerMarginMM float64
	FontSizeMM    float64
	DPI           int
	Rows          int
	Columns       int
	Color         bool
	Crop          bool
}

// Validate checks that all dimensions are positive and the grid is sane.
func (s PageSpec) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.WidthMM, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&s.HeightMM, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&s.OuterMarginMM, validation.Min(0.0)),
		validation.Field(&s.InnerMarginMM, validation.Min(0.0)),
		validation.Field(&s.FontSizeMM, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&s.DPI, validation.Required, validation.Min(1)),
		validation.Field(&s.Rows, validation.Required, validation.Min(1)),
		validation.Field(&s.Columns, validation.Required, validation.Min(1)),
	)
}

// Cells reports the grid capacity, rows x columns.
func (s PageSpec) Cells() int { return s.Rows * s.Columns }

// RotatePage returns a copy with width and height swapped.
func (s PageSpec) RotatePage() PageSpec {
	s.WidthMM, s.HeightMM = s.HeightMM, s.WidthMM
	return s
}

// RotateGrid returns a copy with rows and columns swapped.
func (s PageSpec) RotateGrid() PageSpec {
	s.Rows, s.Columns = s.Columns, s.Rows
	return s
}

// WithSize returns a copy set to a named standard page size, in
// landscape orientation when requested. Unknown names yield
// apperr.ErrNotFound.
func (s PageSpec) WithSize(name string, landscape bool) (PageSpec, error) {
	w, h, ok := SizeByName(name)
	if !ok {
		return s, fmt.Errorf("page size %q: %w", name, apperr.ErrNotFound)
	}
	if landscape {
		w, h = h, w
	}
	s.WidthMM = w
	s.HeightMM = h
	return s, nil
}

// Describe renders a human-readable page description such as
// "A4 Landscape" or "Custom Portrait" for status displays.
func (s PageSpec) Describe() string {
	desc := "Custom"
	for _, size := range StandardSizes {
		if (size.WidthMM == s.WidthMM || size.WidthMM == s.HeightMM) &&
			(size.HeightMM == s.WidthMM || size.HeightMM == s.HeightMM) {
			desc = size.Name
			break
		}
	}
	switch {
	case s.WidthMM > s.HeightMM:
		desc += " Landscape"
	case s.WidthMM < s.HeightMM:
		desc += " Portrait"
	}
	return desc
}

// Geometry is the pixel-space layout derived from a PageSpec. Every
// millimeter field converts independently via round(mm*dpi/25.4).
type Geometry struct {
	PageWidth    int
	PageHeight   int
	OuterMargin  int
	InnerMargin  int
	FontSize     int
	CellWidth    int
	CellHeight   int
	MaxImgWidth  int
	MaxImgHeight int
}

// Geometry computes the pixel layout for the page.
func (s PageSpec) Geometry() Geometry {
	g := Geometry{
		PageWidth:   mmToPx(s.WidthMM, s.DPI),
		PageHeight:  mmToPx(s.HeightMM, s.DPI),
		OuterMargin: mmToPx(s.OuterMarginMM, s.DPI),
		InnerMargin: mmToPx(s.InnerMarginMM, s.DPI),
		FontSize:    mmToPx(s.FontSizeMM, s.DPI),
	}
	g.CellWidth = (g.PageWidth - 2*g.OuterMargin) / s.Columns
	g.CellHeight = (g.PageHeight - 2*g.OuterMargin) / s.Rows
	g.MaxImgWidth = g.CellWidth - 2*g.InnerMargin
	g.MaxImgHeight = g.CellHeight - 2*g.InnerMargin
	return g
}

func mmToPx(mm float64, dpi int) int {
	return int(math.Round(mm * float64(dpi) / mmPerInch))
}

// Size is a named physical page format in portrait millimeters.
type Size struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

// StandardSizes lists the supported named page formats, portrait
// orientation, largest A-series first.
var StandardSizes = []Size{
	{"A0", 841, 1189},
	{"A1", 594, 841},
	{"A2", 420, 594},
	{"A3", 297, 420},
	{"A4", 210, 297},
	{"A5", 148, 210},
	{"Letter", 215.9, 279.4},
	{"Legal", 215.9, 355.6},
	{"Tabloid", 279.4, 431.8},
	{"Ledger", 279.4, 431.8},
	{"Junior Legal", 127, 203.2},
	{"Half Letter", 139.7, 215.9},
	{"Government Letter", 203.2, 266.7},
	{"Government Legal", 215.9, 330.2},
	{"ANSI A", 216, 279},
	{"ANSI B", 279, 432},
	{"ANSI C", 432, 559},
	{"ANSI D", 559, 864},
}

// SizeByName looks up a standard size case-insensitively.
func SizeByName(name string) (widthMM, heightMM float64, ok bool) {
	for _, s := range StandardSizes {
		if strings.EqualFold(s.Name, name) {
			return s.WidthMM, s.HeightMM, true
		}
	}
	return 0, 0, false
}
