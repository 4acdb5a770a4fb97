package sheet

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math/rand"
	"time"

	"github.com/disintegration/imaging"

	"github.com/arcwork/pokesheet/internal/art"
)

// ArtworkSource resolves ids to source artwork and printable names.
type ArtworkSource interface {
	Resolve(ctx context.Context, id int) (image.Image, error)
	DisplayName(ctx context.Context, id int, fallback string) string
}

// Catalog is the subset of the Pokédex the compositor needs for random
// fill and labels.
type Catalog interface {
	NameOf(id int) string
	TypesOf(id int) []string
	IDs() []int
	Len() int
}

// Sheet is one composed output page and the ids it actually rendered, in
// cell order.
type Sheet struct {
	Image *image.NRGBA
	Used  []int
}

// SavePNG writes the sheet to path as a PNG file.
func (s *Sheet) SavePNG(path string) error {
	return imaging.Save(s.Image, path)
}

// Compositor renders selection lists into printable sheets.
type Compositor struct {
	art art.Options
	src ArtworkSource
	cat Catalog
	rng *rand.Rand
	log *slog.Logger
}

// NewCompositor creates a Compositor. rng may be nil, in which case a
// time-seeded source is used.
func NewCompositor(src ArtworkSource, cat Catalog, rng *rand.Rand) *Compositor {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Compositor{
		art: art.DefaultOptions(),
		src: src,
		cat: cat,
		rng: rng,
		log: slog.Default(),
	}
}

// Compose renders a sheet for spec. Cells are filled row-major: ids are
// consumed from the head of the explicit list first, then topped up with
// random unused catalog picks. A failing id never aborts the sheet; it
// is logged, dropped (when explicit), and replaced. No id repeats within
// one sheet.
func (c *Compositor) Compose(ctx context.Context, ids []int, spec PageSpec) (*Sheet, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("page spec: %w", err)
	}
	if c.cat.Len() == 0 {
		return nil, fmt.Errorf("empty catalog")
	}

	geom := spec.Geometry()
	canvas := imaging.New(geom.PageWidth, geom.PageHeight, color.White)

	include := make([]int, len(ids))
	copy(include, ids)

	used := make(map[int]bool)
	usedOrder := make([]int, 0, spec.Cells())

	opts := c.art
	opts.Color = spec.Color
	opts.Crop = spec.Crop

	for row := 0; row < spec.Rows; row++ {
		for col := 0; col < spec.Columns; col++ {
			id, cell, err := c.fillCell(ctx, &include, used, geom, opts)
			if err != nil {
				return nil, fmt.Errorf("cell %d,%d: %w", row, col, err)
			}
			used[id] = true
			usedOrder = append(usedOrder, id)

			x := col*geom.CellWidth + geom.OuterMargin
			y := row*geom.CellHeight + geom.OuterMargin
			dx := (geom.CellWidth - cell.Bounds().Dx()) / 2
			dy := (geom.CellHeight - cell.Bounds().Dy()) / 2
			canvas = imaging.Paste(canvas, cell, image.Pt(x+dx, y+dy))

			lines := c.labelLines(ctx, id)
			if err := drawLabel(canvas, x+geom.InnerMargin, y+geom.InnerMargin, lines, geom.FontSize); err != nil {
				return nil, fmt.Errorf("draw label for %d: %w", id, err)
			}
		}
	}

	drawSeparators(canvas, spec, geom)

	return &Sheet{Image: canvas, Used: usedOrder}, nil
}

// fillCell picks the next candidate id and transforms its artwork,
// retrying on failure. Explicit ids that fail are dropped so they are
// not re-offered; random picks simply re-roll. Attempts are bounded by
// the catalog size plus the explicit list so a shrinking candidate pool
// cannot loop forever.
func (c *Compositor) fillCell(ctx context.Context, include *[]int, used map[int]bool, geom Geometry, opts art.Options) (int, image.Image, error) {
	maxAttempts := c.cat.Len() + len(*include)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		var id int
		explicit := false
		if len(*include) > 0 {
			id = (*include)[0]
			explicit = true
		} else {
			var ok bool
			id, ok = c.randomUnused(used)
			if !ok {
				return 0, nil, fmt.Errorf("catalog exhausted after %d cells", len(used))
			}
		}

		if used[id] {
			if explicit {
				*include = (*include)[1:]
			}
			continue
		}

		src, err := c.src.Resolve(ctx, id)
		if err != nil {
			c.log.Warn("skipping pokemon", "id", id, "error", err)
			if explicit {
				*include = (*include)[1:]
			}
			continue
		}

		cell := art.ToColoring(src, geom.MaxImgWidth, geom.MaxImgHeight, opts)

		if explicit {
			*include = (*include)[1:]
		}
		return id, cell, nil
	}
	return 0, nil, fmt.Errorf("no renderable candidate found")
}

// randomUnused picks a uniformly random catalog id not yet used in this
// render.
func (c *Compositor) randomUnused(used map[int]bool) (int, bool) {
	candidates := make([]int, 0, c.cat.Len()-len(used))
	for _, id := range c.cat.IDs() {
		if !used[id] {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[c.rng.Intn(len(candidates))], true
}

// labelLines builds the cell annotation: "#<id> - <name>" followed by
// one capitalized type tag per line.
func (c *Compositor) labelLines(ctx context.Context, id int) []string {
	name := c.src.DisplayName(ctx, id, c.cat.NameOf(id))
	lines := []string{fmt.Sprintf("#%d - %s", id, name)}
	for _, t := range c.cat.TypesOf(id) {
		lines = append(lines, capWords(t))
	}
	return lines
}

// drawSeparators draws 1px black lines at each interior row and column
// boundary, spanning between the outer margins.
func drawSeparators(canvas *image.NRGBA, spec PageSpec, geom Geometry) {
	black := color.NRGBA{A: 255}

	for i := 1; i < spec.Rows; i++ {
		y := geom.CellHeight*i + geom.OuterMargin
		for x := geom.OuterMargin; x <= geom.PageWidth-geom.OuterMargin; x++ {
			canvas.SetNRGBA(x, y, black)
		}
	}
	for i := 1; i < spec.Columns; i++ {
		x := geom.CellWidth*i + geom.OuterMargin
		for y := geom.OuterMargin; y <= geom.PageHeight-geom.OuterMargin; y++ {
			canvas.SetNRGBA(x, y, black)
		}
	}
}
