// Package session drives one interactive run: the current catalog,
// selection list, and page configuration, plus the command table the
// shell routes user input through.
package session

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/arcwork/pokesheet/internal/apperr"
	"github.com/arcwork/pokesheet/internal/cache"
	"github.com/arcwork/pokesheet/internal/pokedex"
	"github.com/arcwork/pokesheet/internal/sheet"
)

// Prewarmer is implemented by artwork sources that can populate their
// caches ahead of a render.
type Prewarmer interface {
	Prewarm(ctx context.Context, ids []int, fallbackName func(int) string)
}

// Session is the mutable state of one interactive run. It is not safe
// for concurrent use; a single REPL goroutine drives it.
type Session struct {
	types pokedex.TypeSource
	store *cache.Store
	art   sheet.ArtworkSource
	rng   *rand.Rand

	catalog *pokedex.Catalog
	sel     Selection

	spec    sheet.PageSpec
	initial sheet.PageSpec
}

// New creates a Session with the given initial page spec. rng may be nil
// for a time-seeded source. Call Init before use.
func New(types pokedex.TypeSource, art sheet.ArtworkSource, store *cache.Store, spec sheet.PageSpec, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		types:   types,
		store:   store,
		art:     art,
		rng:     rng,
		spec:    spec,
		initial: spec,
	}
}

// Init builds the unfiltered catalog.
func (s *Session) Init(ctx context.Context) error {
	cat, err := pokedex.Build(ctx, s.types, s.store, "")
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}
	s.catalog = cat
	return nil
}

// Catalog returns the active (possibly type-filtered) catalog.
func (s *Session) Catalog() *pokedex.Catalog { return s.catalog }

// Spec returns the current page spec.
func (s *Session) Spec() sheet.PageSpec { return s.spec }

// Selection returns the selection list ids in order.
func (s *Session) Selection() []int { return s.sel.IDs() }

// UserPicked reports the user-picked prefix length of the selection.
func (s *Session) UserPicked() int { return s.sel.UserPicked() }

// Autofill tops the selection up to the grid capacity with random
// catalog entries. Call before each prompt and before rendering.
func (s *Session) Autofill() {
	s.sel.Fill(s.spec.Cells(), s.catalog.IDs(), s.rng)
}

// Pick adds a Pokémon by name to the front of the selection.
func (s *Session) Pick(name string) error {
	id, ok := s.catalog.ResolveID(name)
	if !ok {
		return fmt.Errorf("unknown pokemon %q: %w", name, apperr.ErrNotFound)
	}
	return s.sel.Pick(id, s.spec.Cells())
}

// ClearSelection empties the selection; the next Autofill reselects
// random entries.
func (s *Session) ClearSelection() { s.sel.Clear() }

// ResetSpec restores the page spec supplied at session start. The
// selection is kept but will be re-fit to the restored grid.
func (s *Session) ResetSpec() { s.spec = s.initial }

// ApplyTypeFilter rebuilds the catalog scoped to one type tag, or
// unfiltered when name is empty. A filter matching fewer Pokémon than
// the grid needs is rejected and the previous catalog kept.
func (s *Session) ApplyTypeFilter(ctx context.Context, name string) error {
	cat, err := pokedex.Build(ctx, s.types, s.store, name)
	if err != nil {
		return err
	}
	if cat.Len() < s.spec.Cells() {
		return fmt.Errorf("type %q has only %d pokemon, need %d: %w",
			name, cat.Len(), s.spec.Cells(), apperr.ErrInvalidInput)
	}
	s.catalog = cat
	// Entries picked under the old catalog may not exist anymore.
	s.sel.Clear()
	return nil
}

// Render composes the current selection into a sheet, pre-warming the
// artwork cache first when the source supports it.
func (s *Session) Render(ctx context.Context) (*sheet.Sheet, error) {
	s.Autofill()
	ids := s.sel.IDs()

	if p, ok := s.art.(Prewarmer); ok {
		p.Prewarm(ctx, ids, s.catalog.NameOf)
	}

	comp := sheet.NewCompositor(s.art, s.catalog, s.rng)
	return comp.Compose(ctx, ids, s.spec)
}

// Page spec mutations. Each parses its argument, rejects malformed
// input without touching the current value, and otherwise replaces the
// spec wholesale.

func (s *Session) SetPageWidth(arg string) error {
	return s.setFloat(arg, "page width", func(spec *sheet.PageSpec, v float64) { spec.WidthMM = v })
}

func (s *Session) SetPageHeight(arg string) error {
	return s.setFloat(arg, "page height", func(spec *sheet.PageSpec, v float64) { spec.HeightMM = v })
}

func (s *Session) SetOuterMargin(arg string) error {
	return s.setFloat(arg, "outer margin", func(spec *sheet.PageSpec, v float64) { spec.OuterMarginMM = v })
}

func (s *Session) SetInnerMargin(arg string) error {
	return s.setFloat(arg, "inner margin", func(spec *sheet.PageSpec, v float64) { spec.InnerMarginMM = v })
}

func (s *Session) SetFontSize(arg string) error {
	return s.setFloat(arg, "font size", func(spec *sheet.PageSpec, v float64) { spec.FontSizeMM = v })
}

func (s *Session) SetRows(arg string) error {
	return s.setInt(arg, "number of rows", func(spec *sheet.PageSpec, v int) { spec.Rows = v })
}

func (s *Session) SetColumns(arg string) error {
	return s.setInt(arg, "number of columns", func(spec *sheet.PageSpec, v int) { spec.Columns = v })
}

// RotatePage swaps page width and height.
func (s *Session) RotatePage() { s.spec = s.spec.RotatePage() }

// RotateGrid swaps rows and columns.
func (s *Session) RotateGrid() { s.spec = s.spec.RotateGrid() }

// ToggleColor flips color mode and reports the new state.
func (s *Session) ToggleColor() bool {
	s.spec.Color = !s.spec.Color
	return s.spec.Color
}

// ToggleCrop flips crop mode and reports the new state.
func (s *Session) ToggleCrop() bool {
	s.spec.Crop = !s.spec.Crop
	return s.spec.Crop
}

// SetPageSize sets a named standard page size. The argument is the size
// name optionally followed by "portrait" or "landscape".
func (s *Session) SetPageSize(arg string) error {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return fmt.Errorf("page size required: %w", apperr.ErrInvalidInput)
	}

	landscape := false
	last := strings.ToLower(fields[len(fields)-1])
	if last == "landscape" || last == "portrait" {
		landscape = last == "landscape"
		fields = fields[:len(fields)-1]
	}

	spec, err := s.spec.WithSize(strings.Join(fields, " "), landscape)
	if err != nil {
		return err
	}
	s.spec = spec
	return nil
}

func (s *Session) setFloat(arg, what string, apply func(*sheet.PageSpec, float64)) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("invalid %s %q: %w", what, arg, apperr.ErrInvalidInput)
	}
	spec := s.spec
	apply(&spec, v)
	s.spec = spec
	return nil
}

func (s *Session) setInt(arg, what string, apply func(*sheet.PageSpec, int)) error {
	v, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || v <= 0 {
		return fmt.Errorf("invalid %s %q: %w", what, arg, apperr.ErrInvalidInput)
	}
	spec := s.spec
	apply(&spec, v)
	s.spec = spec
	return nil
}
