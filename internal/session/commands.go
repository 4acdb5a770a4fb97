package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrQuit signals that the user asked to leave the session.
var ErrQuit = errors.New("quit")

// Command is one entry of the interactive command table.
type Command struct {
	Name    string
	ArgDesc string
	Help    string

	// Run executes the command. A nil Run marks commands the shell
	// handles itself (currently only help).
	Run func(ctx context.Context, s *Session, arg string) error
}

// Commands returns the static command table, in display order.
func Commands() []Command {
	return []Command{
		{Name: "help", Help: "Show help"},
		{Name: "quit", Help: "Quit the CLI app",
			Run: func(ctx context.Context, s *Session, arg string) error { return ErrQuit }},
		{Name: "reset_selection", Help: "Clear selection and reselect random Pokémon",
			Run: func(ctx context.Context, s *Session, arg string) error {
				s.ClearSelection()
				return nil
			}},
		{Name: "reset_page", Help: "Reset page setup",
			Run: func(ctx context.Context, s *Session, arg string) error {
				s.ResetSpec()
				return nil
			}},
		{Name: "page_width", ArgDesc: "width", Help: "Set page width in mm",
			Run: func(ctx context.Context, s *Session, arg string) error { return s.SetPageWidth(arg) }},
		{Name: "page_height", ArgDesc: "height", Help: "Set page height in mm",
			Run: func(ctx context.Context, s *Session, arg string) error { return s.SetPageHeight(arg) }},
		{Name: "outer_margin", ArgDesc: "margin", Help: "Set outer margin in mm",
			Run: func(ctx context.Context, s *Session, arg string) error { return s.SetOuterMargin(arg) }},
		{Name: "inner_margin", ArgDesc: "margin", Help: "Set inner margin in mm",
			Run: func(ctx context.Context, s *Session, arg string) error { return s.SetInnerMargin(arg) }},
		{Name: "font_size", ArgDesc: "size", Help: "Set font size in mm",
			Run: func(ctx context.Context, s *Session, arg string) error { return s.SetFontSize(arg) }},
		{Name: "rows", ArgDesc: "number", Help: "Set number of rows",
			Run: func(ctx context.Context, s *Session, arg string) error { return s.SetRows(arg) }},
		{Name: "columns", ArgDesc: "number", Help: "Set number of columns",
			Run: func(ctx context.Context, s *Session, arg string) error { return s.SetColumns(arg) }},
		{Name: "page_orientation", Help: "Switch page orientation between portrait and landscape",
			Run: func(ctx context.Context, s *Session, arg string) error {
				s.RotatePage()
				return nil
			}},
		{Name: "grid_orientation", Help: "Swap grid rows and columns",
			Run: func(ctx context.Context, s *Session, arg string) error {
				s.RotateGrid()
				return nil
			}},
		{Name: "page_size", ArgDesc: "size [orientation]", Help: "Set a standard page size and orientation",
			Run: func(ctx context.Context, s *Session, arg string) error { return s.SetPageSize(arg) }},
		{Name: "type_filter", ArgDesc: "[type]", Help: "Limit the Pokédex to one type; no argument clears the filter",
			Run: func(ctx context.Context, s *Session, arg string) error { return s.ApplyTypeFilter(ctx, arg) }},
		{Name: "color", Help: "Toggle color output instead of line art",
			Run: func(ctx context.Context, s *Session, arg string) error {
				s.ToggleColor()
				return nil
			}},
		{Name: "crop", Help: "Toggle cropping images to their content",
			Run: func(ctx context.Context, s *Session, arg string) error {
				s.ToggleCrop()
				return nil
			}},
		{Name: "save", ArgDesc: "[path]", Help: "Generate the coloring page and save it as PNG",
			Run: func(ctx context.Context, s *Session, arg string) error {
				path := arg
				if path == "" {
					path = fmt.Sprintf("pokesheet-%s.png", time.Now().Format("20060102-150405"))
				}
				out, err := s.Render(ctx)
				if err != nil {
					return err
				}
				return out.SavePNG(path)
			}},
	}
}

// LookupCommand finds a command by name.
func LookupCommand(name string) (Command, bool) {
	for _, c := range Commands() {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}
