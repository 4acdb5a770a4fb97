// Package shell is the interactive front end: it prints session state,
// reads user input line by line, and routes commands to the session.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/fatih/color"

	"github.com/arcwork/pokesheet/internal/pokedex"
	"github.com/arcwork/pokesheet/internal/session"
)

var (
	headerWhite = color.New(color.FgWhite)
	setupColor  = color.New(color.FgHiBlack)
	pickedColor = color.New(color.FgGreen)
	autoColor   = color.New(color.FgHiBlack)
	errorColor  = color.New(color.FgRed)
	hintColor   = color.New(color.FgBlue)
)

// rainbow colors the app title one letter at a time, like a box of
// crayons.
var rainbow = []*color.Color{
	color.New(color.FgRed),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgBlue),
	color.New(color.FgMagenta),
	color.New(color.FgCyan),
}

// Shell runs the interactive loop against a session.
type Shell struct {
	Session *session.Session
	In      io.Reader
	Out     io.Writer

	messages []string
}

// New creates a Shell on stdin/stdout.
func New(s *session.Session) *Shell {
	return &Shell{Session: s, In: os.Stdin, Out: os.Stdout}
}

// Run drives the prompt loop until EOF or the quit command.
func (sh *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(sh.In)
	for {
		sh.Session.Autofill()
		sh.printInfo()
		sh.printMessages()

		fmt.Fprint(sh.Out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			sh.preview(ctx)
		case strings.HasPrefix(line, ":"):
			if err := sh.dispatch(ctx, line[1:]); err != nil {
				if errors.Is(err, session.ErrQuit) {
					return nil
				}
				sh.say(err.Error())
			}
		default:
			if err := sh.Session.Pick(line); err != nil {
				sh.say(err.Error())
			}
		}
	}
}

// dispatch runs one ":name arg..." command.
func (sh *Shell) dispatch(ctx context.Context, input string) error {
	name, arg, _ := strings.Cut(input, " ")
	cmd, ok := session.LookupCommand(name)
	if !ok {
		return fmt.Errorf("invalid command %q, see :help", name)
	}
	if cmd.Run == nil {
		sh.printHelp()
		return nil
	}
	return cmd.Run(ctx, sh.Session, strings.TrimSpace(arg))
}

// preview renders the sheet to a temporary PNG and opens it in the
// platform image viewer.
func (sh *Shell) preview(ctx context.Context) {
	hintColor.Fprintln(sh.Out, "Generating coloring page...")

	out, err := sh.Session.Render(ctx)
	if err != nil {
		sh.say(fmt.Sprintf("generate: %v", err))
		return
	}

	f, err := os.CreateTemp("", "pokesheet-*.png")
	if err != nil {
		sh.say(fmt.Sprintf("temp file: %v", err))
		return
	}
	f.Close()
	if err := out.SavePNG(f.Name()); err != nil {
		sh.say(fmt.Sprintf("save: %v", err))
		return
	}

	if err := openViewer(f.Name()); err != nil {
		sh.say(fmt.Sprintf("coloring page written to %s (no viewer: %v)", f.Name(), err))
		return
	}
	sh.messages = append(sh.messages, hintColor.Sprint("Coloring page generated."))
}

func (sh *Shell) printInfo() {
	clearScreen(sh.Out)

	title := "COLORING"
	headerWhite.Fprint(sh.Out, "Pokémon ")
	for i, r := range title {
		rainbow[i%len(rainbow)].Fprint(sh.Out, string(r))
	}
	headerWhite.Fprintln(sh.Out, " page CLI")
	fmt.Fprintln(sh.Out)

	spec := sh.Session.Spec()
	setupColor.Fprintf(sh.Out, "Page size:\t%gx%gmm (%s)\n", spec.WidthMM, spec.HeightMM, spec.Describe())
	setupColor.Fprintf(sh.Out, "Outer margin:\t%gmm\n", spec.OuterMarginMM)
	setupColor.Fprintf(sh.Out, "Inner margin:\t%gmm\n", spec.InnerMarginMM)
	setupColor.Fprintf(sh.Out, "Font size:\t%gmm\n", spec.FontSizeMM)
	setupColor.Fprintf(sh.Out, "Grid:\t\t%dx%d\n", spec.Columns, spec.Rows)
	setupColor.Fprintf(sh.Out, "Mode:\t\tcolor=%v crop=%v\n", spec.Color, spec.Crop)
	if f := sh.Session.Catalog().Filter(); f != "" {
		setupColor.Fprintf(sh.Out, "Type filter:\t%s (%d pokemon)\n", f, sh.Session.Catalog().Len())
	}
	fmt.Fprintln(sh.Out)
	fmt.Fprint(sh.Out, "Use ")
	hintColor.Fprint(sh.Out, ":help")
	fmt.Fprintln(sh.Out, " command for help.")
	fmt.Fprintln(sh.Out)

	fmt.Fprintln(sh.Out, "Selected Pokémon (auto/manual):")
	cat := sh.Session.Catalog()
	for i, id := range sh.Session.Selection() {
		c := autoColor
		if i < sh.Session.UserPicked() {
			c = pickedColor
		}
		c.Fprintf(sh.Out, " >> #%-4d %s ", id, cat.NameOf(id))
		for _, t := range cat.TypesOf(id) {
			r, g, b := pokedex.TypeColor(t)
			color.RGB(int(r), int(g), int(b)).Fprintf(sh.Out, "[%s]", t)
		}
		fmt.Fprintln(sh.Out)
	}
}

func (sh *Shell) printHelp() {
	lines := []string{
		"",
		"The initial list of Pokémon is randomly selected.",
		"You can select others by typing in their names.",
		"Adding Pokémon will remove the last Pokémon in the list.",
		"",
		"Available commands:",
	}
	sh.messages = append(sh.messages, lines...)

	width := 0
	table := session.Commands()
	for _, c := range table {
		if n := len(c.Name) + 1 + len(c.ArgDesc); n > width {
			width = n
		}
	}
	for _, c := range table {
		left := ":" + c.Name
		if c.ArgDesc != "" {
			left += " " + c.ArgDesc
		}
		sh.messages = append(sh.messages, fmt.Sprintf("  %-*s  %s", width+1, left, c.Help))
	}
	sh.messages = append(sh.messages,
		"",
		"Press Enter with empty prompt to generate the coloring page.",
		"")
}

func (sh *Shell) say(msg string) {
	sh.messages = append(sh.messages, errorColor.Sprint(msg))
}

func (sh *Shell) printMessages() {
	for _, m := range sh.messages {
		fmt.Fprintln(sh.Out, m)
	}
	sh.messages = nil
}

func clearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[2J\033[H")
}

// openViewer opens path with the platform's default image viewer.
func openViewer(path string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Start()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path).Start()
	default:
		return exec.Command("xdg-open", path).Start()
	}
}
