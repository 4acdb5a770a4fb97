package shell

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"strings"
	"testing"

	"github.com/arcwork/pokesheet/internal/pokeapi"
	"github.com/arcwork/pokesheet/internal/session"
	"github.com/arcwork/pokesheet/internal/sheet"
)

type scriptTypes struct{}

func (scriptTypes) TypeIndex(ctx context.Context) ([]pokeapi.Type, error) {
	t := pokeapi.Type{Name: "normal"}
	for i := 1; i <= 10; i++ {
		t.Members = append(t.Members, pokeapi.TypeMember{
			Name: fmt.Sprintf("mon-%d", i), ID: i,
		})
	}
	return []pokeapi.Type{t}, nil
}

type scriptArt struct{}

func (scriptArt) Resolve(_ context.Context, id int) (image.Image, error) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	img.SetNRGBA(8, 8, color.NRGBA{A: 255})
	return img, nil
}

func (scriptArt) DisplayName(_ context.Context, id int, fallback string) string {
	return fallback
}

func scriptShell(t *testing.T, input string) (*Shell, *bytes.Buffer) {
	t.Helper()
	spec := sheet.PageSpec{
		WidthMM: 100, HeightMM: 80,
		OuterMarginMM: 4, InnerMarginMM: 1, FontSizeMM: 3,
		DPI: 50, Rows: 2, Columns: 2, Crop: true,
	}
	s := session.New(scriptTypes{}, scriptArt{}, nil, spec, rand.New(rand.NewSource(1)))
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	out := &bytes.Buffer{}
	return &Shell{Session: s, In: strings.NewReader(input), Out: out}, out
}

func TestRun_QuitCommand(t *testing.T) {
	sh, _ := scriptShell(t, ":quit\n")
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRun_EOFEndsLoop(t *testing.T) {
	sh, _ := scriptShell(t, "")
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRun_PickByName(t *testing.T) {
	sh, out := scriptShell(t, "mon-3\n:quit\n")
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	found := false
	for _, id := range sh.Session.Selection() {
		if id == 3 {
			found = true
		}
	}
	if !found {
		t.Errorf("picked id missing from selection: %v", sh.Session.Selection())
	}
	if !strings.Contains(out.String(), "mon-3") {
		t.Error("selection list should show the picked name")
	}
}

func TestRun_UnknownNameReportsError(t *testing.T) {
	sh, out := scriptShell(t, "missingno\n:quit\n")
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "missingno") {
		t.Error("unknown pick should be reported back to the user")
	}
}

func TestRun_CommandMutatesSpec(t *testing.T) {
	sh, _ := scriptShell(t, ":rows 3\n:quit\n")
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sh.Session.Spec().Rows != 3 {
		t.Errorf("rows: got %d, want 3", sh.Session.Spec().Rows)
	}
}

func TestRun_InvalidCommandReported(t *testing.T) {
	sh, out := scriptShell(t, ":frobnicate\n:quit\n")
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "invalid command") {
		t.Error("unknown command should print a hint")
	}
}

func TestRun_HelpListsCommands(t *testing.T) {
	sh, out := scriptShell(t, ":help\n:quit\n")
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	text := out.String()
	for _, want := range []string{":page_width", ":type_filter", ":save", ":quit"} {
		if !strings.Contains(text, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestPrintInfo_ShowsPageSetup(t *testing.T) {
	sh, out := scriptShell(t, "")
	sh.Session.Autofill()

	sh.printInfo()

	text := out.String()
	if !strings.Contains(text, "100x80mm") {
		t.Errorf("page size missing from info:\n%s", text)
	}
	if !strings.Contains(text, "2x2") {
		t.Errorf("grid missing from info:\n%s", text)
	}
}
