package pokeapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arcwork/pokesheet/internal/apperr"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestTypeIndex(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/type":
			fmt.Fprintf(w, `{"results":[
				{"name":"electric","url":"%s/type/13/"},
				{"name":"water","url":"%s/type/11/"}]}`, srv.URL, srv.URL)
		case "/type/13/":
			fmt.Fprintf(w, `{"name":"Electric","pokemon":[
				{"pokemon":{"name":"Pikachu","url":"%s/pokemon/25/"}},
				{"pokemon":{"name":"voltorb","url":"%s/pokemon/oops/"}}]}`, srv.URL, srv.URL)
		case "/type/11/":
			fmt.Fprintf(w, `{"name":"water","pokemon":[
				{"pokemon":{"name":"squirtle","url":"%s/pokemon/7/"}}]}`, srv.URL)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", srv.URL+"/sprites/")
	types, err := c.TypeIndex(context.Background())
	if err != nil {
		t.Fatalf("TypeIndex: %v", err)
	}

	if len(types) != 2 {
		t.Fatalf("got %d types, want 2", len(types))
	}
	if types[0].Name != "electric" || types[1].Name != "water" {
		t.Errorf("type order/casing wrong: %q, %q", types[0].Name, types[1].Name)
	}
	// The unparseable member url is skipped, not fatal.
	if len(types[0].Members) != 1 {
		t.Fatalf("electric members: got %d, want 1", len(types[0].Members))
	}
	if m := types[0].Members[0]; m.Name != "pikachu" || m.ID != 25 {
		t.Errorf("member: got %+v", m)
	}
}

func TestTypeIndex_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", srv.URL+"/sprites/")
	if _, err := c.TypeIndex(context.Background()); err == nil {
		t.Error("expected error on HTTP 500")
	}
}

func TestFetchArtwork_FallsThroughVariants(t *testing.T) {
	art := pngBytes(t)
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/sprites/pokemon/132.png" {
			w.Write(art)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", srv.URL+"/sprites/")
	data, err := c.FetchArtwork(context.Background(), 132)
	if err != nil {
		t.Fatalf("FetchArtwork: %v", err)
	}
	if !bytes.Equal(data, art) {
		t.Error("returned bytes differ from served artwork")
	}

	want := []string{
		"/sprites/pokemon/other/official-artwork/132.png",
		"/sprites/pokemon/other/home/132.png",
		"/sprites/pokemon/132.png",
	}
	if len(paths) != len(want) {
		t.Fatalf("requested %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("request %d: got %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestFetchArtwork_SkipsUndecodableCandidate(t *testing.T) {
	art := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sprites/pokemon/other/official-artwork/6.png" {
			w.Write([]byte("<html>not a sprite</html>"))
			return
		}
		if r.URL.Path == "/sprites/pokemon/other/home/6.png" {
			w.Write(art)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", srv.URL+"/sprites/")
	data, err := c.FetchArtwork(context.Background(), 6)
	if err != nil {
		t.Fatalf("FetchArtwork: %v", err)
	}
	if !bytes.Equal(data, art) {
		t.Error("should have fallen through to the decodable candidate")
	}
}

func TestFetchArtwork_AllCandidatesFail(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := New(srv.URL+"/", srv.URL+"/sprites/")
	_, err := c.FetchArtwork(context.Background(), 999)

	var unavailable *apperr.UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("got %v, want UnavailableError", err)
	}
	if unavailable.ID != 999 || unavailable.Attempts != 3 {
		t.Errorf("got id=%d attempts=%d, want 999/3", unavailable.ID, unavailable.Attempts)
	}
}

func TestSpeciesName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pokemon-species/25" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"names":[
			{"name":"ピカチュウ","language":{"name":"ja"}},
			{"name":"Pikachu","language":{"name":"en"}}]}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", srv.URL+"/sprites/")

	name, err := c.SpeciesName(context.Background(), 25, "en")
	if err != nil {
		t.Fatalf("SpeciesName: %v", err)
	}
	if name != "Pikachu" {
		t.Errorf("got %q, want Pikachu", name)
	}

	name, err = c.SpeciesName(context.Background(), 25, "fr")
	if err != nil {
		t.Fatalf("SpeciesName: %v", err)
	}
	if name != "" {
		t.Errorf("missing language should yield empty name, got %q", name)
	}
}

func TestFormName(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pokemon/10041":
			fmt.Fprintf(w, `{"name":"giratina-origin","forms":[
				{"name":"giratina-altered","url":"%s/pokemon-form/487/"},
				{"name":"giratina-origin","url":"%s/pokemon-form/10041/"}]}`, srv.URL, srv.URL)
		case "/pokemon-form/10041/":
			fmt.Fprint(w, `{"names":[{"name":"Origin Forme","language":{"name":"en"}}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", srv.URL+"/sprites/")
	name, err := c.FormName(context.Background(), 10041, "en")
	if err != nil {
		t.Fatalf("FormName: %v", err)
	}
	if name != "Origin Forme" {
		t.Errorf("got %q, want Origin Forme", name)
	}
}

func TestFormName_NoMatchingForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"pikachu","forms":[]}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", srv.URL+"/sprites/")
	name, err := c.FormName(context.Background(), 25, "en")
	if err != nil {
		t.Fatalf("FormName: %v", err)
	}
	if name != "" {
		t.Errorf("got %q, want empty", name)
	}
}

func TestIDFromURL(t *testing.T) {
	tests := []struct {
		url     string
		want    int
		wantErr bool
	}{
		{"https://pokeapi.co/api/v2/pokemon/25/", 25, false},
		{"https://pokeapi.co/api/v2/pokemon/25", 25, false},
		{"https://pokeapi.co/api/v2/pokemon/abc/", 0, true},
	}
	for _, tt := range tests {
		got, err := idFromURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("idFromURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("idFromURL(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}
