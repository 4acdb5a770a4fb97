// Package pokeapi is a thin client for the remote Pokémon catalog service
// and its sprite repository.
package pokeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"  // register decoders for artwork candidates
	_ "image/jpeg" //
	_ "image/png"  //
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arcwork/pokesheet/internal/apperr"
)

// Client fetches catalog data and artwork over HTTP.
type Client struct {
	APIBaseURL     string
	SpritesBaseURL string
	HTTPClient     *http.Client
}

// New creates a Client for the given base URLs with a default timeout.
func New(apiBaseURL, spritesBaseURL string) *Client {
	return &Client{
		APIBaseURL:     apiBaseURL,
		SpritesBaseURL: spritesBaseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// TypeIndex retrieves every Pokémon type and its member list, preserving
// the order the service returns.
func (c *Client) TypeIndex(ctx context.Context) ([]Type, error) {
	var index typeIndexResponse
	if err := c.getJSON(ctx, c.APIBaseURL+"type", &index); err != nil {
		return nil, fmt.Errorf("fetch type index: %w", err)
	}

	types := make([]Type, 0, len(index.Results))
	for _, ref := range index.Results {
		var tr typeResponse
		if err := c.getJSON(ctx, ref.URL, &tr); err != nil {
			return nil, fmt.Errorf("fetch type %q: %w", ref.Name, err)
		}
		t := Type{Name: strings.ToLower(tr.Name)}
		for _, p := range tr.Pokemon {
			id, err := idFromURL(p.Pokemon.URL)
			if err != nil {
				slog.Debug("skipping member with unparseable url", "url", p.Pokemon.URL)
				continue
			}
			t.Members = append(t.Members, TypeMember{
				Name: strings.ToLower(p.Pokemon.Name),
				ID:   id,
			})
		}
		types = append(types, t)
	}
	return types, nil
}

// artworkVariants are the sprite repository paths tried in order of
// preference: high-res official artwork, then home renders, then the
// low-res base sprite.
var artworkVariants = []string{
	"pokemon/other/official-artwork/%d.png",
	"pokemon/other/home/%d.png",
	"pokemon/%d.png",
}

// FetchArtwork downloads source artwork for a Pokémon, trying each
// candidate location in order. Individual candidate failures (network,
// not-found, undecodable bytes) are absorbed; only total failure is
// reported, as an *apperr.UnavailableError.
func (c *Client) FetchArtwork(ctx context.Context, id int) ([]byte, error) {
	for _, variant := range artworkVariants {
		url := c.SpritesBaseURL + fmt.Sprintf(variant, id)
		data, err := c.getBytes(ctx, url)
		if err != nil {
			slog.Debug("artwork candidate failed", "id", id, "url", url, "error", err)
			continue
		}
		if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
			slog.Debug("artwork candidate undecodable", "id", id, "url", url, "error", err)
			continue
		}
		return data, nil
	}
	return nil, &apperr.UnavailableError{ID: id, Attempts: len(artworkVariants)}
}

// SpeciesName returns the localized species-level name, or "" when the
// species has no entry for the language.
func (c *Client) SpeciesName(ctx context.Context, id int, language string) (string, error) {
	var sr speciesResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%spokemon-species/%d", c.APIBaseURL, id), &sr); err != nil {
		return "", err
	}
	return pickLocalized(sr.Names, language), nil
}

// FormName returns the localized form-level name for the Pokémon's own
// form, or "" when no matching entry exists.
func (c *Client) FormName(ctx context.Context, id int, language string) (string, error) {
	var pr pokemonResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%spokemon/%d", c.APIBaseURL, id), &pr); err != nil {
		return "", err
	}
	for _, form := range pr.Forms {
		if form.Name != pr.Name {
			continue
		}
		var fr formResponse
		if err := c.getJSON(ctx, form.URL, &fr); err != nil {
			return "", err
		}
		return pickLocalized(fr.Names, language), nil
	}
	return "", nil
}

func pickLocalized(names []localizedName, language string) string {
	for _, n := range names {
		if n.Language.Name == language {
			return n.Name
		}
	}
	return ""
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	data, err := c.getBytes(ctx, url)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (c *Client) getBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// idFromURL extracts the trailing numeric id from an API resource URL
// such as "https://pokeapi.co/api/v2/pokemon/25/".
func idFromURL(url string) (int, error) {
	parts := strings.Split(strings.TrimSuffix(url, "/"), "/")
	if len(parts) == 0 {
		return 0, fmt.Errorf("empty url")
	}
	return strconv.Atoi(parts[len(parts)-1])
}
