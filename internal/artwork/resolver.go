// Package artwork resolves Pokémon ids to source raster images and
// display names, memoizing results on disk and in memory.
package artwork

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register decoders for cached artwork bytes
	_ "image/jpeg" //
	_ "image/png"  //
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/arcwork/pokesheet/internal/apperr"
	"github.com/arcwork/pokesheet/internal/cache"
)

// prewarmConcurrency bounds the fan-out of Prewarm fetches.
const prewarmConcurrency = 8

// Fetcher is the remote side of artwork and name resolution.
type Fetcher interface {
	FetchArtwork(ctx context.Context, id int) ([]byte, error)
	SpeciesName(ctx context.Context, id int, language string) (string, error)
	FormName(ctx context.Context, id int, language string) (string, error)
}

// Resolver fetches artwork through a persistent byte cache and keeps
// decoded images in memory so repeated renders skip both the network and
// the decoder.
//
// Resolver is safe for concurrent use. Resolution of the same id is
// deduplicated; disjoint ids resolve in parallel.
type Resolver struct {
	client   Fetcher
	store    *cache.Store
	language string

	group  singleflight.Group
	mu     sync.RWMutex
	images map[int]image.Image
}

// NewResolver creates a Resolver backed by client and store. language
// selects localized display names (e.g. "en").
func NewResolver(client Fetcher, store *cache.Store, language string) *Resolver {
	return &Resolver{
		client:   client,
		store:    store,
		language: language,
		images:   make(map[int]image.Image),
	}
}

// Resolve returns the source artwork for a Pokémon. The returned image
// is shared; callers must treat it as read-only and work on copies.
func (r *Resolver) Resolve(ctx context.Context, id int) (image.Image, error) {
	r.mu.RLock()
	if img, ok := r.images[id]; ok {
		r.mu.RUnlock()
		return img, nil
	}
	r.mu.RUnlock()

	key := fmt.Sprintf("artwork/%d", id)
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		data, err := r.store.GetOrCompute(key, func() ([]byte, error) {
			return r.client.FetchArtwork(ctx, id)
		})
		if err != nil {
			return nil, err
		}

		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			// A stale or truncated cache entry; drop it and refetch once.
			r.store.Forget(key)
			data, err = r.store.GetOrCompute(key, func() ([]byte, error) {
				return r.client.FetchArtwork(ctx, id)
			})
			if err != nil {
				return nil, err
			}
			img, _, err = image.Decode(bytes.NewReader(data))
			if err != nil {
				return nil, &apperr.TransformError{ID: id, Err: err}
			}
		}

		r.mu.Lock()
		r.images[id] = img
		r.mu.Unlock()
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

// DisplayName returns the printable name for a Pokémon: the localized
// species name when available, then the localized form name, then the
// capitalized fallback slug. It never fails; errors degrade to the slug.
func (r *Resolver) DisplayName(ctx context.Context, id int, fallback string) string {
	key := fmt.Sprintf("name/%s/%d", r.language, id)
	data, err := r.store.GetOrCompute(key, func() ([]byte, error) {
		name, err := r.client.SpeciesName(ctx, id, r.language)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name, err = r.client.FormName(ctx, id, r.language)
			if err != nil {
				return nil, err
			}
		}
		return []byte(name), nil
	})
	if err != nil {
		slog.Debug("display name lookup failed", "id", id, "error", err)
		return capWords(fallback)
	}
	if name := string(data); name != "" {
		return name
	}
	return capWords(fallback)
}

// Prewarm concurrently populates the artwork and name caches for a batch
// of ids. It is best-effort: individual failures are logged and skipped,
// and a later Resolve for a failed id simply fetches again.
func (r *Resolver) Prewarm(ctx context.Context, ids []int, fallbackName func(int) string) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prewarmConcurrency)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			if _, err := r.Resolve(ctx, id); err != nil {
				slog.Debug("prewarm artwork failed", "id", id, "error", err)
			}
			return nil
		})
		g.Go(func() error {
			var fallback string
			if fallbackName != nil {
				fallback = fallbackName(id)
			}
			r.DisplayName(ctx, id, fallback)
			return nil
		})
	}
	_ = g.Wait()
}

// capWords capitalizes each word of a slug, treating hyphens as spaces,
// so "mr-mime" becomes "Mr Mime".
func capWords(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
