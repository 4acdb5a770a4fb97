// Package pokedex builds and queries the in-memory catalog of selectable
// Pokémon for a session.
package pokedex

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/arcwork/pokesheet/internal/apperr"
	"github.com/arcwork/pokesheet/internal/cache"
	"github.com/arcwork/pokesheet/internal/pokeapi"
)

// typesCacheKey addresses the assembled type index in the persistent cache.
const typesCacheKey = "pokedex/types"

// Entry is one selectable Pokémon.
type Entry struct {
	ID    int
	Name  string // lowercase slug
	Types []string
}

// TypeSource supplies the remote type index.
type TypeSource interface {
	TypeIndex(ctx context.Context) ([]pokeapi.Type, error)
}

// Catalog maps Pokémon ids to entries for one session. It is immutable
// once built; applying or clearing a type filter builds a fresh Catalog.
type Catalog struct {
	entries  map[int]Entry
	nameToID map[string]int
	ids      []int // insertion order of the type index
	filter   string
}

// Build assembles a Catalog from the remote type index, memoized through
// store. A non-empty typeFilter restricts the catalog to Pokémon carrying
// that type tag; an unknown type yields apperr.ErrNotFound. Entries keep
// their full type list even when filtered.
func Build(ctx context.Context, src TypeSource, store *cache.Store, typeFilter string) (*Catalog, error) {
	types, err := loadTypes(ctx, src, store)
	if err != nil {
		return nil, err
	}

	typeFilter = strings.ToLower(strings.TrimSpace(typeFilter))
	if typeFilter != "" {
		known := false
		for _, t := range types {
			if t.Name == typeFilter {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("type %q: %w", typeFilter, apperr.ErrNotFound)
		}
	}

	full := assemble(types)

	c := &Catalog{
		entries:  make(map[int]Entry),
		nameToID: make(map[string]int),
		filter:   typeFilter,
	}
	for _, id := range full.ids {
		e := full.entries[id]
		if typeFilter != "" && !containsString(e.Types, typeFilter) {
			continue
		}
		c.entries[id] = e
		c.nameToID[e.Name] = id
		c.ids = append(c.ids, id)
	}
	if len(c.ids) == 0 {
		return nil, fmt.Errorf("type %q has no members: %w", typeFilter, apperr.ErrNotFound)
	}
	return c, nil
}

// loadTypes fetches the type index through the persistent cache so a
// session rebuild (or the next session, within the eviction window) does
// not refetch the whole index.
func loadTypes(ctx context.Context, src TypeSource, store *cache.Store) ([]pokeapi.Type, error) {
	if store == nil {
		return src.TypeIndex(ctx)
	}
	data, err := store.GetOrCompute(typesCacheKey, func() ([]byte, error) {
		types, err := src.TypeIndex(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(types)
	})
	if err != nil {
		return nil, err
	}
	var types []pokeapi.Type
	if err := json.Unmarshal(data, &types); err != nil {
		// Corrupt cache entry: drop it and fetch directly.
		store.Forget(typesCacheKey)
		return src.TypeIndex(ctx)
	}
	return types, nil
}

// assemble folds the per-type member lists into per-Pokémon entries,
// preserving the index order for the first appearance of each id.
func assemble(types []pokeapi.Type) *Catalog {
	c := &Catalog{
		entries:  make(map[int]Entry),
		nameToID: make(map[string]int),
	}
	for _, t := range types {
		for _, m := range t.Members {
			e, ok := c.entries[m.ID]
			if !ok {
				e = Entry{ID: m.ID, Name: strings.ToLower(m.Name)}
				c.ids = append(c.ids, m.ID)
				c.nameToID[e.Name] = m.ID
			}
			if !containsString(e.Types, t.Name) {
				e.Types = append(e.Types, t.Name)
			}
			c.entries[m.ID] = e
		}
	}
	return c
}

// ResolveID looks up an id by name, case-insensitively.
func (c *Catalog) ResolveID(name string) (int, bool) {
	id, ok := c.nameToID[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// NameOf returns the slug name for id, or "" for an unknown id.
func (c *Catalog) NameOf(id int) string {
	return c.entries[id].Name
}

// TypesOf returns the type tags for id, or nil for an unknown id.
func (c *Catalog) TypesOf(id int) []string {
	return c.entries[id].Types
}

// Len reports the number of entries.
func (c *Catalog) Len() int { return len(c.ids) }

// Filter reports the active type filter, or "" when unfiltered.
func (c *Catalog) Filter() string { return c.filter }

// IDs returns the catalog ids in index order. The caller owns the slice.
func (c *Catalog) IDs() []int {
	ids := make([]int, len(c.ids))
	copy(ids, c.ids)
	return ids
}

// Names returns all slug names, sorted, for prompt suggestion lists.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.nameToID))
	for name := range c.nameToID {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Random picks a uniformly random id using rng.
func (c *Catalog) Random(rng *rand.Rand) int {
	return c.ids[rng.Intn(len(c.ids))]
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
