package session

import (
	"fmt"
	"math/rand"

	"github.com/arcwork/pokesheet/internal/apperr"
)

// Selection is the ordered list of chosen Pokémon ids for the next
// render: a user-picked prefix followed by auto-filled entries. It never
// holds duplicates and never exceeds the grid capacity it was last
// filled to.
type Selection struct {
	ids        []int
	userPicked int
}

// Pick inserts id at the front as a user choice. The list is truncated
// to max, dropping the last auto-filled (or oldest) entry.
func (s *Selection) Pick(id, max int) error {
	if s.Contains(id) {
		return fmt.Errorf("pokemon %d already selected: %w", id, apperr.ErrInvalidInput)
	}
	s.ids = append([]int{id}, s.ids...)
	if len(s.ids) > max {
		s.ids = s.ids[:max]
	}
	if s.userPicked < max {
		s.userPicked++
	}
	return nil
}

// Fill tops the list up to max with uniformly random ids drawn from pool
// that are not already selected, then truncates to max. It is a no-op
// when the pool cannot supply enough distinct ids beyond what it has.
func (s *Selection) Fill(max int, pool []int, rng *rand.Rand) {
	available := make([]int, 0, len(pool))
	for _, id := range pool {
		if !s.Contains(id) {
			available = append(available, id)
		}
	}
	for len(s.ids) < max && len(available) > 0 {
		i := rng.Intn(len(available))
		s.ids = append(s.ids, available[i])
		available[i] = available[len(available)-1]
		available = available[:len(available)-1]
	}
	if len(s.ids) > max {
		s.ids = s.ids[:max]
	}
	if s.userPicked > max {
		s.userPicked = max
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = nil
	s.userPicked = 0
}

// IDs returns a copy of the selected ids in order.
func (s *Selection) IDs() []int {
	ids := make([]int, len(s.ids))
	copy(ids, s.ids)
	return ids
}

// UserPicked reports how many leading entries were chosen by the user.
func (s *Selection) UserPicked() int { return s.userPicked }

// Len reports the current list length.
func (s *Selection) Len() int { return len(s.ids) }

// Contains reports whether id is selected.
func (s *Selection) Contains(id int) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}
