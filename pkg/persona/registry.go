package persona

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/borderdrill/borderdrill/pkg/models"
)

// ErrNotFound is returned when no persona has the requested id.
var ErrNotFound = errors.New("persona not found")

// Source picks an index in [0, n). *rand.Rand from math/rand/v2 satisfies it.
// A Source shared between requests must be safe for concurrent use.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource draws from the math/rand/v2 global generator.
var DefaultSource Source = globalSource{}

// Registry is an immutable lookup table of personas.
type Registry struct {
	personas []models.Persona
	byID     map[string]int
}

// New builds a Registry. The set must be non-empty and ids must be unique.
func New(personas []models.Persona) (*Registry, error) {
	if len(personas) == 0 {
		return nil, errors.New("persona registry: no personas")
	}
	r := &Registry{
		personas: make([]models.Persona, len(personas)),
		byID:     make(map[string]int, len(personas)),
	}
	for i, p := range personas {
		if p.ID == "" {
			return nil, fmt.Errorf("persona registry: entry %d has no id", i)
		}
		if _, dup := r.byID[p.ID]; dup {
			return nil, fmt.Errorf("persona registry: duplicate id %q", p.ID)
		}
		p.RedFlags = append([]string(nil), p.RedFlags...)
		r.personas[i] = p
		r.byID[p.ID] = i
	}
	return r, nil
}

// Default returns a Registry over the built-in traveler scenarios.
func Default() *Registry {
	r, err := New(Builtin())
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the persona with the given id.
func (r *Registry) Get(id string) (models.Persona, error) {
	i, ok := r.byID[id]
	if !ok {
		return models.Persona{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return clone(r.personas[i]), nil
}

// SelectRandom returns a uniformly chosen persona.
func (r *Registry) SelectRandom(src Source) models.Persona {
	if src == nil {
		src = DefaultSource
	}
	return clone(r.personas[src.IntN(len(r.personas))])
}

// Resolve returns the pinned persona when id is known. An empty or unknown id
// falls back to a random persona instead of failing the request; the second
// return value reports whether the fallback was taken.
func (r *Registry) Resolve(id string, src Source) (models.Persona, bool) {
	if id != "" {
		if p, err := r.Get(id); err == nil {
			return p, false
		}
	}
	return r.SelectRandom(src), true
}

// All returns every persona in registration order.
func (r *Registry) All() []models.Persona {
	out := make([]models.Persona, len(r.personas))
	for i, p := range r.personas {
		out[i] = clone(p)
	}
	return out
}

// Summaries lists ids and names without the scenario details.
func (r *Registry) Summaries() []models.PersonaSummary {
	out := make([]models.PersonaSummary, len(r.personas))
	for i, p := range r.personas {
		out[i] = models.PersonaSummary{ID: p.ID, Name: p.Name}
	}
	return out
}

// Len returns the number of personas.
func (r *Registry) Len() int {
	return len(r.personas)
}

func clone(p models.Persona) models.Persona {
	p.RedFlags = append([]string(nil), p.RedFlags...)
	return p
}
