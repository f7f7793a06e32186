package registry

import (
	"errors"

	"github.com/katalvlaran/gclp/composition"
)

// Sentinel errors for registry operations.
var (
	// ErrUnknownElement indicates an element id or symbol outside the element table.
	ErrUnknownElement = errors.New("registry: unknown element")

	// ErrEmptyComposition indicates a zero-value composition.
	ErrEmptyComposition = errors.New("registry: empty composition")

	// ErrInvalidEnergy indicates a NaN or ±Inf energy.
	ErrInvalidEnergy = errors.New("registry: energy must be finite")
)

// Phase is a reference phase: a composition and its formation energy per
// atom (or the chemical potential, for a single element).
type Phase struct {
	Composition composition.Composition
	Energy      float64
}

// IsElemental reports whether p is a single-element reference phase.
func (p Phase) IsElemental() bool { return p.Composition.IsPure() }

// Entry is one record of a reference dataset. Energy is nil when the record
// carries no measurement; such entries are skipped by ImportPhases.
type Entry struct {
	Composition composition.Composition `json:"composition" yaml:"composition"`
	Energy      *float64                `json:"energy,omitempty" yaml:"energy,omitempty"`
}

// NewEntry is a convenience constructor for an entry with an energy.
func NewEntry(c composition.Composition, energy float64) Entry {
	return Entry{Composition: c, Energy: &energy}
}

// Option configures a Registry at construction.
type Option func(*options)

type options struct {
	potentials map[composition.Element]float64
}

// WithChemicalPotential overrides the seeded energy of element e.
// Panics when e is outside the element table or mu is not finite
// (programmer error: option values are constants in practice).
func WithChemicalPotential(e composition.Element, mu float64) Option {
	if !e.Valid() {
		panic("registry: WithChemicalPotential: unknown element")
	}
	if !isFinite(mu) {
		panic("registry: WithChemicalPotential: mu must be finite")
	}

	return func(o *options) { o.potentials[e] = mu }
}
