package equilibrium

import (
	"errors"

	"github.com/katalvlaran/gclp/composition"
	"github.com/katalvlaran/gclp/registry"
)

// Sentinel errors returned by the solver.
var (
	// ErrNilRegistry indicates a Solver constructed without a registry.
	ErrNilRegistry = errors.New("equilibrium: registry is nil")

	// ErrEmptyTarget indicates a zero-value target composition.
	ErrEmptyTarget = errors.New("equilibrium: empty target composition")

	// ErrInvariantViolated indicates that the LP failed although the seeding
	// guarantee says it cannot. The query must be treated as failed.
	ErrInvariantViolated = errors.New("equilibrium: solver invariant violated")

	// ErrUnseededElement indicates a target element without an elemental
	// reference phase. Always reported together with ErrInvariantViolated.
	ErrUnseededElement = errors.New("equilibrium: element has no reference phase")
)

// PhaseFraction is one phase of an equilibrium and its molar fraction.
type PhaseFraction struct {
	Phase    registry.Phase
	Fraction float64
}

// Equilibrium is the ground state of one target composition.
//
// Phases are ordered by composition key; every Fraction is at least the
// solver's prune epsilon and the fractions sum to 1 within that epsilon.
type Equilibrium struct {
	// Target is the composition that was solved.
	Target composition.Composition

	// Energy is the ground-state energy (the LP objective value).
	Energy float64

	// Phases lists the phases present at equilibrium.
	Phases []PhaseFraction
}

// Len returns the number of phases in equilibrium.
func (eq Equilibrium) Len() int { return len(eq.Phases) }

// Fractions returns the phase fractions in Phases order.
func (eq Equilibrium) Fractions() []float64 {
	out := make([]float64, len(eq.Phases))
	for i, pf := range eq.Phases {
		out[i] = pf.Fraction
	}

	return out
}

// Fraction returns the fraction of the phase at composition c, or 0.
func (eq Equilibrium) Fraction(c composition.Composition) float64 {
	for _, pf := range eq.Phases {
		if pf.Phase.Composition.Equal(c) {
			return pf.Fraction
		}
	}

	return 0
}

// Contains reports whether the phase at composition c is in equilibrium.
func (eq Equilibrium) Contains(c composition.Composition) bool { return eq.Fraction(c) > 0 }
