package stability

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/gclp/composition"
	"github.com/katalvlaran/gclp/equilibrium"
)

// Sentinel errors.
var (
	// ErrNilSolver indicates a Scorer built without a solver.
	ErrNilSolver = errors.New("stability: solver is nil")

	// ErrInvalidEnergy indicates a NaN or ±Inf energy to score.
	ErrInvalidEnergy = errors.New("stability: energy must be finite")

	// ErrMissingEnergy indicates an entry without the energy a filter needs.
	ErrMissingEnergy = errors.New("stability: entry has no energy for the selected source")

	// ErrUnknownSource indicates an energy source other than measured/predicted.
	ErrUnknownSource = errors.New("stability: unknown energy source")
)

// SelfReference selects whether a registered phase at the scored
// composition may serve as its own reference.
type SelfReference int

const (
	// IncludeSelf solves against the full registry.
	IncludeSelf SelfReference = iota

	// ExcludeSelf leaves the phase at the scored composition out of the solve.
	ExcludeSelf
)

// String implements fmt.Stringer.
func (s SelfReference) String() string {
	switch s {
	case IncludeSelf:
		return "include"
	case ExcludeSelf:
		return "exclude"
	default:
		return fmt.Sprintf("SelfReference(%d)", int(s))
	}
}

// ParseSelfReference maps "include"/"exclude" to a SelfReference.
func ParseSelfReference(s string) (SelfReference, error) {
	switch s {
	case "include", "":
		return IncludeSelf, nil
	case "exclude":
		return ExcludeSelf, nil
	default:
		return 0, fmt.Errorf("stability: unknown self-reference policy %q", s)
	}
}

// DefaultHullTolerance is the tolerance used by OnHull callers that have no
// better figure; it matches the solver's prune epsilon.
const DefaultHullTolerance = equilibrium.DefaultPruneEpsilon

// Option configures a Scorer.
type Option func(*Scorer)

// WithSelfReference sets the self-reference policy (default IncludeSelf).
func WithSelfReference(p SelfReference) Option {
	if p != IncludeSelf && p != ExcludeSelf {
		panic("stability: WithSelfReference: unknown policy")
	}

	return func(s *Scorer) { s.self = p }
}

// Scorer computes energy above hull against a shared solver. It is safe for
// concurrent use.
type Scorer struct {
	solver *equilibrium.Solver
	self   SelfReference
}

// NewScorer binds a scorer to solver.
//
// Errors:
//   - ErrNilSolver when solver is nil.
func NewScorer(solver *equilibrium.Solver, opts ...Option) (*Scorer, error) {
	if solver == nil {
		return nil, ErrNilSolver
	}
	s := &Scorer{solver: solver, self: IncludeSelf}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Solver returns the solver the scorer queries.
func (s *Scorer) Solver() *equilibrium.Solver { return s.solver }

// SelfReference returns the configured policy.
func (s *Scorer) SelfReference() SelfReference { return s.self }

// HullEnergy returns the ground-state energy of c under the scorer's policy.
func (s *Scorer) HullEnergy(c composition.Composition) (float64, error) {
	var opts []equilibrium.SolveOption
	if s.self == ExcludeSelf {
		opts = append(opts, equilibrium.ExcludeComposition(c))
	}

	return s.solver.GroundStateEnergy(c, opts...)
}

// Score returns energy − groundStateEnergy(c).
//
// Errors:
//   - ErrInvalidEnergy when energy is NaN or ±Inf.
//   - solver errors, unchanged.
func (s *Scorer) Score(c composition.Composition, energy float64) (float64, error) {
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return 0, fmt.Errorf("%w: %s=%v", ErrInvalidEnergy, c, energy)
	}
	hull, err := s.HullEnergy(c)
	if err != nil {
		return 0, err
	}

	return energy - hull, nil
}

// OnHull reports whether a stability value lies on or below the hull
// within tol.
func OnHull(stability, tol float64) bool { return stability <= tol }
