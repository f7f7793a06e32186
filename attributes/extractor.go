package attributes

import (
	"github.com/katalvlaran/gclp/composition"
	"github.com/katalvlaran/gclp/equilibrium"
)

// DefaultCountPhases keeps the phase count and quasi-entropy in vectors.
const DefaultCountPhases = true

// Option configures an Extractor.
type Option func(*Extractor)

// WithoutPhaseCount drops the phase count and quasi-entropy descriptors.
func WithoutPhaseCount() Option {
	return func(x *Extractor) { x.countPhases = false }
}

// Extractor computes descriptors for targets against a shared solver.
// It is safe for concurrent use.
type Extractor struct {
	solver      *equilibrium.Solver
	countPhases bool
}

// NewExtractor binds an extractor to solver.
//
// Errors:
//   - ErrNilSolver when solver is nil.
func NewExtractor(solver *equilibrium.Solver, opts ...Option) (*Extractor, error) {
	if solver == nil {
		return nil, ErrNilSolver
	}
	x := &Extractor{solver: solver, countPhases: DefaultCountPhases}
	for _, opt := range opts {
		opt(x)
	}

	return x, nil
}

// Solver returns the solver the extractor queries.
func (x *Extractor) Solver() *equilibrium.Solver { return x.solver }

// CountPhases reports whether vectors carry the phase count.
func (x *Extractor) CountPhases() bool { return x.countPhases }

// Names returns the descriptor names aligned with Vector.
func (x *Extractor) Names() []string {
	if x.countPhases {
		return []string{NameEnthalpy, NamePhaseCount, NameClosestDistance, NameMeanDistance, NameQuasiEntropy}
	}

	return []string{NameEnthalpy, NameClosestDistance, NameMeanDistance}
}

// Extract solves target and computes its descriptors. Solver failures are
// returned unchanged; the caller decides whether to skip or abort.
func (x *Extractor) Extract(target composition.Composition) (Attributes, error) {
	eq, err := x.solver.Solve(target)
	if err != nil {
		return Attributes{}, err
	}

	return Compute(target, eq)
}

// Vector is Extract flattened according to the extractor's options.
func (x *Extractor) Vector(target composition.Composition) ([]float64, error) {
	a, err := x.Extract(target)
	if err != nil {
		return nil, err
	}

	return a.Vector(x.countPhases), nil
}

// Describe returns a one-paragraph description of the descriptors.
func (x *Extractor) Describe() string {
	if x.countPhases {
		return "(5) T=0K phase-stability descriptors from Grand Canonical Linear Programming: " +
			"formation enthalpy, number of phases at equilibrium, distance to the closest " +
			"equilibrium phase, mean distance to the equilibrium phases, and quasi-entropy " +
			"of the equilibrium phase fractions."
	}

	return "(3) T=0K phase-stability descriptors from Grand Canonical Linear Programming: " +
		"formation enthalpy, distance to the closest equilibrium phase, and mean distance " +
		"to the equilibrium phases."
}
