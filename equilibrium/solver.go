package equilibrium

import (
	"fmt"

	"github.com/katalvlaran/gclp/composition"
	"github.com/katalvlaran/gclp/registry"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Solver computes GCLP ground states against a shared registry.
type Solver struct {
	reg  *registry.Registry
	opts Options
}

// NewSolver binds a solver to reg.
//
// Errors:
//   - ErrNilRegistry when reg is nil.
func NewSolver(reg *registry.Registry, opts ...Option) (*Solver, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Solver{reg: reg, opts: o}, nil
}

// Registry returns the registry the solver reads from.
func (s *Solver) Registry() *registry.Registry { return s.reg }

// Options returns the effective solver configuration.
func (s *Solver) Options() Options { return s.opts }

// Solve computes the ground-state phase equilibrium of target.
//
// Implementation:
//   - Stage 1: collect candidate phases (element set ⊆ target's), honoring
//     ExcludeComposition.
//   - Stage 2: build the LP and reduce it to full row rank.
//   - Stage 3: run the simplex method from the pure-element basis.
//   - Stage 4: clamp negative noise, check the residual, prune fractions
//     below the prune epsilon.
//
// Errors:
//   - ErrEmptyTarget for a zero-value target.
//   - ErrInvariantViolated (possibly with ErrUnseededElement) when the LP
//     cannot be solved; the wrapped lp error is preserved.
//
// Complexity: see package documentation.
func (s *Solver) Solve(target composition.Composition, opts ...SolveOption) (Equilibrium, error) {
	if target.IsZero() {
		return Equilibrium{}, ErrEmptyTarget
	}
	var sc solveConfig
	for _, opt := range opts {
		opt(&sc)
	}

	// Stage 1: candidate filtering.
	cands := s.reg.Candidates(target)
	if !sc.exclude.IsZero() && !sc.exclude.IsPure() {
		kept := cands[:0]
		for _, p := range cands {
			if !p.Composition.Equal(sc.exclude) {
				kept = append(kept, p)
			}
		}
		cands = kept
	}

	// Stage 2: LP construction.
	prog, err := buildProgram(target, cands)
	if err != nil {
		return Equilibrium{}, err
	}
	a, b, err := prog.standardForm()
	if err != nil {
		return Equilibrium{}, err
	}

	// Stage 3: simplex from the elemental vertex.
	energy, x, err := simplex(prog.c, a, b, s.opts.tol, prog.basis)
	if err != nil {
		return Equilibrium{}, fmt.Errorf("%w: solve %s: %w", ErrInvariantViolated, target, err)
	}

	// Stage 4: post-processing.
	for i, v := range x {
		if v < 0 {
			x[i] = 0
		}
	}
	if s.opts.balanceCheck {
		if res := prog.residual(x); res > s.opts.balanceTol {
			return Equilibrium{}, fmt.Errorf("%w: mass balance residual %.3g for %s",
				ErrInvariantViolated, res, target)
		}
	}

	eq := Equilibrium{Target: target, Energy: energy}
	for i, v := range x {
		if v < s.opts.pruneEps {
			continue
		}
		eq.Phases = append(eq.Phases, PhaseFraction{Phase: prog.phases[i], Fraction: v})
	}

	return eq, nil
}

// GroundStateEnergy is Solve reduced to its energy.
func (s *Solver) GroundStateEnergy(target composition.Composition, opts ...SolveOption) (float64, error) {
	eq, err := s.Solve(target, opts...)
	if err != nil {
		return 0, err
	}

	return eq.Energy, nil
}

// simplex calls lp.Simplex and turns its input-contract panics into errors,
// so a malformed LP fails only the current query.
func simplex(c []float64, a mat.Matrix, b []float64, tol float64, basis []int) (f float64, x []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lp panic: %v", r)
		}
	}()

	return lp.Simplex(c, a, b, tol, basis)
}
