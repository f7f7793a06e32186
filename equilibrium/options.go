package equilibrium

import (
	"math"

	"github.com/katalvlaran/gclp/composition"
)

// Numeric policy defaults.
const (
	// DefaultPruneEpsilon is the fraction below which a phase is treated as
	// LP noise and left out of the equilibrium.
	DefaultPruneEpsilon = 1e-6

	// DefaultTolerance is the zero tolerance handed to the simplex method.
	DefaultTolerance = 1e-10

	// DefaultBalanceTolerance bounds the mass-balance and normalization
	// residual of the LP solution when the balance check is enabled.
	DefaultBalanceTolerance = 1e-6

	// DefaultBalanceCheck enables the post-solve residual check.
	DefaultBalanceCheck = true

	// redundancyTolerance bounds how far the normalization row may drift
	// from the sum of the mass-balance rows before the LP is rejected.
	redundancyTolerance = 1e-9
)

const (
	panicPruneInvalid     = "equilibrium: WithPruneEpsilon: eps must be finite and in [0, 1)"
	panicToleranceInvalid = "equilibrium: WithTolerance: tol must be finite and non-negative"
	panicBalanceInvalid   = "equilibrium: WithBalanceCheck: tol must be finite and positive"
)

// Option configures a Solver.
type Option func(*Options)

// Options holds the effective solver configuration. Fields are unexported;
// use the WithX constructors.
type Options struct {
	pruneEps     float64 // DefaultPruneEpsilon
	tol          float64 // DefaultTolerance
	balanceCheck bool    // DefaultBalanceCheck
	balanceTol   float64 // DefaultBalanceTolerance
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		pruneEps:     DefaultPruneEpsilon,
		tol:          DefaultTolerance,
		balanceCheck: DefaultBalanceCheck,
		balanceTol:   DefaultBalanceTolerance,
	}
}

// PruneEpsilon returns the configured prune epsilon.
func (o Options) PruneEpsilon() float64 { return o.pruneEps }

// Tolerance returns the configured simplex tolerance.
func (o Options) Tolerance() float64 { return o.tol }

// WithPruneEpsilon sets the fraction below which phases are dropped.
// Panics when eps is not finite or outside [0, 1).
func WithPruneEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 || eps >= 1 {
		panic(panicPruneInvalid)
	}

	return func(o *Options) { o.pruneEps = eps }
}

// WithTolerance sets the simplex zero tolerance.
// Panics when tol is not finite or negative.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithBalanceCheck enables the post-solve mass-balance check with the given
// residual bound. Panics when tol is not finite and positive.
func WithBalanceCheck(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicBalanceInvalid)
	}

	return func(o *Options) {
		o.balanceCheck = true
		o.balanceTol = tol
	}
}

// WithoutBalanceCheck disables the post-solve mass-balance check.
func WithoutBalanceCheck() Option {
	return func(o *Options) { o.balanceCheck = false }
}

// SolveOption configures a single Solve call.
type SolveOption func(*solveConfig)

type solveConfig struct {
	exclude composition.Composition // zero value: nothing excluded
}

// ExcludeComposition leaves the non-elemental phase registered at exactly c
// out of the candidate set. Elemental phases are never excluded: they carry
// the feasibility guarantee.
func ExcludeComposition(c composition.Composition) SolveOption {
	return func(sc *solveConfig) { sc.exclude = c }
}
