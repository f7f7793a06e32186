// Package equilibrium_test verifies GCLP ground states on hand-checked
// phase diagrams and the invariants every solution must satisfy.
package equilibrium_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/gclp/composition"
	"github.com/katalvlaran/gclp/equilibrium"
	"github.com/katalvlaran/gclp/registry"
	"github.com/stretchr/testify/require"
)

const tol = 1e-6

func comp(t testing.TB, m map[string]float64) composition.Composition {
	t.Helper()
	c, err := composition.FromSymbols(m)
	require.NoError(t, err)

	return c
}

func newSolver(t testing.TB, reg *registry.Registry, opts ...equilibrium.Option) *equilibrium.Solver {
	t.Helper()
	s, err := equilibrium.NewSolver(reg, opts...)
	require.NoError(t, err)

	return s
}

// requireBalanced checks mass balance and normalization of eq.
func requireBalanced(t testing.TB, eq equilibrium.Equilibrium) {
	t.Helper()
	var total float64
	for _, pf := range eq.Phases {
		require.Positive(t, pf.Fraction)
		total += pf.Fraction
	}
	require.InDelta(t, 1.0, total, tol, "fractions must sum to 1")

	for _, e := range eq.Target.Elements() {
		var got float64
		for _, pf := range eq.Phases {
			got += pf.Fraction * pf.Phase.Composition.Fraction(e)
		}
		require.InDelta(t, eq.Target.Fraction(e), got, tol, "mass balance of %s", e)
	}
}

// scenarioRegistry is {Na: 0, Cl: 0, NaCl: -1}.
func scenarioRegistry(t testing.TB) *registry.Registry {
	t.Helper()
	reg := registry.New()
	_, err := reg.AddPhase(comp(t, map[string]float64{"Na": 1, "Cl": 1}), -1)
	require.NoError(t, err)

	return reg
}

// TestSolve_ExactCompound: the compound itself is the ground state.
func TestSolve_ExactCompound(t *testing.T) {
	s := newSolver(t, scenarioRegistry(t))
	ab := comp(t, map[string]float64{"Na": 0.5, "Cl": 0.5})

	eq, err := s.Solve(ab)
	require.NoError(t, err)
	require.InDelta(t, -1.0, eq.Energy, tol)
	require.Equal(t, 1, eq.Len())
	require.InDelta(t, 1.0, eq.Fraction(ab), tol)
	require.True(t, eq.Contains(ab))
	requireBalanced(t, eq)
}

// TestSolve_TwoPhaseRegion: A0.25B0.75 splits into AB and B.
func TestSolve_TwoPhaseRegion(t *testing.T) {
	s := newSolver(t, scenarioRegistry(t))
	target := comp(t, map[string]float64{"Na": 0.25, "Cl": 0.75})

	eq, err := s.Solve(target)
	require.NoError(t, err)
	require.InDelta(t, -0.5, eq.Energy, tol)
	require.Equal(t, 2, eq.Len())
	require.InDelta(t, 0.5, eq.Fraction(comp(t, map[string]float64{"Na": 1, "Cl": 1})), tol)
	require.InDelta(t, 0.5, eq.Fraction(comp(t, map[string]float64{"Cl": 1})), tol)
	requireBalanced(t, eq)
}

// TestSolve_OnlyElements: with no compounds every target decomposes into
// its elements at zero energy.
func TestSolve_OnlyElements(t *testing.T) {
	s := newSolver(t, registry.New())
	target := comp(t, map[string]float64{"Al": 2, "Ni": 1, "Zr": 1})

	eq, err := s.Solve(target)
	require.NoError(t, err)
	require.InDelta(t, 0.0, eq.Energy, tol)
	require.Equal(t, 3, eq.Len())
	requireBalanced(t, eq)
}

// TestSolve_ElementalWeightedSum: without compounds the energy is the
// fraction-weighted sum of chemical potentials.
func TestSolve_ElementalWeightedSum(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.SetChemicalPotentialSymbol("Fe", -8.3))
	require.NoError(t, reg.SetChemicalPotentialSymbol("O", -4.9))
	s := newSolver(t, reg)

	eq, err := s.Solve(comp(t, map[string]float64{"Fe": 2, "O": 3}))
	require.NoError(t, err)
	require.InDelta(t, 0.4*-8.3+0.6*-4.9, eq.Energy, tol)
	requireBalanced(t, eq)
}

// TestSolve_PureElementBaseline: a pure element sits at its potential.
func TestSolve_PureElementBaseline(t *testing.T) {
	reg := scenarioRegistry(t)
	require.NoError(t, reg.SetChemicalPotentialSymbol("Na", -1.3))
	s := newSolver(t, reg)

	eq, err := s.Solve(comp(t, map[string]float64{"Na": 1}))
	require.NoError(t, err)
	require.InDelta(t, -1.3, eq.Energy, tol)
	require.Equal(t, 1, eq.Len())

	eq, err = s.Solve(comp(t, map[string]float64{"Cl": 1}))
	require.NoError(t, err)
	require.InDelta(t, 0.0, eq.Energy, tol)
}

// TestSolve_NaClProgression walks the reference set from elements only to a
// stable NaCl, checking energy and phase count at each step.
func TestSolve_NaClProgression(t *testing.T) {
	reg := registry.New()
	s := newSolver(t, reg)
	nacl := comp(t, map[string]float64{"Na": 1, "Cl": 1})

	eq, err := s.Solve(nacl)
	require.NoError(t, err)
	require.InDelta(t, 0.0, eq.Energy, tol)
	require.Equal(t, 2, eq.Len())

	_, err = reg.AddPhase(comp(t, map[string]float64{"Na": 2, "Cl": 1}), -1)
	require.NoError(t, err)
	_, err = reg.AddPhase(comp(t, map[string]float64{"Na": 1, "Cl": 2}), -1)
	require.NoError(t, err)
	eq, err = s.Solve(nacl)
	require.NoError(t, err)
	require.InDelta(t, -1.0, eq.Energy, tol)
	require.Equal(t, 2, eq.Len())
	requireBalanced(t, eq)

	_, err = reg.AddPhase(nacl, -2)
	require.NoError(t, err)
	eq, err = s.Solve(nacl)
	require.NoError(t, err)
	require.InDelta(t, -2.0, eq.Energy, tol)
	require.Equal(t, 1, eq.Len())
}

// TestSolve_CompoundAboveHull: an exact match is not privileged when a
// combination of other phases is lower.
func TestSolve_CompoundAboveHull(t *testing.T) {
	reg := registry.New()
	_, err := reg.AddPhase(comp(t, map[string]float64{"Na": 2, "Cl": 1}), -1)
	require.NoError(t, err)
	_, err = reg.AddPhase(comp(t, map[string]float64{"Na": 1, "Cl": 2}), -1)
	require.NoError(t, err)
	nacl := comp(t, map[string]float64{"Na": 1, "Cl": 1})
	_, err = reg.AddPhase(nacl, -0.5)
	require.NoError(t, err)

	eq, err := newSolver(t, reg).Solve(nacl)
	require.NoError(t, err)
	require.InDelta(t, -1.0, eq.Energy, tol)
	require.False(t, eq.Contains(nacl))
	requireBalanced(t, eq)
}

// TestSolve_IgnoresForeignPhases: phases outside the sub-system never enter.
func TestSolve_IgnoresForeignPhases(t *testing.T) {
	reg := scenarioRegistry(t)
	_, err := reg.AddPhase(comp(t, map[string]float64{"K": 1, "Cl": 1}), -5)
	require.NoError(t, err)
	_, err = reg.AddPhase(comp(t, map[string]float64{"Na": 1, "Cl": 1, "O": 1}), -9)
	require.NoError(t, err)

	eq, err := newSolver(t, reg).Solve(comp(t, map[string]float64{"Na": 1, "Cl": 1}))
	require.NoError(t, err)
	require.InDelta(t, -1.0, eq.Energy, tol)
}

// TestSolve_Ternary: a ternary target mixes a binary compound and an element.
func TestSolve_Ternary(t *testing.T) {
	reg := registry.New()
	_, err := reg.AddPhase(comp(t, map[string]float64{"Fe": 2, "O": 3}), -1.5)
	require.NoError(t, err)
	_, err = reg.AddPhase(comp(t, map[string]float64{"Al": 2, "O": 3}), -3.0)
	require.NoError(t, err)

	// Al2Fe2O6 = Fe2O3 + Al2O3 (each 5 atoms out of 10).
	target := comp(t, map[string]float64{"Al": 2, "Fe": 2, "O": 6})
	eq, err := newSolver(t, reg).Solve(target)
	require.NoError(t, err)
	require.InDelta(t, 0.5*-1.5+0.5*-3.0, eq.Energy, tol)
	require.Equal(t, 2, eq.Len())
	requireBalanced(t, eq)
}

// TestSolve_ExcludeComposition drops only the named compound.
func TestSolve_ExcludeComposition(t *testing.T) {
	s := newSolver(t, scenarioRegistry(t))
	ab := comp(t, map[string]float64{"Na": 1, "Cl": 1})

	eq, err := s.Solve(ab, equilibrium.ExcludeComposition(ab))
	require.NoError(t, err)
	require.InDelta(t, 0.0, eq.Energy, tol)
	require.False(t, eq.Contains(ab))

	// Excluding a pure element is ignored: it carries feasibility.
	na := comp(t, map[string]float64{"Na": 1})
	e, err := s.GroundStateEnergy(na, equilibrium.ExcludeComposition(na))
	require.NoError(t, err)
	require.InDelta(t, 0.0, e, tol)
}

// TestSolve_DoesNotMutateRegistry: solving leaves the registry untouched.
func TestSolve_DoesNotMutateRegistry(t *testing.T) {
	reg := scenarioRegistry(t)
	before := reg.Phases()
	_, err := newSolver(t, reg).Solve(comp(t, map[string]float64{"Na": 1, "Cl": 3}))
	require.NoError(t, err)
	require.Equal(t, before, reg.Phases())
}

// TestSolve_Errors covers construction and input sentinels.
func TestSolve_Errors(t *testing.T) {
	_, err := equilibrium.NewSolver(nil)
	require.ErrorIs(t, err, equilibrium.ErrNilRegistry)

	_, err = newSolver(t, registry.New()).Solve(composition.Composition{})
	require.ErrorIs(t, err, equilibrium.ErrEmptyTarget)
}

// TestSolve_Idempotent: repeated solves agree on the energy.
func TestSolve_Idempotent(t *testing.T) {
	s := newSolver(t, scenarioRegistry(t))
	target := comp(t, map[string]float64{"Na": 0.3, "Cl": 0.7})

	first, err := s.GroundStateEnergy(target)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		e, err := s.GroundStateEnergy(target)
		require.NoError(t, err)
		require.InDelta(t, first, e, 1e-12)
	}
}

// TestOptions_Panics guards the option constructors.
func TestOptions_Panics(t *testing.T) {
	require.Panics(t, func() { equilibrium.WithPruneEpsilon(-1) })
	require.Panics(t, func() { equilibrium.WithPruneEpsilon(math.NaN()) })
	require.Panics(t, func() { equilibrium.WithTolerance(-1e-3) })
	require.Panics(t, func() { equilibrium.WithBalanceCheck(0) })

	s := newSolver(t, registry.New(), equilibrium.WithPruneEpsilon(1e-4), equilibrium.WithTolerance(1e-12))
	require.Equal(t, 1e-4, s.Options().PruneEpsilon())
	require.Equal(t, 1e-12, s.Options().Tolerance())
}

// TestSolve_PrunesSmallFractions: a target a hair away from a compound
// keeps the sub-epsilon phase out of the result when the epsilon is large.
func TestSolve_PrunesSmallFractions(t *testing.T) {
	s := newSolver(t, scenarioRegistry(t), equilibrium.WithPruneEpsilon(1e-3), equilibrium.WithoutBalanceCheck())
	target := comp(t, map[string]float64{"Na": 0.4999, "Cl": 0.5001})

	eq, err := s.Solve(target)
	require.NoError(t, err)
	require.Equal(t, 1, eq.Len()) // Cl fraction 2e-4 pruned
	require.InDelta(t, -0.9998, eq.Energy, tol)
}
