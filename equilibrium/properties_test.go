package equilibrium_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/gclp/composition"
	"github.com/katalvlaran/gclp/equilibrium"
	"github.com/katalvlaran/gclp/registry"
	"pgregory.net/rapid"
)

// drawRegistry fills a registry with random compounds over symbols.
// Amounts are small integers so compositions collide now and then and
// exercise the keep-lowest rule.
func drawRegistry(rt *rapid.T, symbols []string) *registry.Registry {
	reg := registry.New()
	for _, s := range symbols {
		if rapid.Bool().Draw(rt, "hasMu") {
			mu := rapid.Float64Range(-2, 0).Draw(rt, "mu")
			if err := reg.SetChemicalPotentialSymbol(s, mu); err != nil {
				rt.Fatalf("set mu: %v", err)
			}
		}
	}
	n := rapid.IntRange(0, 12).Draw(rt, "compounds")
	for i := 0; i < n; i++ {
		amounts := make(map[string]float64, len(symbols))
		for _, s := range symbols {
			amounts[s] = float64(rapid.IntRange(0, 4).Draw(rt, "amount"))
		}
		c, err := composition.FromSymbols(amounts)
		if err != nil {
			continue // all-zero draw
		}
		e := rapid.Float64Range(-3, 1).Draw(rt, "energy")
		if _, err := reg.AddPhase(c, e); err != nil {
			rt.Fatalf("add: %v", err)
		}
	}

	return reg
}

// drawTarget draws a random composition over a non-empty subset of symbols.
func drawTarget(rt *rapid.T, symbols []string) composition.Composition {
	first := rapid.IntRange(0, len(symbols)-1).Draw(rt, "first")
	amounts := map[string]float64{symbols[first]: rapid.Float64Range(0.05, 5).Draw(rt, "t0")}
	for i, s := range symbols {
		if i != first && rapid.Bool().Draw(rt, "use") {
			amounts[s] = rapid.Float64Range(0.05, 5).Draw(rt, "t")
		}
	}
	c, err := composition.FromSymbols(amounts)
	if err != nil {
		rt.Fatalf("target: %v", err)
	}

	return c
}

// TestProperty_BalanceAndOptimality checks, on random ternary systems:
// mass balance, normalization, energy not above the elemental decomposition,
// energy not above an exactly matching compound, and idempotence.
func TestProperty_BalanceAndOptimality(t *testing.T) {
	symbols := []string{"Al", "Ni", "Zr"}
	rapid.Check(t, func(rt *rapid.T) {
		reg := drawRegistry(rt, symbols)
		s, err := equilibrium.NewSolver(reg)
		if err != nil {
			rt.Fatalf("solver: %v", err)
		}
		target := drawTarget(rt, symbols)

		eq, err := s.Solve(target)
		if err != nil {
			rt.Fatalf("solve %s: %v", target, err)
		}

		var total float64
		for _, pf := range eq.Phases {
			total += pf.Fraction
		}
		if math.Abs(total-1) > tol {
			rt.Fatalf("fractions sum to %v", total)
		}
		for _, e := range target.Elements() {
			var got float64
			for _, pf := range eq.Phases {
				got += pf.Fraction * pf.Phase.Composition.Fraction(e)
			}
			if math.Abs(got-target.Fraction(e)) > tol {
				rt.Fatalf("mass balance of %s: %v vs %v", e, got, target.Fraction(e))
			}
		}

		var elemental float64
		for _, a := range target.Amounts() {
			mu, _ := reg.ChemicalPotential(a.Element)
			elemental += a.Value * mu
		}
		if eq.Energy > elemental+tol {
			rt.Fatalf("energy %v above elemental decomposition %v", eq.Energy, elemental)
		}
		if p, ok := reg.Lookup(target); ok && eq.Energy > p.Energy+tol {
			rt.Fatalf("energy %v above exact compound %v", eq.Energy, p.Energy)
		}

		again, err := s.GroundStateEnergy(target)
		if err != nil || math.Abs(again-eq.Energy) > 1e-9 {
			rt.Fatalf("not idempotent: %v vs %v (%v)", again, eq.Energy, err)
		}
	})
}

// TestProperty_BinaryMatchesLowerHull compares the LP against a brute-force
// lower convex hull for binary systems: the optimum is the best chord
// between two phases that bracket the target.
func TestProperty_BinaryMatchesLowerHull(t *testing.T) {
	symbols := []string{"Cu", "Zn"}
	cu, _ := composition.Lookup("Cu")
	rapid.Check(t, func(rt *rapid.T) {
		reg := drawRegistry(rt, symbols)
		s, err := equilibrium.NewSolver(reg)
		if err != nil {
			rt.Fatalf("solver: %v", err)
		}
		x := rapid.Float64Range(0.01, 0.99).Draw(rt, "x")
		target, err := composition.FromSymbols(map[string]float64{"Cu": x, "Zn": 1 - x})
		if err != nil {
			rt.Fatalf("target: %v", err)
		}

		got, err := s.GroundStateEnergy(target)
		if err != nil {
			rt.Fatalf("solve: %v", err)
		}

		phases := reg.Candidates(target)
		best := math.Inf(1)
		for _, p := range phases {
			xp := p.Composition.Fraction(cu)
			for _, q := range phases {
				xq := q.Composition.Fraction(cu)
				switch {
				case math.Abs(xp-x) < 1e-12:
					best = math.Min(best, p.Energy)
				case xp < x && x < xq:
					w := (x - xp) / (xq - xp)
					best = math.Min(best, (1-w)*p.Energy+w*q.Energy)
				}
			}
		}
		if math.Abs(best-got) > tol {
			rt.Fatalf("lp %v vs hull %v at x=%v", got, best, x)
		}
	})
}
