package equilibrium_test

import (
	"fmt"

	"github.com/katalvlaran/gclp/composition"
	"github.com/katalvlaran/gclp/equilibrium"
	"github.com/katalvlaran/gclp/registry"
)

// ExampleSolver_Solve computes the ground state of Na0.25Cl0.75 when NaCl is
// the only compound: half NaCl, half Cl.
func ExampleSolver_Solve() {
	reg := registry.New()
	nacl, _ := composition.FromSymbols(map[string]float64{"Na": 1, "Cl": 1})
	if _, err := reg.AddPhase(nacl, -1.0); err != nil {
		panic(err)
	}

	solver, err := equilibrium.NewSolver(reg)
	if err != nil {
		panic(err)
	}
	target, _ := composition.FromSymbols(map[string]float64{"Na": 1, "Cl": 3})
	eq, err := solver.Solve(target)
	if err != nil {
		panic(err)
	}

	fmt.Printf("energy: %.3f\n", eq.Energy)
	for _, pf := range eq.Phases {
		fmt.Printf("%s: %.3f\n", pf.Phase.Composition, pf.Fraction)
	}
	// Output:
	// energy: -0.500
	// Cl1: 0.500
	// Na0.5Cl0.5: 0.500
}
