package equilibrium_test

import (
	"testing"

	"github.com/katalvlaran/gclp/composition"
	"github.com/katalvlaran/gclp/equilibrium"
	"github.com/katalvlaran/gclp/registry"
)

// benchRegistry builds a quaternary reference set on a coarse integer grid.
func benchRegistry(b *testing.B) *registry.Registry {
	b.Helper()
	reg := registry.New()
	for i := 0; i <= 4; i++ {
		for j := 0; j <= 4; j++ {
			for k := 0; k <= 4; k++ {
				for l := 0; l <= 4; l++ {
					c, err := composition.FromSymbols(map[string]float64{
						"Al": float64(i), "Ni": float64(j), "Zr": float64(k), "Ti": float64(l),
					})
					if err != nil || c.Len() < 2 {
						continue
					}
					e := -0.1 * float64(i*j+j*k+k*l+i*l) / float64(i+j+k+l)
					if _, err := reg.AddPhase(c, e); err != nil {
						b.Fatal(err)
					}
				}
			}
		}
	}

	return reg
}

func BenchmarkSolve_Quaternary(b *testing.B) {
	solver, err := equilibrium.NewSolver(benchRegistry(b))
	if err != nil {
		b.Fatal(err)
	}
	target := comp(b, map[string]float64{"Al": 0.31, "Ni": 0.22, "Zr": 0.27, "Ti": 0.2})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := solver.Solve(target); err != nil {
			b.Fatal(err)
		}
	}
}
