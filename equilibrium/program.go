package equilibrium

import (
	"fmt"
	"math"

	"github.com/katalvlaran/gclp/composition"
	"github.com/katalvlaran/gclp/registry"
	"gonum.org/v1/gonum/mat"
)

// program is the GCLP linear program of one target in equality form.
//
// Layout:
//   - columns: one per candidate phase, in candidate order;
//   - rows 0..k-1: mass balance of target element r;
//   - row k: normalization Σx = 1.
type program struct {
	target composition.Composition
	elems  []composition.Element // target elements, row order
	phases []registry.Phase      // candidates, column order
	a      *mat.Dense            // (k+1)×n constraint matrix
	b      []float64             // k+1 right-hand side
	c      []float64             // n objective coefficients (energies)
	basis  []int                 // column of the elemental phase of each row
}

// buildProgram assembles the LP for target over the given candidates.
//
// Implementation:
//   - Stage 1: locate the elemental column of every target element; a
//     missing one is ErrUnseededElement.
//   - Stage 2: fill mass-balance rows with phase fractions and the
//     normalization row with ones.
//   - Stage 3: copy energies into the objective.
//
// Complexity: O(k·n·log k) time, O(k·n) space.
func buildProgram(target composition.Composition, phases []registry.Phase) (*program, error) {
	var (
		elems = target.Elements()
		k     = len(elems)
		n     = len(phases)
	)

	// Stage 1: elemental basis.
	rowOf := make(map[composition.Element]int, k)
	for r, e := range elems {
		rowOf[e] = r
	}
	basis := make([]int, k)
	for r := range basis {
		basis[r] = -1
	}
	for j, p := range phases {
		if p.IsElemental() {
			if r, ok := rowOf[p.Composition.Elements()[0]]; ok {
				basis[r] = j
			}
		}
	}
	for r, j := range basis {
		if j < 0 {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvariantViolated, ErrUnseededElement, elems[r])
		}
	}

	// Stage 2: constraint matrix and right-hand side.
	a := mat.NewDense(k+1, n, nil)
	b := make([]float64, k+1)
	for r, e := range elems {
		for j, p := range phases {
			a.Set(r, j, p.Composition.Fraction(e))
		}
		b[r] = target.Fraction(e)
	}
	for j := 0; j < n; j++ {
		a.Set(k, j, 1)
	}
	b[k] = 1

	// Stage 3: objective.
	c := make([]float64, n)
	for j, p := range phases {
		c[j] = p.Energy
	}

	return &program{target: target, elems: elems, phases: phases, a: a, b: b, c: c, basis: basis}, nil
}

// standardForm returns the full-row-rank system handed to the simplex method.
//
// Every candidate's elements are a subset of the target's and both sides are
// normalized, so the normalization row equals the sum of the mass-balance
// rows. The LP library needs linearly independent rows; the redundancy is
// verified and the normalization row dropped. The mass-balance rows keep
// full rank because the elemental columns form an identity block.
//
// Complexity: O(k·n).
func (p *program) standardForm() (mat.Matrix, []float64, error) {
	k, n := len(p.elems), len(p.phases)

	for j := 0; j < n; j++ {
		var sum float64
		for r := 0; r < k; r++ {
			sum += p.a.At(r, j)
		}
		if math.Abs(sum-p.a.At(k, j)) > redundancyTolerance {
			return nil, nil, fmt.Errorf("%w: phase %s is not a sub-composition of %s",
				ErrInvariantViolated, p.phases[j].Composition, p.target)
		}
	}
	var bsum float64
	for r := 0; r < k; r++ {
		bsum += p.b[r]
	}
	if math.Abs(bsum-p.b[k]) > redundancyTolerance {
		return nil, nil, fmt.Errorf("%w: target %s is not normalized", ErrInvariantViolated, p.target)
	}

	return p.a.Slice(0, k, 0, n), p.b[:k], nil
}

// residual returns the largest absolute violation of the mass-balance and
// normalization rows by x.
func (p *program) residual(x []float64) float64 {
	rows, _ := p.a.Dims()
	var worst float64
	for r := 0; r < rows; r++ {
		got := mat.Dot(p.a.RowView(r), mat.NewVecDense(len(x), x))
		worst = math.Max(worst, math.Abs(got-p.b[r]))
	}

	return worst
}
