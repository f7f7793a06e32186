package attributes

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/gclp/composition"
	"github.com/katalvlaran/gclp/equilibrium"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Descriptor names, in vector order.
const (
	NameEnthalpy        = "T0K:Enthalpy"
	NamePhaseCount      = "T0K:NPhasesEquilibrium"
	NameClosestDistance = "T0K:ClosestPhaseDistance"
	NameMeanDistance    = "T0K:MeanPhaseDistance"
	NameQuasiEntropy    = "T0K:QuasiEntropy"
)

// Sentinel errors.
var (
	// ErrNilSolver indicates an Extractor built without a solver.
	ErrNilSolver = errors.New("attributes: solver is nil")

	// ErrTargetMismatch indicates an equilibrium computed for another composition.
	ErrTargetMismatch = errors.New("attributes: equilibrium does not belong to target")

	// ErrNoPhases indicates an equilibrium without any phase.
	ErrNoPhases = errors.New("attributes: equilibrium has no phases")
)

// Attributes holds the descriptors of one target.
type Attributes struct {
	Enthalpy        float64
	PhaseCount      int
	ClosestDistance float64
	MeanDistance    float64
	QuasiEntropy    float64
}

// Missing returns the placeholder used for entries whose solve failed.
func Missing() Attributes {
	nan := math.NaN()

	return Attributes{Enthalpy: nan, PhaseCount: -1, ClosestDistance: nan, MeanDistance: nan, QuasiEntropy: nan}
}

// Vector flattens a in Names order. With countPhases=false the phase count
// and quasi-entropy are left out. A Missing value flattens to NaNs.
func (a Attributes) Vector(countPhases bool) []float64 {
	count := float64(a.PhaseCount)
	if a.PhaseCount < 0 {
		count = math.NaN()
	}
	if countPhases {
		return []float64{a.Enthalpy, count, a.ClosestDistance, a.MeanDistance, a.QuasiEntropy}
	}

	return []float64{a.Enthalpy, a.ClosestDistance, a.MeanDistance}
}

// Compute derives the descriptors of target from its equilibrium.
//
// Errors:
//   - ErrTargetMismatch when eq was computed for another composition.
//   - ErrNoPhases when eq is empty.
//
// Complexity: O(p·k·log k) for p phases and k target elements.
func Compute(target composition.Composition, eq equilibrium.Equilibrium) (Attributes, error) {
	if !eq.Target.Equal(target) {
		return Attributes{}, fmt.Errorf("%w: %s vs %s", ErrTargetMismatch, eq.Target, target)
	}
	if eq.Len() == 0 {
		return Attributes{}, ErrNoPhases
	}

	dist := make([]float64, eq.Len())
	for i, pf := range eq.Phases {
		dist[i] = target.DistanceTo(pf.Phase.Composition)
	}

	var entropy float64
	for _, f := range eq.Fractions() {
		entropy += f * math.Log(f)
	}

	return Attributes{
		Enthalpy:        eq.Energy,
		PhaseCount:      eq.Len(),
		ClosestDistance: floats.Min(dist),
		MeanDistance:    stat.Mean(dist, nil),
		QuasiEntropy:    entropy,
	}, nil
}
