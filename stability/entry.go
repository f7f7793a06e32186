package stability

import (
	"math"

	"github.com/katalvlaran/gclp/composition"
)

// Entry is a candidate material with optional measured and predicted
// energies.
type Entry struct {
	Composition composition.Composition `json:"composition" yaml:"composition"`
	Measured    *float64                `json:"measured,omitempty" yaml:"measured,omitempty"`
	Predicted   *float64                `json:"predicted,omitempty" yaml:"predicted,omitempty"`
}

// Result holds the stabilities computed for an Entry; nil where the entry
// had no corresponding energy.
type Result struct {
	Hull      float64  `json:"hull"`
	Measured  *float64 `json:"measured,omitempty"`
	Predicted *float64 `json:"predicted,omitempty"`
}

// ScoreEntry solves e's composition once and derives the stability of each
// energy the entry carries.
//
// Errors:
//   - ErrInvalidEnergy when a present energy is NaN or ±Inf.
//   - solver errors, unchanged.
func (s *Scorer) ScoreEntry(e Entry) (Result, error) {
	for _, v := range []*float64{e.Measured, e.Predicted} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return Result{}, ErrInvalidEnergy
		}
	}
	hull, err := s.HullEnergy(e.Composition)
	if err != nil {
		return Result{}, err
	}

	res := Result{Hull: hull}
	if e.Measured != nil {
		v := *e.Measured - hull
		res.Measured = &v
	}
	if e.Predicted != nil {
		v := *e.Predicted - hull
		res.Predicted = &v
	}

	return res, nil
}
