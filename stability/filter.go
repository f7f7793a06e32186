package stability

import (
	"fmt"
	"strings"
)

// Source selects which energy of an Entry a Filter uses.
type Source int

const (
	// Predicted uses Entry.Predicted.
	Predicted Source = iota

	// Measured uses Entry.Measured.
	Measured
)

// String implements fmt.Stringer.
func (s Source) String() string {
	switch s {
	case Predicted:
		return "predicted"
	case Measured:
		return "measured"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// ParseSource accepts "measured" or "predicted" and their prefixes of at
// least four letters ("meas", "pred").
func ParseSource(s string) (Source, error) {
	if len(s) >= 4 {
		switch {
		case strings.HasPrefix("measured", s):
			return Measured, nil
		case strings.HasPrefix("predicted", s):
			return Predicted, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// Filter labels entries that are stable enough to keep.
type Filter struct {
	Scorer    *Scorer
	Source    Source
	Threshold float64
}

// Keep reports whether e's stability is strictly below the threshold.
//
// Errors:
//   - ErrMissingEnergy when e lacks the selected energy.
//   - ErrUnknownSource for an invalid Source.
//   - scorer errors, unchanged.
func (f Filter) Keep(e Entry) (bool, error) {
	if f.Scorer == nil {
		return false, ErrNilSolver
	}
	var energy *float64
	switch f.Source {
	case Measured:
		energy = e.Measured
	case Predicted:
		energy = e.Predicted
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownSource, f.Source)
	}
	if energy == nil {
		return false, fmt.Errorf("%w: %s (%s)", ErrMissingEnergy, e.Composition, f.Source)
	}

	stab, err := f.Scorer.Score(e.Composition, *energy)
	if err != nil {
		return false, err
	}

	return stab < f.Threshold, nil
}

// Label applies Keep to every entry, stopping at the first error.
func (f Filter) Label(entries []Entry) ([]bool, error) {
	out := make([]bool, len(entries))
	for i, e := range entries {
		keep, err := f.Keep(e)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out[i] = keep
	}

	return out, nil
}
