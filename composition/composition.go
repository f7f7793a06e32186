package composition

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ZeroTolerance is the normalized fraction below which an entry is treated
// as absent and dropped during canonicalization.
const ZeroTolerance = 1e-10

// keyDigits is the number of decimals used for fractions inside Key.
// Fractions that differ only beyond 1e-9 share a key.
const keyDigits = 9

// Amount is one raw (element, amount) pair fed into New. Amounts need not be
// normalized: {Na 1, Cl 1} and {Na 0.5, Cl 0.5} build the same Composition.
type Amount struct {
	Element Element
	Value   float64
}

// Composition is an immutable, canonical set of (element, fraction) pairs.
//
// The zero value is the empty composition; it is never returned by the
// constructors and is rejected by every consumer in this module.
type Composition struct {
	elems []Element // ascending, unique
	fracs []float64 // strictly positive, sum 1
	key   string    // canonical identity
}

// New canonicalizes raw amounts into a Composition.
//
// Implementation:
//   - Stage 1: validate element ids and amounts.
//   - Stage 2: merge duplicate ids by summing their amounts.
//   - Stage 3: normalize to unit sum and drop entries below ZeroTolerance.
//   - Stage 4: sort ascending by element id and build the canonical key.
//
// Errors:
//   - ErrUnknownElement for ids outside the table.
//   - ErrInvalidAmount for negative, NaN or ±Inf amounts.
//   - ErrEmpty when nothing positive remains.
//
// Complexity: O(k log k) for k input pairs.
func New(amounts ...Amount) (Composition, error) {
	merged := make(map[Element]float64, len(amounts))
	var total float64

	// Stage 1 + 2: validate and merge.
	for _, a := range amounts {
		if !a.Element.Valid() {
			return Composition{}, fmt.Errorf("%w: id %d", ErrUnknownElement, int(a.Element))
		}
		if math.IsNaN(a.Value) || math.IsInf(a.Value, 0) || a.Value < 0 {
			return Composition{}, fmt.Errorf("%w: %s=%v", ErrInvalidAmount, a.Element, a.Value)
		}
		merged[a.Element] += a.Value
		total += a.Value
	}
	if total <= 0 {
		return Composition{}, ErrEmpty
	}

	// Stage 3: drop near-zero entries, then renormalize what is left.
	elems := make([]Element, 0, len(merged))
	var kept float64
	for e, v := range merged {
		if v/total < ZeroTolerance {
			continue
		}
		elems = append(elems, e)
		kept += v
	}
	if len(elems) == 0 {
		return Composition{}, ErrEmpty
	}

	// Stage 4: canonical order.
	sort.Slice(elems, func(i, j int) bool { return elems[i] < elems[j] })
	fracs := make([]float64, len(elems))
	for i, e := range elems {
		fracs[i] = merged[e] / kept
	}

	return build(elems, fracs), nil
}

// FromMap builds a Composition from an element→amount map.
func FromMap(amounts map[Element]float64) (Composition, error) {
	list := make([]Amount, 0, len(amounts))
	for e, v := range amounts {
		list = append(list, Amount{Element: e, Value: v})
	}

	return New(list...)
}

// FromSymbols builds a Composition from a symbol→amount map, e.g.
// {"Na": 1, "Cl": 1}. Symbols are looked up exactly; no formula parsing
// takes place.
func FromSymbols(amounts map[string]float64) (Composition, error) {
	list := make([]Amount, 0, len(amounts))
	for s, v := range amounts {
		e, err := Lookup(s)
		if err != nil {
			return Composition{}, err
		}
		list = append(list, Amount{Element: e, Value: v})
	}

	return New(list...)
}

// Pure returns the single-element composition of e.
func Pure(e Element) (Composition, error) {
	if !e.Valid() {
		return Composition{}, fmt.Errorf("%w: id %d", ErrUnknownElement, int(e))
	}

	return build([]Element{e}, []float64{1}), nil
}

// build assembles a Composition from already-canonical slices.
func build(elems []Element, fracs []float64) Composition {
	var sb strings.Builder
	for i, e := range elems {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(e.Symbol())
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatFloat(fracs[i], 'f', keyDigits, 64))
	}

	return Composition{elems: elems, fracs: fracs, key: sb.String()}
}

// IsZero reports whether c is the zero (empty) composition.
func (c Composition) IsZero() bool { return len(c.elems) == 0 }

// Len returns the number of distinct elements.
func (c Composition) Len() int { return len(c.elems) }

// IsPure reports whether c consists of a single element.
func (c Composition) IsPure() bool { return len(c.elems) == 1 }

// Elements returns a copy of the element ids in ascending order.
func (c Composition) Elements() []Element {
	out := make([]Element, len(c.elems))
	copy(out, c.elems)

	return out
}

// Fractions returns a copy of the fractions, aligned with Elements.
func (c Composition) Fractions() []float64 {
	out := make([]float64, len(c.fracs))
	copy(out, c.fracs)

	return out
}

// Amounts returns the (element, fraction) pairs in canonical order.
func (c Composition) Amounts() []Amount {
	out := make([]Amount, len(c.elems))
	for i, e := range c.elems {
		out[i] = Amount{Element: e, Value: c.fracs[i]}
	}

	return out
}

// index returns the position of e, or -1.
func (c Composition) index(e Element) int {
	i := sort.Search(len(c.elems), func(i int) bool { return c.elems[i] >= e })
	if i < len(c.elems) && c.elems[i] == e {
		return i
	}

	return -1
}

// Fraction returns the fraction of e, or 0 when e is absent.
// Complexity: O(log k).
func (c Composition) Fraction(e Element) float64 {
	if i := c.index(e); i >= 0 {
		return c.fracs[i]
	}

	return 0
}

// Contains reports whether e is present.
func (c Composition) Contains(e Element) bool { return c.index(e) >= 0 }

// IsSubsetOf reports whether every element of c also appears in other.
// Both element lists are sorted, so a single merge pass suffices.
//
// Complexity: O(k + m).
func (c Composition) IsSubsetOf(other Composition) bool {
	j := 0
	for _, e := range c.elems {
		for j < len(other.elems) && other.elems[j] < e {
			j++
		}
		if j == len(other.elems) || other.elems[j] != e {
			return false
		}
	}

	return true
}

// Key returns the canonical identity string; equal compositions share a key.
func (c Composition) Key() string { return c.key }

// Equal reports whether c and other are the same canonical composition.
func (c Composition) Equal(other Composition) bool { return c.key == other.key }

// Compare orders compositions by Key; it returns -1, 0 or +1.
func (c Composition) Compare(other Composition) int { return strings.Compare(c.key, other.key) }

// DistanceTo returns the Euclidean distance between the fraction vectors of
// c and other, evaluated only over c's element dimensions.
//
// Complexity: O(k log m).
func (c Composition) DistanceTo(other Composition) float64 {
	var sum float64
	for i, e := range c.elems {
		d := other.Fraction(e) - c.fracs[i]
		sum += d * d
	}

	return math.Sqrt(sum)
}

// String renders c as symbol/fraction pairs, e.g. "Na0.5Cl0.5".
func (c Composition) String() string {
	if c.IsZero() {
		return "<empty>"
	}
	var sb strings.Builder
	for i, e := range c.elems {
		sb.WriteString(e.Symbol())
		sb.WriteString(strconv.FormatFloat(c.fracs[i], 'g', 6, 64))
	}

	return sb.String()
}
