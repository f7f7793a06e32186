// Package composition_test verifies canonicalization, queries and codecs of
// the Composition value type.
package composition_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/katalvlaran/gclp/composition"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"
)

// mustSymbols builds a composition or fails the test.
func mustSymbols(t *testing.T, m map[string]float64) composition.Composition {
	t.Helper()
	c, err := composition.FromSymbols(m)
	require.NoError(t, err)

	return c
}

// TestNew_CanonicalOrderAndNormalization checks ascending ids and unit sum.
func TestNew_CanonicalOrderAndNormalization(t *testing.T) {
	c := mustSymbols(t, map[string]float64{"Cl": 1, "Na": 1})

	require.Equal(t, []composition.Element{10, 16}, c.Elements()) // Na (Z=11) before Cl (Z=17)
	require.InDeltaSlice(t, []float64{0.5, 0.5}, c.Fractions(), 1e-15)
	require.Equal(t, "Na0.5Cl0.5", c.String())
}

// TestNew_MergesDuplicates ensures duplicate ids are summed before normalization.
func TestNew_MergesDuplicates(t *testing.T) {
	fe, err := composition.Lookup("Fe")
	require.NoError(t, err)
	o, err := composition.Lookup("O")
	require.NoError(t, err)

	dup, err := composition.New(
		composition.Amount{Element: fe, Value: 1},
		composition.Amount{Element: o, Value: 3},
		composition.Amount{Element: fe, Value: 1},
	)
	require.NoError(t, err)
	ref := mustSymbols(t, map[string]float64{"Fe": 2, "O": 3})

	require.True(t, dup.Equal(ref))
	require.Equal(t, ref.Key(), dup.Key())
	require.InDelta(t, 0.4, dup.Fraction(fe), 1e-12)
}

// TestNew_DropsZeroEntries ensures zero and near-zero amounts disappear.
func TestNew_DropsZeroEntries(t *testing.T) {
	c := mustSymbols(t, map[string]float64{"Al": 1, "Ni": 0, "Fe": 1e-14})
	require.Equal(t, 1, c.Len())
	require.True(t, c.IsPure())
	require.Equal(t, "Al1", c.String())
}

// TestNew_Errors covers every sentinel of the constructor.
func TestNew_Errors(t *testing.T) {
	_, err := composition.New()
	require.ErrorIs(t, err, composition.ErrEmpty)

	_, err = composition.FromSymbols(map[string]float64{"Na": 0})
	require.ErrorIs(t, err, composition.ErrEmpty)

	_, err = composition.FromSymbols(map[string]float64{"Na": -1, "Cl": 2})
	require.ErrorIs(t, err, composition.ErrInvalidAmount)

	_, err = composition.FromSymbols(map[string]float64{"Na": math.NaN()})
	require.ErrorIs(t, err, composition.ErrInvalidAmount)

	_, err = composition.FromSymbols(map[string]float64{"Xx": 1})
	require.ErrorIs(t, err, composition.ErrUnknownElement)

	_, err = composition.New(composition.Amount{Element: composition.Element(composition.NumElements), Value: 1})
	require.ErrorIs(t, err, composition.ErrUnknownElement)

	_, err = composition.Pure(-1)
	require.ErrorIs(t, err, composition.ErrUnknownElement)
}

// TestLookup_RoundTrip checks the element table edges.
func TestLookup_RoundTrip(t *testing.T) {
	require.Equal(t, 112, composition.NumElements)
	h, err := composition.Lookup("H")
	require.NoError(t, err)
	require.Equal(t, composition.Element(0), h)
	require.Equal(t, 1, h.AtomicNumber())

	cn, err := composition.Lookup("Cn")
	require.NoError(t, err)
	require.Equal(t, "Cn", cn.Symbol())
	require.Equal(t, 112, cn.AtomicNumber())

	require.Equal(t, "Element(500)", composition.Element(500).Symbol())
	require.Len(t, composition.Elements(), composition.NumElements)
}

// TestIsSubsetOf checks element-set inclusion.
func TestIsSubsetOf(t *testing.T) {
	nacl := mustSymbols(t, map[string]float64{"Na": 1, "Cl": 1})
	na := mustSymbols(t, map[string]float64{"Na": 1})
	nak := mustSymbols(t, map[string]float64{"Na": 1, "K": 1})

	require.True(t, na.IsSubsetOf(nacl))
	require.True(t, nacl.IsSubsetOf(nacl))
	require.False(t, nacl.IsSubsetOf(na))
	require.False(t, nak.IsSubsetOf(nacl))
}

// TestDistanceTo evaluates only over the receiver's element dimensions.
func TestDistanceTo(t *testing.T) {
	target := mustSymbols(t, map[string]float64{"Na": 1, "Cl": 1})
	na := mustSymbols(t, map[string]float64{"Na": 1})

	require.InDelta(t, math.Sqrt(0.5), target.DistanceTo(na), 1e-12)
	require.InDelta(t, 0.0, target.DistanceTo(target), 1e-15)
}

// TestAccessorsReturnCopies guards immutability.
func TestAccessorsReturnCopies(t *testing.T) {
	c := mustSymbols(t, map[string]float64{"Na": 1, "Cl": 1})
	fr := c.Fractions()
	fr[0] = 42
	el := c.Elements()
	el[0] = 99

	require.InDelta(t, 0.5, c.Fractions()[0], 1e-15)
	require.Equal(t, composition.Element(10), c.Elements()[0])
}

// TestCodec_JSONAndYAML decodes symbol maps and canonicalizes them.
func TestCodec_JSONAndYAML(t *testing.T) {
	var fromJSON composition.Composition
	require.NoError(t, json.Unmarshal([]byte(`{"Cl": 2, "Na": 2}`), &fromJSON))

	var fromYAML composition.Composition
	require.NoError(t, yaml.Unmarshal([]byte("{Na: 1, Cl: 1}"), &fromYAML))

	require.True(t, fromJSON.Equal(fromYAML))

	out, err := json.Marshal(fromJSON)
	require.NoError(t, err)
	require.JSONEq(t, `{"Na":0.5,"Cl":0.5}`, string(out))

	var bad composition.Composition
	require.ErrorIs(t, json.Unmarshal([]byte(`{"Qq": 1}`), &bad), composition.ErrUnknownElement)
}

// TestNew_PermutationInvariant is a property test: shuffling and splitting
// amounts never changes the canonical key.
func TestNew_PermutationInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "n")
		amounts := make([]composition.Amount, 0, 2*n)
		for i := 0; i < n; i++ {
			e := composition.Element(rapid.IntRange(0, composition.NumElements-1).Draw(rt, "elem"))
			v := rapid.Float64Range(0.01, 10).Draw(rt, "amount")
			amounts = append(amounts, composition.Amount{Element: e, Value: v})
		}
		base, err := composition.New(amounts...)
		if err != nil {
			rt.Fatalf("new: %v", err)
		}

		// Reverse the order and split the first amount in two halves.
		alt := make([]composition.Amount, 0, len(amounts)+1)
		for i := len(amounts) - 1; i > 0; i-- {
			alt = append(alt, amounts[i])
		}
		half := amounts[0]
		half.Value /= 2
		alt = append(alt, half, half)

		other, err := composition.New(alt...)
		if err != nil {
			rt.Fatalf("new alt: %v", err)
		}
		if !base.Equal(other) {
			rt.Fatalf("keys differ: %s vs %s", base.Key(), other.Key())
		}

		var sum float64
		for _, f := range base.Fractions() {
			if f <= 0 {
				rt.Fatalf("non-positive fraction %v", f)
			}
			sum += f
		}
		if math.Abs(sum-1) > 1e-12 {
			rt.Fatalf("fractions sum to %v", sum)
		}
	})
}

func TestLookupFold(t *testing.T) {
	for _, s := range []string{"na", "NA", "Na", "nA"} {
		e, err := composition.LookupFold(s)
		require.NoError(t, err, s)
		require.Equal(t, "Na", e.Symbol())
	}
	_, err := composition.LookupFold("")
	require.ErrorIs(t, err, composition.ErrUnknownElement)
	_, err = composition.LookupFold("xx")
	require.ErrorIs(t, err, composition.ErrUnknownElement)
}

func TestCodec_FormulaStrings(t *testing.T) {
	var fromJSON composition.Composition
	require.NoError(t, json.Unmarshal([]byte(`"Fe2O3"`), &fromJSON))
	var fromYAML composition.Composition
	require.NoError(t, yaml.Unmarshal([]byte(`Fe2O3`), &fromYAML))

	want, err := composition.FromSymbols(map[string]float64{"Fe": 2, "O": 3})
	require.NoError(t, err)
	require.True(t, fromJSON.Equal(want))
	require.True(t, fromYAML.Equal(want))

	require.Error(t, json.Unmarshal([]byte(`"Fe(2)"`), &fromJSON))
}
