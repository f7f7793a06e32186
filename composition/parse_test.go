package composition_test

import (
	"testing"

	"github.com/katalvlaran/gclp/composition"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for formula, want := range map[string]map[string]float64{
		"NaCl":       {"Na": 1, "Cl": 1},
		"Fe2O3":      {"Fe": 2, "O": 3},
		"Na0.5Cl0.5": {"Na": 1, "Cl": 1},
		"OFeO2":      {"O": 3, "Fe": 1},
		"Al2 O3":     {"Al": 2, "O": 3},
		"H1e-1O1e0":  {"H": 0.1, "O": 1},
	} {
		got, err := composition.Parse(formula)
		require.NoError(t, err, formula)
		exp, err := composition.FromSymbols(want)
		require.NoError(t, err)
		require.True(t, got.Equal(exp), "%s: got %s want %s", formula, got, exp)
	}
}

func TestParse_RoundTripString(t *testing.T) {
	c, err := composition.FromSymbols(map[string]float64{"K": 2, "Ca": 1, "Mg": 1})
	require.NoError(t, err)

	back, err := composition.Parse(c.String())
	require.NoError(t, err)
	require.True(t, back.Equal(c))
}

func TestParse_Errors(t *testing.T) {
	for _, bad := range []string{"nacl", "Na-1", "Na(Cl)2", "Na1.2.3"} {
		_, err := composition.Parse(bad)
		require.ErrorIs(t, err, composition.ErrMalformed, bad)
	}

	_, err := composition.Parse("Xx2")
	require.ErrorIs(t, err, composition.ErrUnknownElement)
	_, err = composition.Parse("")
	require.ErrorIs(t, err, composition.ErrEmpty)
	_, err = composition.Parse("Na0")
	require.ErrorIs(t, err, composition.ErrEmpty)

	require.Panics(t, func() { composition.MustParse("??") })
}
