package composition

import (
	"fmt"
	"strings"
)

// Element identifies a chemical element by its position in the element table
// (atomic number minus one).
type Element int

// symbols is the element table ordered by atomic number.
var symbols = [...]string{
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm",
	"Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn",
}

// NumElements is the number of elements known to the package.
const NumElements = len(symbols)

// bySymbol is the reverse index of symbols.
var bySymbol = func() map[string]Element {
	m := make(map[string]Element, NumElements)
	for i, s := range symbols {
		m[s] = Element(i)
	}
	return m
}()

// Lookup returns the Element for an exact, case-sensitive symbol ("Fe", not "FE").
//
// Errors:
//   - ErrUnknownElement if the symbol is not in the table.
func Lookup(symbol string) (Element, error) {
	e, ok := bySymbol[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownElement, symbol)
	}

	return e, nil
}

// LookupFold is Lookup ignoring case: "na", "NA" and "Na" all name sodium.
// Element symbols are one capital plus lowercase letters, so folding is
// unambiguous.
func LookupFold(symbol string) (Element, error) {
	if symbol == "" {
		return Lookup(symbol)
	}

	return Lookup(strings.ToUpper(symbol[:1]) + strings.ToLower(symbol[1:]))
}

// Elements returns every known element in ascending order.
func Elements() []Element {
	out := make([]Element, NumElements)
	for i := range out {
		out[i] = Element(i)
	}

	return out
}

// Valid reports whether e is inside the element table.
func (e Element) Valid() bool { return e >= 0 && int(e) < NumElements }

// Symbol returns the chemical symbol, or "Element(n)" for ids outside the table.
func (e Element) Symbol() string {
	if !e.Valid() {
		return fmt.Sprintf("Element(%d)", int(e))
	}

	return symbols[e]
}

// AtomicNumber returns Z for e.
func (e Element) AtomicNumber() int { return int(e) + 1 }

// String implements fmt.Stringer.
func (e Element) String() string { return e.Symbol() }
