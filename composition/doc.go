// Package composition provides the canonical chemical-composition value type
// consumed by the registry, solver and descriptor packages.
//
// A Composition is an immutable, ordered set of (element, fraction) pairs:
//
//	– fractions are strictly positive and sum to 1.0;
//	– element ids are unique and sorted ascending (by atomic number);
//	– duplicate ids are merged and near-zero entries dropped on construction.
//
// Two compositions built from differently-ordered or duplicate-laden inputs
// therefore compare equal and share the same Key, which is what the phase
// registry relies on for de-duplication.
//
// Elements:
//
//	The package ships the 112-element table H..Cn. Element ids are Z−1, so
//	H is 0 and Cn is 111. Lookup maps a symbol ("Fe") to its Element; the
//	package never parses chemical formulas.
//
// Errors (sentinel):
//
//	– ErrUnknownElement  element id or symbol outside the table.
//	– ErrInvalidAmount   negative, NaN or ±Inf amount.
//	– ErrEmpty           no positive amount left after canonicalization.
//
// Example usage:
//
//	nacl, err := composition.FromSymbols(map[string]float64{"Na": 1, "Cl": 1})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(nacl) // Na0.5Cl0.5
package composition
