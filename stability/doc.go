// Package stability scores compositions by their energy above the GCLP
// ground state ("energy above hull").
//
// stability = E − groundStateEnergy(c)
//
// A value at or below zero (within tolerance) means the composition lies on
// or below the hull computed from the reference phases.
//
// Self reference:
//
//	When the scored composition is itself registered, its own energy can be
//	its cheapest reference and stability collapses to zero (or below). The
//	Scorer makes this an explicit choice: IncludeSelf keeps the registered
//	phase in play, ExcludeSelf solves without it, which yields the distance
//	to the hull formed by all other phases. Elemental reference phases are
//	never excluded.
//
// Filtering:
//
//	Filter labels entries whose stability, computed from their measured or
//	predicted energy, is strictly below a threshold.
package stability
