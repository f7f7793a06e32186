// Package registry stores the reference phases a GCLP solve may combine.
//
// A Registry maps each canonical composition to exactly one Phase (the
// lowest-energy one seen). At construction it is seeded with every known
// element as a single-element phase with energy 0.0 (overridable through
// WithChemicalPotential or SetChemicalPotential). That seeding is what makes
// every GCLP query over known elements feasible: the target can always be
// decomposed into its pure elements.
//
// Lifecycle:
//
//	reg := registry.New(registry.WithChemicalPotential(o, -4.9))
//	reg.ImportPhases(entries)        // bulk load, entries without energy skipped
//	reg.AddPhase(c, -1.2)             // keeps the lower energy per composition
//	... concurrent read-only solves ...
//
// Concurrency:
//
//	All methods are safe for concurrent use (sync.RWMutex). Solves only take
//	read locks; mutate the registry before a batch, not during it, or the
//	batch sees a moving reference set.
//
// Errors (sentinel):
//
//	– ErrUnknownElement  invalid element for SetChemicalPotential.
//	– ErrEmptyComposition  zero-value composition passed in.
//	– ErrInvalidEnergy   NaN or ±Inf energy.
package registry
