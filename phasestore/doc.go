// Package phasestore persists reference phases in a SQLite database so a
// registry can be rebuilt without re-reading the source dataset.
//
// One row per canonical composition holds the composition (JSON) and its
// energy. Writes keep the lower energy for a composition, the same rule the
// registry applies. Elemental rows are chemical potentials and override
// the registry's seeded values on load.
//
// The driver is modernc.org/sqlite (pure Go, no cgo).
package phasestore
