// Package gclp computes grand-canonical linear programming (GCLP) phase
// equilibria: given reference phases with known energies, it finds the
// mixture of phases with the lowest total energy at a target composition,
// and derives T=0K descriptors and stabilities from that ground state.
//
// What is in the box?
//
//	• composition/  canonical, immutable compositions over the element table
//	• registry/     thread-safe store of reference phases, seeded per element
//	• equilibrium/  the GCLP solver (linear program via gonum)
//	• attributes/   T0K:* features of an equilibrium
//	• stability/    energy above hull, self-reference policy, filtering
//	• batch/        parallel runs with zap logging and Prometheus metrics
//	• phasestore/   SQLite persistence of reference phases
//	• config/       YAML configuration of all of the above
//	• cmd/gclp      command-line front end (cobra + viper)
//
// Quick picture (binary A–B system):
//
//	 E
//	 0 ┤A─────────────B
//	   │ ╲         ╱
//	   │   ╲     ╱
//	   │     ╲ ╱
//	   │     AB        ground state at any x is read off this lower hull
//	   └───────────── x(B)
//
// Library packages never log; only batch and the command do.
//
//	go get github.com/katalvlaran/gclp
package gclp
