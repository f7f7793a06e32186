// Package equilibrium implements Grand-Canonical Linear Programming (GCLP):
// the lowest-energy combination of registered reference phases whose
// combined composition equals a target composition exactly.
//
// Overview:
//
//	For a target composition t over elements e₁..e_k and the candidate
//	phases P₁..P_n whose elements are a subset of t's, solve
//
//	  minimize    Σᵢ xᵢ·Eᵢ
//	  subject to  Σᵢ xᵢ·frac(Pᵢ, e) = frac(t, e)   for every e in t
//	              Σᵢ xᵢ = 1
//	              xᵢ ≥ 0
//
//	The objective value is the ground-state energy; the non-zero xᵢ are the
//	molar fractions of the phases in equilibrium.
//
// Feasibility:
//
//	The registry seeds every element as a reference phase, so x = t's own
//	fractions on the pure-element columns is always a feasible vertex. The
//	solver hands exactly that vertex to the simplex method as its starting
//	basis. An infeasible or failed LP therefore means a broken invariant
//	and is reported as ErrInvariantViolated, never as a degraded result.
//
// Degenerate optima:
//
//	When several phase assemblages reach the same minimum energy the
//	returned partition depends on the simplex pivot sequence. Candidates
//	are ordered by composition key, so a given registry and target always
//	yield the same partition, but only the energy is canonical across
//	registries holding the same phases.
//
// Concurrency:
//
//	Solve only reads the registry and allocates its own LP; a single Solver
//	may be shared by any number of goroutines.
//
// Errors (sentinel):
//
//	– ErrNilRegistry        solver built without a registry.
//	– ErrEmptyTarget        zero-value target composition.
//	– ErrInvariantViolated  LP infeasible/failed, or mass balance broken.
//	– ErrUnseededElement    a target element has no elemental reference
//	                        phase (also matches ErrInvariantViolated).
//
// Complexity:
//
//	Candidate filtering is O(N·k) over the N registered phases; the simplex
//	solve works on a k×n dense matrix, n = number of candidates.
//
// Reference: Akbarzadeh, Ozolins, Wolverton, Advanced Materials 19 (2007) 3233.
package equilibrium
