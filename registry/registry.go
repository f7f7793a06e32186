package registry

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/katalvlaran/gclp/composition"
)

// Registry is a de-duplicated store of reference phases keyed by canonical
// composition. See the package documentation for the seeding guarantee.
type Registry struct {
	mu     sync.RWMutex     // guards phases
	phases map[string]Phase // Composition.Key() -> lowest-energy phase
}

// New returns a Registry seeded with one zero-energy phase per known element,
// then applies chemical-potential overrides from opts.
//
// Complexity: O(NumElements).
func New(opts ...Option) *Registry {
	o := options{potentials: make(map[composition.Element]float64)}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{phases: make(map[string]Phase, composition.NumElements)}
	for _, e := range composition.Elements() {
		pure, _ := composition.Pure(e) // e comes from the table; cannot fail
		r.phases[pure.Key()] = Phase{Composition: pure, Energy: o.potentials[e]}
	}

	return r
}

// AddPhase inserts a phase at c, or replaces the existing one only when
// energy is strictly lower. It reports whether the registry changed.
//
// Errors:
//   - ErrEmptyComposition when c is the zero value.
//   - ErrInvalidEnergy when energy is NaN or ±Inf.
//
// Complexity: O(1) amortized.
func (r *Registry) AddPhase(c composition.Composition, energy float64) (bool, error) {
	if c.IsZero() {
		return false, ErrEmptyComposition
	}
	if !isFinite(energy) {
		return false, fmt.Errorf("%w: %s=%v", ErrInvalidEnergy, c, energy)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.phases[c.Key()]; ok && cur.Energy <= energy {
		return false, nil
	}
	r.phases[c.Key()] = Phase{Composition: c, Energy: energy}

	return true, nil
}

// SetChemicalPotential overrides the reference energy of element e. Unlike
// AddPhase the new value always wins, higher or lower.
//
// Errors:
//   - ErrUnknownElement when e is outside the element table.
//   - ErrInvalidEnergy when mu is NaN or ±Inf.
func (r *Registry) SetChemicalPotential(e composition.Element, mu float64) error {
	pure, err := composition.Pure(e)
	if err != nil {
		return fmt.Errorf("%w: id %d", ErrUnknownElement, int(e))
	}
	if !isFinite(mu) {
		return fmt.Errorf("%w: mu(%s)=%v", ErrInvalidEnergy, e, mu)
	}

	r.mu.Lock()
	r.phases[pure.Key()] = Phase{Composition: pure, Energy: mu}
	r.mu.Unlock()

	return nil
}

// SetChemicalPotentialSymbol is SetChemicalPotential keyed by element symbol.
func (r *Registry) SetChemicalPotentialSymbol(symbol string, mu float64) error {
	e, err := composition.Lookup(symbol)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownElement, symbol)
	}

	return r.SetChemicalPotential(e, mu)
}

// ChemicalPotential returns the current reference energy of element e.
func (r *Registry) ChemicalPotential(e composition.Element) (float64, error) {
	pure, err := composition.Pure(e)
	if err != nil {
		return 0, fmt.Errorf("%w: id %d", ErrUnknownElement, int(e))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.phases[pure.Key()].Energy, nil
}

// ImportPhases adds every entry that carries an energy, with AddPhase
// semantics. It returns how many entries changed the registry.
//
// Entries are validated before anything is inserted; an invalid entry
// aborts the import and leaves the registry untouched.
//
// Complexity: O(n).
func (r *Registry) ImportPhases(entries []Entry) (int, error) {
	// Stage 1: validate the whole batch.
	for i, en := range entries {
		if en.Energy == nil {
			continue
		}
		if en.Composition.IsZero() {
			return 0, fmt.Errorf("entry %d: %w", i, ErrEmptyComposition)
		}
		if !isFinite(*en.Energy) {
			return 0, fmt.Errorf("entry %d: %w: %v", i, ErrInvalidEnergy, *en.Energy)
		}
	}

	// Stage 2: insert under a single write lock.
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := 0
	for _, en := range entries {
		if en.Energy == nil {
			continue
		}
		key := en.Composition.Key()
		if cur, ok := r.phases[key]; ok && cur.Energy <= *en.Energy {
			continue
		}
		r.phases[key] = Phase{Composition: en.Composition, Energy: *en.Energy}
		changed++
	}

	return changed, nil
}

// Size returns the number of distinct registered compositions.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.phases)
}

// Lookup returns the phase registered at exactly c.
func (r *Registry) Lookup(c composition.Composition) (Phase, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.phases[c.Key()]

	return p, ok
}

// Phases returns every registered phase ordered by composition key.
//
// Complexity: O(N log N).
func (r *Registry) Phases() []Phase {
	r.mu.RLock()
	out := make([]Phase, 0, len(r.phases))
	for _, p := range r.phases {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sortPhases(out)

	return out
}

// Candidates returns the phases whose element set is a subset of target's,
// ordered by composition key. These are the only phases that can take part
// in target's equilibrium.
//
// Complexity: O(N·k) scan plus O(m log m) sort of the m matches.
func (r *Registry) Candidates(target composition.Composition) []Phase {
	r.mu.RLock()
	var out []Phase
	for _, p := range r.phases {
		if p.Composition.IsSubsetOf(target) {
			out = append(out, p)
		}
	}
	r.mu.RUnlock()

	sortPhases(out)

	return out
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cp := &Registry{phases: make(map[string]Phase, len(r.phases))}
	for k, p := range r.phases {
		cp.phases[k] = p
	}

	return cp
}

// Entries exports the registry as dataset entries ordered by composition
// key. Elemental phases still at the seeded default (0.0) are left out since
// any new Registry recreates them.
func (r *Registry) Entries() []Entry {
	var out []Entry
	for _, p := range r.Phases() {
		if p.IsElemental() && p.Energy == 0 {
			continue
		}
		out = append(out, NewEntry(p.Composition, p.Energy))
	}

	return out
}

func sortPhases(ps []Phase) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Composition.Compare(ps[j].Composition) < 0 })
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
