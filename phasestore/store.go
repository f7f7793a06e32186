package phasestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/katalvlaran/gclp/composition"
	"github.com/katalvlaran/gclp/registry"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Sentinel errors.
var (
	// ErrEmptyComposition indicates a write of the zero-value composition.
	ErrEmptyComposition = errors.New("phasestore: composition is empty")

	// ErrInvalidEnergy indicates a write of a NaN or ±Inf energy.
	ErrInvalidEnergy = errors.New("phasestore: energy must be finite")
)

// DefaultPath is used by Open when path is empty.
const DefaultPath = "phases.db"

const schema = `CREATE TABLE IF NOT EXISTS phases (
	key         TEXT PRIMARY KEY,
	composition BLOB NOT NULL,
	energy      REAL NOT NULL
)`

const upsert = `INSERT INTO phases (key, composition, energy) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET energy = excluded.energy, composition = excluded.composition
	WHERE excluded.energy < phases.energy`

// Elemental rows hold chemical potentials: the latest value wins.
const upsertElement = `INSERT INTO phases (key, composition, energy) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET energy = excluded.energy, composition = excluded.composition
	WHERE excluded.energy <> phases.energy`

// Store is a SQLite-backed phase table. It is safe for concurrent use; the
// database handle serializes writers.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("phasestore: create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("phasestore: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("phasestore: create phases table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Put stores c at energy unless a lower or equal energy is already stored.
// A pure element is a chemical potential and replaces any stored value.
// It reports whether the row changed.
func (s *Store) Put(ctx context.Context, c composition.Composition, energy float64) (bool, error) {
	payload, err := encode(c, energy)
	if err != nil {
		return false, err
	}
	query := upsert
	if c.IsPure() {
		query = upsertElement
	}
	res, err := s.db.ExecContext(ctx, query, c.Key(), payload, energy)
	if err != nil {
		return false, fmt.Errorf("phasestore: put %s: %w", c, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("phasestore: put %s: %w", c, err)
	}

	return n > 0, nil
}

// PutEntries stores every entry that carries an energy in one transaction,
// row by row as Put does, and returns how many rows changed. Any invalid
// entry rolls the whole batch back.
func (s *Store) PutEntries(ctx context.Context, entries []registry.Entry) (changed int, retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("phasestore: begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	compound, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return 0, fmt.Errorf("phasestore: prepare: %w", err)
	}
	defer func() { _ = compound.Close() }()
	element, err := tx.PrepareContext(ctx, upsertElement)
	if err != nil {
		return 0, fmt.Errorf("phasestore: prepare: %w", err)
	}
	defer func() { _ = element.Close() }()

	for i, en := range entries {
		if en.Energy == nil {
			continue
		}
		payload, err := encode(en.Composition, *en.Energy)
		if err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
		stmt := compound
		if en.Composition.IsPure() {
			stmt = element
		}
		res, err := stmt.ExecContext(ctx, en.Composition.Key(), payload, *en.Energy)
		if err != nil {
			return 0, fmt.Errorf("phasestore: entry %d: %w", i, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			changed++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("phasestore: commit: %w", err)
	}

	return changed, nil
}

// SaveRegistry stores every exported entry of reg. A stored chemical
// potential that reg has reset to 0 is written back as 0.
func (s *Store) SaveRegistry(ctx context.Context, reg *registry.Registry) (int, error) {
	entries := reg.Entries()
	stored, err := s.Entries(ctx)
	if err != nil {
		return 0, err
	}
	for _, en := range stored {
		if !en.Composition.IsPure() {
			continue
		}
		mu, err := reg.ChemicalPotential(en.Composition.Elements()[0])
		if err != nil {
			return 0, err
		}
		if mu == 0 {
			entries = append(entries, registry.NewEntry(en.Composition, 0))
		}
	}

	return s.PutEntries(ctx, entries)
}

// Count returns the number of stored phases.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM phases`).Scan(&n); err != nil {
		return 0, fmt.Errorf("phasestore: count: %w", err)
	}

	return n, nil
}

// Entries returns every stored phase ordered by composition key.
func (s *Store) Entries(ctx context.Context) ([]registry.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT composition, energy FROM phases ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("phasestore: select phases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []registry.Entry
	for rows.Next() {
		var (
			payload []byte
			energy  float64
		)
		if err := rows.Scan(&payload, &energy); err != nil {
			return nil, fmt.Errorf("phasestore: scan: %w", err)
		}
		var c composition.Composition
		if err := json.Unmarshal(payload, &c); err != nil {
			return nil, fmt.Errorf("phasestore: decode composition: %w", err)
		}
		out = append(out, registry.NewEntry(c, energy))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("phasestore: iterate: %w", err)
	}

	return out, nil
}

// LoadInto copies the stored phases into reg. Elemental rows set chemical
// potentials; the rest go through ImportPhases. It returns how many
// entries changed reg.
func (s *Store) LoadInto(ctx context.Context, reg *registry.Registry) (int, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return 0, err
	}

	var (
		compounds []registry.Entry
		changed   int
	)
	for _, en := range entries {
		if !en.Composition.IsPure() {
			compounds = append(compounds, en)
			continue
		}
		e := en.Composition.Elements()[0]
		cur, err := reg.ChemicalPotential(e)
		if err != nil {
			return changed, err
		}
		if cur == *en.Energy {
			continue
		}
		if err := reg.SetChemicalPotential(e, *en.Energy); err != nil {
			return changed, err
		}
		changed++
	}
	n, err := reg.ImportPhases(compounds)

	return changed + n, err
}

func encode(c composition.Composition, energy float64) ([]byte, error) {
	if c.IsZero() {
		return nil, ErrEmptyComposition
	}
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return nil, fmt.Errorf("%w: %s=%v", ErrInvalidEnergy, c, energy)
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("phasestore: encode %s: %w", c, err)
	}

	return payload, nil
}
