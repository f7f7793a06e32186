// Package config holds the settings of the gclp command: reference
// chemical potentials, solver tolerances, feature options, stability
// filtering, batch execution and logging.
//
// Files are YAML. The command layers flags and GCLP_* environment variables
// over the file with viper and decodes the result through the mapstructure
// tags below; Load is the plain-YAML path used by tests and library callers.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/katalvlaran/gclp/attributes"
	"github.com/katalvlaran/gclp/batch"
	"github.com/katalvlaran/gclp/composition"
	"github.com/katalvlaran/gclp/equilibrium"
	"github.com/katalvlaran/gclp/registry"
	"github.com/katalvlaran/gclp/stability"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full command configuration.
type Config struct {
	// Potentials maps element symbols to chemical potentials (energy/atom).
	// Unlisted elements stay at 0. Symbols match case-insensitively since
	// viper folds map keys to lower case.
	Potentials map[string]float64 `yaml:"chemical_potentials" mapstructure:"chemical_potentials"`
	Store      string             `yaml:"store" mapstructure:"store"` // phasestore database, optional
	Solver     SolverConfig       `yaml:"solver" mapstructure:"solver"`
	Attributes AttributesConfig   `yaml:"attributes" mapstructure:"attributes"`
	Stability  StabilityConfig    `yaml:"stability" mapstructure:"stability"`
	Batch      BatchConfig        `yaml:"batch" mapstructure:"batch"`
	Log        LogConfig          `yaml:"log" mapstructure:"log"`
}

// SolverConfig mirrors equilibrium options.
type SolverConfig struct {
	PruneEpsilon     float64 `yaml:"prune_epsilon" mapstructure:"prune_epsilon"`
	Tolerance        float64 `yaml:"tolerance" mapstructure:"tolerance"`
	BalanceCheck     bool    `yaml:"balance_check" mapstructure:"balance_check"`
	BalanceTolerance float64 `yaml:"balance_tolerance" mapstructure:"balance_tolerance"`
}

// AttributesConfig mirrors attributes options.
type AttributesConfig struct {
	CountPhases bool `yaml:"count_phases" mapstructure:"count_phases"`
}

// StabilityConfig mirrors the scorer policy and the filter.
type StabilityConfig struct {
	SelfReference string  `yaml:"self_reference" mapstructure:"self_reference"` // include | exclude
	Threshold     float64 `yaml:"threshold" mapstructure:"threshold"`
	Source        string  `yaml:"source" mapstructure:"source"` // measured | predicted
}

// BatchConfig mirrors batch options. Workers 0 means one per CPU.
type BatchConfig struct {
	Workers int    `yaml:"workers" mapstructure:"workers"`
	OnError string `yaml:"on_error" mapstructure:"on_error"` // abort | skip
}

// LogConfig selects the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Development bool   `yaml:"development" mapstructure:"development"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Potentials: map[string]float64{},
		Solver: SolverConfig{
			PruneEpsilon:     equilibrium.DefaultPruneEpsilon,
			Tolerance:        equilibrium.DefaultTolerance,
			BalanceCheck:     equilibrium.DefaultBalanceCheck,
			BalanceTolerance: equilibrium.DefaultBalanceTolerance,
		},
		Attributes: AttributesConfig{CountPhases: attributes.DefaultCountPhases},
		Stability: StabilityConfig{
			SelfReference: stability.IncludeSelf.String(),
			Threshold:     0,
			Source:        stability.Predicted.String(),
		},
		Batch: BatchConfig{Workers: 0, OnError: batch.DefaultPolicy.String()},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads path over Default and validates the result. Unknown keys are
// rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Write stores cfg as YAML at path, creating parent directories.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("config: create dirs: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks every section and reports the first problem.
func (c Config) Validate() error {
	pots, err := c.potentials()
	if err != nil {
		return err
	}
	for _, p := range pots {
		if !isFinite(p.mu) {
			return fmt.Errorf("%w: chemical_potentials: %s=%v is not finite", ErrInvalid, p.symbol, p.mu)
		}
	}

	switch {
	case !isFinite(c.Solver.PruneEpsilon) || c.Solver.PruneEpsilon < 0 || c.Solver.PruneEpsilon >= 1:
		return fmt.Errorf("%w: solver.prune_epsilon %v outside [0,1)", ErrInvalid, c.Solver.PruneEpsilon)
	case !isFinite(c.Solver.Tolerance) || c.Solver.Tolerance <= 0:
		return fmt.Errorf("%w: solver.tolerance must be finite and > 0", ErrInvalid)
	case c.Solver.BalanceCheck && (!isFinite(c.Solver.BalanceTolerance) || c.Solver.BalanceTolerance <= 0):
		return fmt.Errorf("%w: solver.balance_tolerance must be finite and > 0", ErrInvalid)
	case c.Batch.Workers < 0:
		return fmt.Errorf("%w: batch.workers must be >= 0", ErrInvalid)
	case !isFinite(c.Stability.Threshold):
		return fmt.Errorf("%w: stability.threshold must be finite", ErrInvalid)
	}

	if _, err := stability.ParseSelfReference(c.Stability.SelfReference); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := stability.ParseSource(c.Stability.Source); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := batch.ParseErrorPolicy(c.Batch.OnError); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}

	return nil
}

// Registry returns a registry seeded with the configured potentials.
// Call Validate first.
func (c Config) Registry() (*registry.Registry, error) {
	pots, err := c.potentials()
	if err != nil {
		return nil, err
	}
	reg := registry.New()
	for _, p := range pots {
		if err := reg.SetChemicalPotential(p.element, p.mu); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}

	return reg, nil
}

type potential struct {
	symbol  string
	element composition.Element
	mu      float64
}

// potentials resolves the chemical_potentials section in symbol order.
// Two symbols folding to the same element are rejected.
func (c Config) potentials() ([]potential, error) {
	syms := make([]string, 0, len(c.Potentials))
	for s := range c.Potentials {
		syms = append(syms, s)
	}
	sort.Strings(syms)

	out := make([]potential, 0, len(syms))
	seen := make(map[composition.Element]string, len(syms))
	for _, s := range syms {
		e, err := composition.LookupFold(s)
		if err != nil {
			return nil, fmt.Errorf("%w: chemical_potentials: %w", ErrInvalid, err)
		}
		if prev, ok := seen[e]; ok {
			return nil, fmt.Errorf("%w: chemical_potentials: %q and %q name the same element", ErrInvalid, prev, s)
		}
		seen[e] = s
		out = append(out, potential{symbol: s, element: e, mu: c.Potentials[s]})
	}

	return out, nil
}

// SolverOptions translates the solver section.
func (c Config) SolverOptions() []equilibrium.Option {
	opts := []equilibrium.Option{
		equilibrium.WithPruneEpsilon(c.Solver.PruneEpsilon),
		equilibrium.WithTolerance(c.Solver.Tolerance),
	}
	if c.Solver.BalanceCheck {
		opts = append(opts, equilibrium.WithBalanceCheck(c.Solver.BalanceTolerance))
	} else {
		opts = append(opts, equilibrium.WithoutBalanceCheck())
	}

	return opts
}

// ExtractorOptions translates the attributes section.
func (c Config) ExtractorOptions() []attributes.Option {
	if c.Attributes.CountPhases {
		return nil
	}

	return []attributes.Option{attributes.WithoutPhaseCount()}
}

// ScorerOptions translates the self-reference policy.
func (c Config) ScorerOptions() ([]stability.Option, error) {
	p, err := stability.ParseSelfReference(c.Stability.SelfReference)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return []stability.Option{stability.WithSelfReference(p)}, nil
}

// Filter returns the stability filter bound to sc.
func (c Config) Filter(sc *stability.Scorer) (stability.Filter, error) {
	src, err := stability.ParseSource(c.Stability.Source)
	if err != nil {
		return stability.Filter{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return stability.Filter{Scorer: sc, Source: src, Threshold: c.Stability.Threshold}, nil
}

// BatchOptions translates the batch section; log and metrics are passed
// through.
func (c Config) BatchOptions(log *zap.Logger, m *batch.Metrics) ([]batch.Option, error) {
	p, err := batch.ParseErrorPolicy(c.Batch.OnError)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	opts := []batch.Option{batch.WithErrorPolicy(p), batch.WithLogger(log)}
	if c.Batch.Workers > 0 {
		opts = append(opts, batch.WithWorkers(c.Batch.Workers))
	}
	if m != nil {
		opts = append(opts, batch.WithMetrics(m))
	}

	return opts, nil
}

// Logger builds the zap logger of the log section.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}

	return zc.Build()
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
