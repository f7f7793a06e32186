package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/katalvlaran/gclp/attributes"
	"github.com/katalvlaran/gclp/batch"
	"github.com/katalvlaran/gclp/config"
	"github.com/katalvlaran/gclp/equilibrium"
	"github.com/katalvlaran/gclp/phasestore"
	"github.com/katalvlaran/gclp/registry"
	"github.com/katalvlaran/gclp/stability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	v           *viper.Viper
	cfgFile     string
	phaseFiles  []string
	metricsFile string

	cfg     config.Config
	log     *zap.Logger
	prom    *prometheus.Registry
	metrics *batch.Metrics
}

// engine bundles the objects built from the configuration.
type engine struct {
	reg    *registry.Registry
	runner *batch.Runner
	scorer *stability.Scorer
	x      *attributes.Extractor
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "gclp",
		Short:         "Grand-canonical linear programming phase equilibria",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.finish()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "YAML config file")
	pf.StringArrayVarP(&a.phaseFiles, "phases", "p", nil, "reference phase file (YAML/JSON), repeatable")
	pf.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	pf.String("store", "", "phase store database (SQLite)")
	pf.Int("workers", 0, "parallel workers (0: one per CPU)")
	pf.String("on-error", "", "per-query error policy: abort | skip")
	pf.String("log-level", "", "log level: debug | info | warn | error")
	for key, flag := range map[string]string{
		"store":          "store",
		"batch.workers":  "workers",
		"batch.on_error": "on-error",
		"log.level":      "log-level",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		a.solveCmd(),
		a.attributesCmd(),
		a.stabilityCmd(),
		a.filterCmd(),
		a.importCmd(),
		a.initConfigCmd(),
	)

	return root
}

// setup layers defaults, the config file, GCLP_* environment variables and
// flags, then builds the logger and metrics.
func (a *app) setup() error {
	defaults, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("encode defaults: %w", err)
	}
	a.v.SetConfigType("yaml")
	if err := a.v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return fmt.Errorf("load defaults: %w", err)
	}
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.MergeInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", a.cfgFile, err)
		}
	}
	a.v.SetEnvPrefix("GCLP")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.UnmarshalExact(&a.cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	if a.log, err = a.cfg.Logger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.prom = prometheus.NewRegistry()
	if a.metrics, err = batch.NewMetrics(a.prom); err != nil {
		return err
	}
	a.log.Debug("configuration loaded",
		zap.String("file", a.v.ConfigFileUsed()),
		zap.String("store", a.cfg.Store),
		zap.Int("workers", a.cfg.Batch.Workers))

	return nil
}

func (a *app) finish() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.metricsFile == "" || a.prom == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.metricsFile, a.prom); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	return nil
}

// registry builds the reference registry: configured potentials, then the
// phase store, then every --phases file.
func (a *app) registry(ctx context.Context) (*registry.Registry, error) {
	reg, err := a.cfg.Registry()
	if err != nil {
		return nil, err
	}

	if a.cfg.Store != "" {
		st, err := phasestore.Open(ctx, a.cfg.Store)
		if err != nil {
			return nil, err
		}
		n, err := st.LoadInto(ctx, reg)
		_ = st.Close()
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", a.cfg.Store, err)
		}
		a.log.Info("phases loaded", zap.String("store", a.cfg.Store), zap.Int("changed", n))
	}

	for _, path := range a.phaseFiles {
		entries, err := readPhases(path)
		if err != nil {
			return nil, err
		}
		n, err := reg.ImportPhases(entries)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", path, err)
		}
		a.log.Info("phases imported",
			zap.String("file", path),
			zap.Int("entries", len(entries)),
			zap.Int("changed", n))
	}

	return reg, nil
}

// engine builds the solver stack over the reference registry.
func (a *app) engine(ctx context.Context) (*engine, error) {
	reg, err := a.registry(ctx)
	if err != nil {
		return nil, err
	}
	solver, err := equilibrium.NewSolver(reg, a.cfg.SolverOptions()...)
	if err != nil {
		return nil, err
	}
	x, err := attributes.NewExtractor(solver, a.cfg.ExtractorOptions()...)
	if err != nil {
		return nil, err
	}
	sopts, err := a.cfg.ScorerOptions()
	if err != nil {
		return nil, err
	}
	sc, err := stability.NewScorer(solver, sopts...)
	if err != nil {
		return nil, err
	}
	bopts, err := a.cfg.BatchOptions(a.log, a.metrics)
	if err != nil {
		return nil, err
	}

	return &engine{
		reg:    reg,
		runner: batch.NewRunner(x, sc, bopts...),
		scorer: sc,
		x:      x,
	}, nil
}
