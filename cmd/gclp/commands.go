package main

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/gclp/config"
	"github.com/katalvlaran/gclp/phasestore"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNoTargets = errors.New("no targets: pass formulas or --targets")

func (a *app) solveCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "solve [formula...]",
		Short: "Compute the ground-state phase equilibrium of each target",
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := targets(args, file)
			if err != nil {
				return err
			}
			if len(ts) == 0 {
				return errNoTargets
			}
			eng, err := a.engine(cmd.Context())
			if err != nil {
				return err
			}

			rows, err := eng.runner.Solve(cmd.Context(), ts)
			if err != nil {
				return err
			}

			out := newJSONLines(cmd.OutOrStdout())
			for _, row := range rows {
				line := newSolveLine(row.Equilibrium)
				if row.Err != nil {
					line = solveLine{Target: row.Target.String(), Error: row.Err.Error()}
				}
				if err := out.write(line); err != nil {
					return err
				}
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "targets", "t", "", "target entries file (YAML/JSON)")

	return cmd
}

func (a *app) attributesCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "attributes [formula...]",
		Short: "Compute T=0K equilibrium attributes of each target",
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := targets(args, file)
			if err != nil {
				return err
			}
			if len(ts) == 0 {
				return errNoTargets
			}
			eng, err := a.engine(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := eng.runner.Attributes(cmd.Context(), ts)
			if err != nil {
				return err
			}

			names := eng.x.Names()
			out := newJSONLines(cmd.OutOrStdout())
			for _, row := range rows {
				line := map[string]any{"target": row.Target.String()}
				for i, v := range row.Attributes.Vector(eng.x.CountPhases()) {
					line[names[i]] = number(v)
				}
				if row.Err != nil {
					line["error"] = errString(row.Err)
				}
				if err := out.write(line); err != nil {
					return err
				}
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "targets", "t", "", "target entries file (YAML/JSON)")

	return cmd
}

func (a *app) stabilityCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "stability",
		Short: "Compute the energy above hull of measured and predicted energies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readEntries(file)
			if err != nil {
				return err
			}
			eng, err := a.engine(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := eng.runner.Stability(cmd.Context(), entries)
			if err != nil {
				return err
			}

			out := newJSONLines(cmd.OutOrStdout())
			for _, row := range rows {
				if err := out.write(stabilityLine{
					Composition: row.Entry.Composition.String(),
					Hull:        number(row.Result.Hull),
					Measured:    numberPtr(row.Result.Measured),
					Predicted:   numberPtr(row.Result.Predicted),
					Error:       errString(row.Err),
				}); err != nil {
					return err
				}
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "targets", "t", "", "entries file with measured/predicted energies")
	_ = cmd.MarkFlagRequired("targets")

	return cmd
}

func (a *app) filterCmd() *cobra.Command {
	var (
		file     string
		keepOnly bool
	)
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Label entries whose stability is below the configured threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readEntries(file)
			if err != nil {
				return err
			}
			eng, err := a.engine(cmd.Context())
			if err != nil {
				return err
			}
			f, err := a.cfg.Filter(eng.scorer)
			if err != nil {
				return err
			}
			rows, err := eng.runner.Label(cmd.Context(), f, entries)
			if err != nil {
				return err
			}

			out := newJSONLines(cmd.OutOrStdout())
			for _, row := range rows {
				if keepOnly && !row.Keep {
					continue
				}
				if err := out.write(filterLine{
					Composition: row.Entry.Composition.String(),
					Measured:    row.Entry.Measured,
					Predicted:   row.Entry.Predicted,
					Keep:        row.Keep,
					Error:       errString(row.Err),
				}); err != nil {
					return err
				}
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "targets", "t", "", "entries file with measured/predicted energies")
	cmd.Flags().BoolVar(&keepOnly, "keep-only", false, "print only the entries that pass")
	_ = cmd.MarkFlagRequired("targets")

	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import file...",
		Short: "Store reference phases in the phase store (--store)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Store == "" {
				return errors.New("import needs --store or store: in the config")
			}
			ctx := cmd.Context()
			st, err := phasestore.Open(ctx, a.cfg.Store)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			out := newJSONLines(cmd.OutOrStdout())
			for _, path := range args {
				entries, err := readPhases(path)
				if err != nil {
					return err
				}
				changed, err := st.PutEntries(ctx, entries)
				if err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				a.log.Info("phases stored", zap.String("file", path), zap.Int("changed", changed))
				if err := out.write(map[string]any{"file": path, "entries": len(entries), "changed": changed}); err != nil {
					return err
				}
			}
			n, err := st.Count(ctx)
			if err != nil {
				return err
			}

			return out.write(map[string]any{"store": st.Path(), "phases": n})
		},
	}
}

func (a *app) initConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config path",
		Short: "Write the default configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Write(args[0], config.Default())
		},
	}
}
