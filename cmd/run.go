package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/solarfuels-group/montecarlo-cli/internal/analysis"
	"github.com/solarfuels-group/montecarlo-cli/internal/evaluate"
	"github.com/solarfuels-group/montecarlo-cli/internal/lcoh"
	"github.com/solarfuels-group/montecarlo-cli/internal/model"
	"github.com/solarfuels-group/montecarlo-cli/internal/runlog"
	"github.com/solarfuels-group/montecarlo-cli/internal/space"
	"github.com/solarfuels-group/montecarlo-cli/internal/store"
	"github.com/solarfuels-group/montecarlo-cli/internal/tree"
)

var (
	runSamples int
	runSeed    uint64
	runOut     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sample the parameter space, evaluate the cost model, and save the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		samples := cfg.MonteCarlo.Samples
		if runSamples > 0 {
			samples = runSamples
		}
		seed := cfg.MonteCarlo.Seed
		if runSeed != 0 {
			seed = runSeed
		}
		out := cfg.MonteCarlo.OutputFile
		if runOut != "" {
			out = runOut
		}

		base, err := tree.Load(cfg.Model.Path)
		if err != nil {
			return err
		}

		sp, err := space.Resolve(base, cfg.Parameters)
		if err != nil {
			return err
		}

		zap.L().Info("parameter space resolved",
			zap.Int("parameters", len(sp.Parameters)),
			zap.Int("samples", samples),
			zap.Uint64("seed", seed),
		)

		log, err := runlog.Open(cfg.RunLog.Path)
		if err != nil {
			return err
		}
		defer log.Close() //nolint:errcheck
		if err := log.Migrate(ctx); err != nil {
			return err
		}

		run, err := log.Create(ctx, samples, len(sp.Parameters), out)
		if err != nil {
			return err
		}

		start := time.Now()
		matrix := space.NewSampler(seed).Sample(sp, samples)

		ev := evaluate.New(lcoh.New(), cfg.MonteCarlo.Workers)
		rows, err := ev.Run(ctx, base, sp, matrix)
		if err != nil {
			if failErr := log.Fail(ctx, run.ID, err.Error()); failErr != nil {
				zap.L().Warn("failed to record run failure", zap.Error(failErr))
			}
			return eris.Wrap(err, "run: evaluate samples")
		}

		ds := &model.Dataset{Space: sp, Rows: rows}
		if err := analysis.CheckIntegrity(ds); err != nil {
			if failErr := log.Fail(ctx, run.ID, err.Error()); failErr != nil {
				zap.L().Warn("failed to record run failure", zap.Error(failErr))
			}
			return err
		}

		if err := store.Save(out, ds); err != nil {
			if failErr := log.Fail(ctx, run.ID, err.Error()); failErr != nil {
				zap.L().Warn("failed to record run failure", zap.Error(failErr))
			}
			return err
		}

		costs := ds.Costs()
		if err := log.Complete(ctx, run.ID, floats.Min(costs), floats.Max(costs), time.Since(start)); err != nil {
			zap.L().Warn("failed to record run completion", zap.Error(err))
		}

		zap.L().Info("run complete",
			zap.String("run_id", run.ID),
			zap.String("dataset", out),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&runSamples, "samples", 0, "number of Monte Carlo samples (overrides config)")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "RNG seed (overrides config)")
	runCmd.Flags().StringVar(&runOut, "out", "", "output dataset path (overrides config)")
	rootCmd.AddCommand(runCmd)
}
