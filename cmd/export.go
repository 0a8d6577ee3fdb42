package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solarfuels-group/montecarlo-cli/internal/analysis"
	"github.com/solarfuels-group/montecarlo-cli/internal/store"
)

var (
	exportIn     string
	exportWindow string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the target-window rows and parameter table to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOut == "" {
			return eris.New("export: --out is required")
		}

		ds, err := loadDataset(exportIn)
		if err != nil {
			return err
		}
		if err := analysis.CheckIntegrity(ds); err != nil {
			return err
		}

		win, err := targetWindow(exportWindow)
		if err != nil {
			return err
		}

		selected, err := analysis.FilterWindow(ds, win)
		if err != nil {
			return eris.Wrapf(err, "export: window [%g, %g]", win.Low, win.High)
		}

		distances, err := analysis.Distances(selected, ds.Space, analysis.Principal(ds.Space), analysis.DistanceOptions{
			Metric:       distanceMetric(""),
			LogNormalize: cfg.Analysis.LogNormalize,
		})
		if err != nil {
			return err
		}

		if err := store.ExportXLSX(exportOut, ds, selected, distances); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("path", exportOut),
			zap.Int("rows", len(selected)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportIn, "in", "", "dataset path (overrides config)")
	exportCmd.Flags().StringVar(&exportWindow, "window", "", "target cost window \"low; high\" (overrides config)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "workbook output path")
	rootCmd.AddCommand(exportCmd)
}
