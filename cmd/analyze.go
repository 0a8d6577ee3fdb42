package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/solarfuels-group/montecarlo-cli/internal/analysis"
	"github.com/solarfuels-group/montecarlo-cli/internal/model"
	"github.com/solarfuels-group/montecarlo-cli/internal/store"
	"github.com/solarfuels-group/montecarlo-cli/internal/tree"
)

var (
	analyzeIn           string
	analyzeWindow       string
	analyzeMetric       string
	analyzeLogNormalize bool
	analyzeReduction    int
	analyzePolyOrder    int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Filter a saved dataset by target cost window and compute development distances",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(analyzeIn)
		if err != nil {
			return err
		}
		if err := analysis.CheckIntegrity(ds); err != nil {
			return err
		}

		win, err := targetWindow(analyzeWindow)
		if err != nil {
			return err
		}

		opts := analysis.DistanceOptions{
			Metric:       distanceMetric(analyzeMetric),
			LogNormalize: analyzeLogNormalize || cfg.Analysis.LogNormalize,
		}
		principal := analysis.Principal(ds.Space)

		selected, err := analysis.FilterWindow(ds, win)
		if err != nil {
			if eris.Is(err, model.ErrEmptyWindow) {
				return eris.Wrapf(err, "analyze: window [%g, %g]", win.Low, win.High)
			}
			return err
		}

		distances, err := analysis.Distances(selected, ds.Space, principal, opts)
		if err != nil {
			return err
		}

		summary, err := analysis.Summarize(selected, distances, ds.Space)
		if err != nil {
			return err
		}

		reduction := cfg.Analysis.ReductionFactor
		if analyzeReduction > 0 {
			reduction = analyzeReduction
		}
		polyOrder := cfg.Analysis.PolyOrder
		if analyzePolyOrder > 0 {
			polyOrder = analyzePolyOrder
		}
		curve, err := analysis.SmoothCurve(ds, principal, analysis.CurveOptions{
			Distance:        opts,
			ReductionFactor: reduction,
			PolyOrder:       polyOrder,
		})
		if err != nil {
			return err
		}

		printSummary(ds, win, summary, curve)
		return nil
	},
}

// printSummary writes the analyst-facing report to stdout.
func printSummary(ds *model.Dataset, win model.Window, s *analysis.Summary, curve *analysis.Curve) {
	p := message.NewPrinter(language.English)

	p.Printf("Dataset: %d rows, %d parameters\n", len(ds.Rows), len(ds.Space.Parameters))
	p.Printf("Target window: %.4g - %.4g $/kg\n", win.Low, win.High)
	p.Printf("Rows in window: %d (cost %.4g - %.4g)\n", s.Count, s.CostMin, s.CostMax)
	p.Printf("Development distance: mean %.4f, std %.4f\n", s.DistanceMean, s.DistanceStd)
	p.Printf("Nearest model: distance %.4f at %.4g $/kg\n", s.NearestDistance, s.NearestCost)
	for _, param := range ds.Space.Parameters {
		p.Printf("  %s: %.6g\n", param.Name, s.NearestValues[param.Name])
	}
	p.Printf("Smoothed curve: %d points, distance %.4f - %.4f\n",
		len(curve.Distances), curve.Distances[0], curve.Distances[len(curve.Distances)-1])
}

// loadDataset reads the dataset named by the flag, the configured input
// file, or the configured output file, in that order of preference.
func loadDataset(flagPath string) (*model.Dataset, error) {
	path := flagPath
	if path == "" {
		path = cfg.MonteCarlo.InputFile
	}
	if path == "" {
		path = cfg.MonteCarlo.OutputFile
	}
	if path == "" {
		return nil, eris.New("no dataset path: set --in or montecarlo.input_file")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, eris.Wrapf(err, "dataset %s", path)
	}

	base, err := tree.Load(cfg.Model.Path)
	if err != nil {
		return nil, err
	}
	return store.Load(path, base, cfg.Parameters)
}

func targetWindow(flagValue string) (model.Window, error) {
	mc := cfg.MonteCarlo
	if flagValue != "" {
		mc.TargetWindow = flagValue
	}
	return mc.Window()
}

func distanceMetric(flagValue string) analysis.Metric {
	if flagValue != "" {
		return analysis.Metric(flagValue)
	}
	return analysis.Metric(cfg.Analysis.Metric)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeIn, "in", "", "dataset path (overrides config)")
	analyzeCmd.Flags().StringVar(&analyzeWindow, "window", "", "target cost window \"low; high\" (overrides config)")
	analyzeCmd.Flags().StringVar(&analyzeMetric, "metric", "", "distance metric: cityblock, euclidean, or sum")
	analyzeCmd.Flags().BoolVar(&analyzeLogNormalize, "log-normalize", false, "use log normalization for distances")
	analyzeCmd.Flags().IntVar(&analyzeReduction, "reduction-factor", 0, "smoothing window = rows / reduction factor (overrides config)")
	analyzeCmd.Flags().IntVar(&analyzePolyOrder, "poly-order", 0, "smoothing polynomial order (overrides config)")
	rootCmd.AddCommand(analyzeCmd)
}
