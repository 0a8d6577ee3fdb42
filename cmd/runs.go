package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/solarfuels-group/montecarlo-cli/internal/runlog"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded Monte Carlo runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		log, err := runlog.Open(cfg.RunLog.Path)
		if err != nil {
			return err
		}
		defer log.Close() //nolint:errcheck
		if err := log.Migrate(ctx); err != nil {
			return err
		}

		runs, err := log.List(ctx, runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tSAMPLES\tPARAMS\tCOST RANGE\tDURATION\tDATASET\tCREATED")
		for _, r := range runs {
			costRange := "-"
			if r.Status == "complete" {
				costRange = fmt.Sprintf("%.3g - %.3g", r.CostMin, r.CostMax)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
				r.ID[:8], r.Status, r.Samples, r.Parameters, costRange,
				r.Duration.Round(time.Millisecond), r.Dataset,
				r.CreatedAt.Format(time.RFC3339),
			)
		}
		return w.Flush()
	},
}

func init() {
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 50, "maximum number of runs to list")
	runsCmd.AddCommand(runsListCmd)
	rootCmd.AddCommand(runsCmd)
}
