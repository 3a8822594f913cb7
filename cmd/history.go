package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/diffeval/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded training runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.RunRepo().ListTrainingRuns(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query runs: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No training runs recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-36s  %7s  %7s  %9s  %9s  %8s\n",
			"Seq", "Timestamp", "Model", "Train", "Test", "TrainErr", "TestErr", "Ms")
		fmt.Fprintln(out, strings.Repeat("─", 112))
		for _, r := range runs {
			fmt.Fprintf(out, "%-5d  %-19s  %-36s  %7d  %7d  %9.4f  %9.4f  %8d\n",
				r.Sequence,
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				r.ModelID,
				r.TrainRows,
				r.TestRows,
				r.TrainError,
				r.TestError,
				r.DurationMs,
			)
		}
		return nil
	},
}

var predictionsCmd = &cobra.Command{
	Use:   "predictions",
	Short: "List recorded difficulty predictions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryPredictions(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query predictions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No predictions recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-8s  %-14s  %-36s  %s\n",
			"Seq", "Timestamp", "Label", "Direction", "Model", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 96))
		for _, e := range events {
			ok := "✓"
			if !e.Applied {
				ok = "✗ " + e.ErrorMessage
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-8s  %-14s  %-36s  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Label,
				e.Direction,
				e.ModelID,
				ok,
			)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 = all)")
	predictionsCmd.Flags().Int("limit", 20, "Maximum number of predictions to show (0 = all)")
}
