package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/diffeval/internal/dataset"
	"github.com/abhisek/diffeval/internal/session"
	"github.com/abhisek/diffeval/internal/synth"
	"github.com/abhisek/diffeval/internal/ui/components"
	"github.com/abhisek/diffeval/internal/ui/theme"
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize",
	Short: "Generate a labelled dataset of game sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := cfg.Entries
		if cmd.Flags().Changed("entries") {
			entries, _ = cmd.Flags().GetInt("entries")
		}
		seed := cfg.Seed
		if cmd.Flags().Changed("seed") {
			seed, _ = cmd.Flags().GetUint64("seed")
		}
		if seed == 0 {
			seed = synth.SeedFromTime()
		}

		records, err := synth.NewSeeded(seed).Synthesize(entries)
		if err != nil {
			return fmt.Errorf("synthesize dataset: %w", err)
		}

		path := cfg.DatasetFile()
		if err := dataset.Save(path, records); err != nil {
			return fmt.Errorf("save dataset: %w", err)
		}
		logger.Info("wrote dataset",
			zap.String("path", path),
			zap.Int("entries", len(records)),
			zap.Uint64("seed", seed),
		)

		counts := make(map[session.Label]int)
		for _, r := range records {
			counts[r.Evaluation]++
		}

		out := cmd.OutOrStdout()
		lipgloss.Fprintln(out, theme.Title.Render("Dataset synthesized"))
		lipgloss.Fprintln(out, theme.Field("File", path))
		lipgloss.Fprintln(out, theme.Field("Entries", fmt.Sprint(len(records))))
		lipgloss.Fprintln(out, theme.Field("Seed", fmt.Sprint(seed)))
		for _, l := range session.AllLabels() {
			share := float64(counts[l]) / float64(len(records))
			lipgloss.Fprintln(out, components.NewShareBar(string(l), share, true, 60).View())
		}
		return nil
	},
}

func init() {
	synthesizeCmd.Flags().Int("entries", 0, "Number of sessions to generate (default DIFFEVAL_ENTRIES or 10000)")
	synthesizeCmd.Flags().Uint64("seed", 0, "Random seed; 0 derives one from the clock")
}
