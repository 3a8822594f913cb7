package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/diffeval/internal/scoring"
	"github.com/abhisek/diffeval/internal/session"
	"github.com/abhisek/diffeval/internal/ui/theme"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a session with the difficulty rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		features, err := readFeatures(cmd)
		if err != nil {
			return err
		}
		rec, err := session.FromFeatures(features)
		if err != nil {
			return err
		}
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("invalid session: %w", err)
		}

		out := cmd.OutOrStdout()
		lipgloss.Fprintln(out, theme.Title.Render("Rule evaluation"), theme.Hint.Render("("+rec.PlayerType.String()+")"))
		lipgloss.Fprintf(out, "%-30s  %8s  %8s  %8s  %5s\n", "Rule", "Value", "Low", "High", "Score")
		lipgloss.Fprintln(out, theme.Separator(67))
		for _, t := range scoring.Breakdown(rec) {
			lipgloss.Fprintf(out, "%-30s  %8g  %8g  %8g  %+5d\n",
				t.Rule.Column, t.Value, t.Rule.Low, t.Rule.High, t.Score)
		}
		lipgloss.Fprintln(out, theme.Separator(67))

		score := scoring.Score(rec)
		lipgloss.Fprintln(out, theme.Field("Score", fmt.Sprintf("%+d", score)))
		lipgloss.Fprintln(out, theme.Field("Evaluation", theme.Label(scoring.LabelFor(score))))
		return nil
	},
}

func init() {
	addFeatureFlags(evaluateCmd)
}
