package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/diffeval/internal/game"
	"github.com/abhisek/diffeval/internal/inference"
	"github.com/abhisek/diffeval/internal/session"
	"github.com/abhisek/diffeval/internal/ui/components"
	"github.com/abhisek/diffeval/internal/ui/theme"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Apply the trained model to a finished session and adjust the difficulty",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		features, err := readFeatures(cmd)
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctrl, err := game.NewController(ctx, game.NewStateRepo(s.SnapshotRepo(), game.DefaultSnapshotKeep), features)
		if err != nil {
			return err
		}
		before := ctrl.State()

		noWriteBack, _ := cmd.Flags().GetBool("no-write-back")
		adapter := inference.New(cfg.ModelFile(),
			inference.WithWriteBack(!noWriteBack),
			inference.WithLogger(logger),
		)
		pred, err := adapter.Apply(ctx, inference.WithRecorder(ctrl, s.EventRepo()))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		lipgloss.Fprintln(out, theme.Title.Render("Difficulty evaluation"))
		lipgloss.Fprintln(out, theme.Field("Model", pred.ModelID))
		lipgloss.Fprintln(out, theme.Field("Evaluation", theme.Label(pred.Label)))
		for i, l := range session.AllLabels() {
			if i < len(pred.Probabilities) {
				lipgloss.Fprintln(out, components.NewShareBar("  P("+string(l)+")", pred.Probabilities[i], true, 60).View())
			}
		}
		lipgloss.Fprintln(out, theme.Field("Adjustment", theme.Direction(pred.Direction)+" "+theme.Hint.Render(pred.Direction.Action())))
		lipgloss.Fprintln(out, theme.Field("AI model index", fmt.Sprintf("%d → %d", before.ModelIndex, ctrl.State().ModelIndex)))
		return nil
	},
}

func init() {
	addFeatureFlags(predictCmd)
	predictCmd.Flags().Bool("no-write-back", false, "Do not rewrite the model file after predicting")
}
