package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/diffeval/internal/artifact"
	"github.com/abhisek/diffeval/internal/dataset"
	"github.com/abhisek/diffeval/internal/prep"
	"github.com/abhisek/diffeval/internal/store"
	"github.com/abhisek/diffeval/internal/train"
	"github.com/abhisek/diffeval/internal/ui/theme"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Prepare the dataset, train the classifier and save the model",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tc := cfg.TrainConfig()
		if cmd.Flags().Changed("split-seed") {
			tc.SplitSeed, _ = cmd.Flags().GetUint64("split-seed")
		}
		if cmd.Flags().Changed("rounds") {
			tc.Boost.Rounds, _ = cmd.Flags().GetInt("rounds")
		}
		if err := tc.Boost.Validate(); err != nil {
			return fmt.Errorf("invalid boosting parameters: %w", err)
		}

		dataPath := cfg.DatasetFile()
		records, err := dataset.Load(dataPath)
		if err != nil {
			return err
		}

		prepared, err := prep.Prepare(records, logger)
		if err != nil {
			return fmt.Errorf("prepare dataset: %w", err)
		}

		res, err := train.Train(ctx, prepared, tc, logger)
		if err != nil {
			return fmt.Errorf("train classifier: %w", err)
		}

		art := res.Artifact(prepared)
		modelPath := cfg.ModelFile()
		if err := artifact.Save(modelPath, art); err != nil {
			return fmt.Errorf("save model: %w", err)
		}
		logger.Info("wrote model", zap.String("path", modelPath), zap.String("model_id", art.ModelID))

		if noRecord, _ := cmd.Flags().GetBool("no-record"); !noRecord {
			if err := recordRun(cmd, &store.TrainingRun{
				ModelID:     art.ModelID,
				DatasetPath: dataPath,
				ModelPath:   modelPath,
				RawRows:     prepared.Counts.Raw,
				CleanRows:   prepared.Counts.Clean,
				TrainRows:   res.TrainRows,
				TestRows:    res.TestRows,
				TrainError:  res.TrainError,
				TestError:   res.TestError,
				SplitSeed:   tc.SplitSeed,
				DurationMs:  res.Duration.Milliseconds(),
			}); err != nil {
				logger.Warn("failed to record training run", zap.Error(err))
			}
		}

		out := cmd.OutOrStdout()
		lipgloss.Fprintln(out, theme.Title.Render("Model trained"))
		lipgloss.Fprintln(out, theme.Field("Model", art.ModelID))
		lipgloss.Fprintln(out, theme.Field("File", modelPath))
		lipgloss.Fprintln(out, theme.Field("Rows", fmt.Sprintf("%d raw, %d deduplicated, %d clean",
			prepared.Counts.Raw, prepared.Counts.Deduped, prepared.Counts.Clean)))
		lipgloss.Fprintln(out, theme.Field("Split", fmt.Sprintf("%d train / %d test (seed %d)",
			res.TrainRows, res.TestRows, tc.SplitSeed)))
		lipgloss.Fprintln(out, theme.Field("Training error", fmt.Sprintf("%.4f", res.TrainError)))
		lipgloss.Fprintln(out, theme.Field("Testing error", fmt.Sprintf("%.4f", res.TestError)))
		return nil
	},
}

func recordRun(cmd *cobra.Command, run *store.TrainingRun) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.RunRepo().AppendTrainingRun(cmd.Context(), run)
}

func init() {
	trainCmd.Flags().Uint64("split-seed", train.DefaultSplitSeed, "Seed of the train/test shuffle")
	trainCmd.Flags().Int("rounds", 0, "Boosting rounds (default DIFFEVAL_BOOST_ROUNDS or 100)")
	trainCmd.Flags().Bool("no-record", false, "Do not record the run in the database")
}
