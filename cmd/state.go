package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/diffeval/internal/game"
	"github.com/abhisek/diffeval/internal/session"
	"github.com/abhisek/diffeval/internal/ui/theme"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the current game difficulty",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		st, err := game.NewStateRepo(s.SnapshotRepo(), game.DefaultSnapshotKeep).Load(cmd.Context())
		if err != nil {
			return err
		}
		printState(cmd.OutOrStdout(), st)
		return nil
	},
}

var selectRoleCmd = &cobra.Command{
	Use:       "select-role cop|robber",
	Short:     "Pick the role for the next session",
	Long:      "Pick the role for the next session. With a roll above 80 the last adjustment also changes the role's objective.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"cop", "robber"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		role, err := session.ParsePlayerType(args[0])
		if err != nil {
			return err
		}
		roll, _ := cmd.Flags().GetInt("roll")
		if roll < 0 {
			roll = rand.IntN(100)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctrl, err := game.NewController(ctx, game.NewStateRepo(s.SnapshotRepo(), game.DefaultSnapshotKeep), nil)
		if err != nil {
			return err
		}
		changed, err := ctrl.SelectRole(ctx, role, roll)
		if err != nil {
			return err
		}
		logger.Info("selected role",
			zap.Stringer("role", role),
			zap.Int("roll", roll),
			zap.Bool("objective_changed", changed),
		)

		out := cmd.OutOrStdout()
		if changed {
			lipgloss.Fprintln(out, theme.Hint.Render(fmt.Sprintf("Roll %d: objective adjusted", roll)))
		}
		printState(out, ctrl.State())
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the game difficulty to its defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		st := game.DefaultState()
		if err := game.NewStateRepo(s.SnapshotRepo(), game.DefaultSnapshotKeep).Save(cmd.Context(), st); err != nil {
			return err
		}
		printState(cmd.OutOrStdout(), st)
		return nil
	},
}

func printState(out io.Writer, st game.State) {
	last := "none"
	if st.LastDirection != "" {
		last = theme.Direction(st.LastDirection)
	}
	lipgloss.Fprintln(out, theme.Title.Render("Game difficulty"))
	lipgloss.Fprintln(out, theme.Field("AI model index", fmt.Sprintf("%d (of %d-%d)", st.ModelIndex, game.MinModelIndex, game.MaxModelIndex)))
	lipgloss.Fprintln(out, theme.Field("Role", st.Role.String()))
	lipgloss.Fprintln(out, theme.Field("Diamonds", fmt.Sprint(st.NumDiamonds)))
	lipgloss.Fprintln(out, theme.Field("Cop agents", fmt.Sprint(st.NumCopAgents)))
	lipgloss.Fprintln(out, theme.Field("Robber agents", fmt.Sprint(st.NumRobberAgents)))
	lipgloss.Fprintln(out, theme.Field("Last adjustment", last))
}

func init() {
	selectRoleCmd.Flags().Int("roll", -1, "Objective roll in [0,100); random when negative")
}
