package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/diffeval/internal/config"
	"github.com/abhisek/diffeval/internal/logging"
	"github.com/abhisek/diffeval/internal/store"
)

var (
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "diffeval",
	Short: "Game difficulty evaluation pipeline",
	Long: "diffeval synthesizes labelled game sessions, trains a difficulty classifier on them " +
		"and applies it to finished sessions to adjust the game's difficulty.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DIFFEVAL_DB env var)")
	rootCmd.PersistentFlags().String("workdir", "", "Directory holding the dataset and model files (overrides DIFFEVAL_WORKDIR)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides DIFFEVAL_LOG_LEVEL)")

	rootCmd.AddCommand(synthesizeCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(selectRoleCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(predictionsCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the environment configuration, applies flag overrides and
// builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	workDir, _ := cmd.Flags().GetString("workdir")
	level, _ := cmd.Flags().GetString("log-level")
	c, err := config.Load(config.WithWorkDir(workDir), config.WithLogLevel(level))
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logging.New(c.LogLevel)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(l)
	cfg, logger = c, l
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then DIFFEVAL_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("opened database", zap.String("path", dbPath))
	return s, nil
}
