package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/gradelens/internal/config"
	"github.com/abhisek/gradelens/internal/logging"
	"github.com/abhisek/gradelens/internal/store"
)

var (
	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gradelens",
	Short: "Compare LLM grading against TA grading",
	Long: "gradelens loads a table of TA and LLM scores, measures how well they agree, " +
		"and points at the items that need a human look.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the command tree; ctx cancels long operations.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides GRADELENS_DB)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides "+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		c.Log.Level = lvl
		if err := c.Validate(); err != nil {
			return fmt.Errorf("validating config: %w", err)
		}
	}
	cfg = c
	logger = c.Logger()
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
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
	return s, nil
}
