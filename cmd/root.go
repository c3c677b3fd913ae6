package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/config"
	"github.com/pable/go-cricket-metrics/internal/logging"
)

var (
	dbPath    string
	logLevel  string
	logFormat string

	// cfg is resolved before any subcommand runs: defaults, then environment,
	// then flags.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cricmetrics",
	Short: "Cricket season metrics tool",
	Long: `Aggregate a Cricsheet-style archive of ball-by-ball match files into
per-season player statistics, export them, and browse stored results.`,
	SilenceUsage:      true,
	PersistentPreRunE: resolveConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaults := config.DefaultConfig()
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaults.DBPath, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", defaults.LogFormat, "log encoding (console, json)")

	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
}

func resolveConfig(cmd *cobra.Command, _ []string) error {
	c := config.DefaultConfig()
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DBPath = dbPath
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		c.LogFormat = logFormat
	}
	dbPath = c.DBPath
	cfg = c
	return nil
}

func newLogger() (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level, cfg.LogFormat)
}
