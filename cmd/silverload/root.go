package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/silverload/internal/config"
	"github.com/JonMunkholm/silverload/internal/core"
	"github.com/JonMunkholm/silverload/internal/logging"
)

// cfg is loaded before any command that talks to the database runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "silverload",
	Short: "Rebuild the silver warehouse tier from bronze",
	Long: `silverload truncates and reloads every silver table from its bronze source,
applying the cleaning rules for each table (deduplication, code mapping,
derived dates and amounts). Each table is replaced in its own transaction.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// loadConfig reads .env and the environment, then configures logging.
func loadConfig(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	} else {
		slog.Debug("loaded .env file (overwriting existing env vars)")
	}

	c, err := config.Load()
	if err != nil {
		return err
	}

	logging.Setup(c.Logging.Level, c.Logging.Format)
	slog.Debug("configuration loaded", "config", c.String())

	cfg = c
	return nil
}

// serviceOptions maps configuration onto core.Options.
func serviceOptions(c *config.Config) core.Options {
	return core.Options{
		BronzeSchema:    c.Warehouse.BronzeSchema,
		SilverSchema:    c.Warehouse.SilverSchema,
		Timeout:         c.Refresh.Timeout,
		Parallel:        c.Refresh.Parallel,
		ContinueOnError: c.Refresh.ContinueOnError,
	}
}
