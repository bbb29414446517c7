// Package cli implements the modelcard command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cardops/modelcard/internal/config"
	"github.com/cardops/modelcard/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "modelcard",
	Short: "Import model card spreadsheets and store completed cards",
	Long: `modelcard turns CSV and Excel exports of model cards into form data and
stores completed cards in SQL Server (or SQLite for local runs).

Settings come from MODELCARD_* environment variables, optionally read from
a .env file.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database unavailable
  12 - Invalid input file or payload`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("env-file", ".env", "Read settings from this file when it exists")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return false
	}
	return verbose
}

// loadConfig reads the env file named by --env-file and the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		envFile = ""
	}
	return config.Load(envFile)
}

// newLogger builds the command logger; --verbose forces debug level.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	return logging.New(logging.Verbose(cfg.Log.Level, getVerboseFlag(cmd)), cfg.Log.Format)
}
