package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardops/modelcard"
	"github.com/cardops/modelcard/internal/config"
	"github.com/cardops/modelcard/storage"
)

var pingFlags struct {
	timeout time.Duration
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the configured database is reachable",
	Args:  exactArgs(0),
	RunE:  runPing,
}

func init() {
	pingCmd.Flags().DurationVar(&pingFlags.timeout, "timeout", 10*time.Second, "Give up after this long")
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Database.Validate(); err != nil {
		return err
	}

	db, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(cmd.Context(), pingFlags.timeout)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", modelcard.ErrStorageUnavailable, err)
	}
	version, err := db.Version(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", modelcard.ErrStorageUnavailable, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "connected to %s: %s\n", db.Dialect(), firstLine(version))
	return nil
}

// firstLine trims the multi-line banner SQL Server returns for @@VERSION.
func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' || r == '\r' {
			return s[:i]
		}
	}
	return s
}
