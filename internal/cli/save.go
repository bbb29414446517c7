package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardops/modelcard"
	"github.com/cardops/modelcard/internal/config"
	"github.com/cardops/modelcard/storage"
)

var saveCmd = &cobra.Command{
	Use:   "save FILE.json",
	Short: "Store one model card from a JSON file",
	Long: `Store one model card, given as a flat JSON object keyed by form field
identifiers, in the configured database. Use "-" to read from stdin.`,
	Example: `  modelcard save card.json
  echo '{"name":"Fraud Scorer"}' | modelcard save -`,
	Args: exactArgs(1),
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Database.Validate(); err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	defer logger.Sync() //nolint:errcheck

	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	defer db.Close() //nolint:errcheck

	svc, err := modelcard.NewService(db, modelcard.NewServiceOptions().
		WithTable(cfg.Database.Table).
		WithLogger(logger))
	if err != nil {
		return err
	}
	if err := svc.SaveJSON(cmd.Context(), data); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "saved model card to %s\n", cfg.Database.Table)
	return nil
}

// readInput reads path, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path) //nolint:gosec // user-provided path is the input
	if err != nil {
		return nil, fmt.Errorf("%w: %w", modelcard.ErrFileNotFound, err)
	}
	return data, nil
}
