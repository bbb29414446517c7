package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardops/modelcard"
	"github.com/cardops/modelcard/internal/config"
)

var parseFlags struct {
	pretty bool
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Print the form records of a spreadsheet as JSON",
	Long: `Parse a CSV, XLSX or XLS file the way the upload endpoint does and print
the resulting JSON array. Blank rows are dropped and empty cells omitted.`,
	Example: `  modelcard parse cards.xlsx
  modelcard parse --pretty cards.csv.gz`,
	Args: exactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseFlags.pretty, "pretty", false, "Indent the JSON output")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	defer logger.Sync() //nolint:errcheck

	svc, err := modelcard.NewService(nil, modelcard.NewServiceOptions().WithLogger(logger))
	if err != nil {
		return err
	}
	records, err := svc.Import(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if parseFlags.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(records)
}
