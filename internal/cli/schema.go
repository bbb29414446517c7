package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardops/modelcard/fieldmap"
	"github.com/cardops/modelcard/internal/config"
	"github.com/cardops/modelcard/storage"
)

var schemaFlags struct {
	driver string
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the DDL of the destination table",
	Long: `Print the CREATE TABLE statement for the configured table: a surrogate id,
a creation timestamp and one nullable column per mapped field.`,
	Args: exactArgs(0),
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().StringVar(&schemaFlags.driver, "driver", "", "Dialect to render (sqlserver or sqlite), defaults to MODELCARD_DB_DRIVER")
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	driver := cfg.Database.Driver
	if schemaFlags.driver != "" {
		driver = schemaFlags.driver
	}
	dialect, err := storage.ParseDialect(driver)
	if err != nil {
		return &usageError{err: err}
	}

	ddl, err := dialect.CreateTableSQL(cfg.Database.Table, fieldmap.Default().Columns())
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), ddl)
	return nil
}
