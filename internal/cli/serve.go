package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cardops/modelcard"
	"github.com/cardops/modelcard/fieldmap"
	"github.com/cardops/modelcard/internal/config"
	"github.com/cardops/modelcard/internal/metrics"
	"github.com/cardops/modelcard/internal/server"
	"github.com/cardops/modelcard/storage"
)

var serveFlags struct {
	createTable bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the upload and save endpoints.

  POST /upload-for-form   spreadsheet upload (multipart field "file")
  POST /api/modelcard     save one model card (flat JSON object)
  GET  /healthz           database ping
  GET  /metrics           Prometheus metrics`,
	Args: exactArgs(0),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveFlags.createTable, "create-table", false, "Create the destination table when it does not exist")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	defer db.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveFlags.createTable {
		if err := db.EnsureTable(ctx, cfg.Database.Table, fieldmap.Default().Columns()); err != nil {
			return fmt.Errorf("%w: %w", modelcard.ErrStorageUnavailable, err)
		}
		logger.Info("destination table ready", zap.String("table", cfg.Database.Table))
	}

	svc, err := modelcard.NewService(db, modelcard.NewServiceOptions().
		WithTable(cfg.Database.Table).
		WithLogger(logger))
	if err != nil {
		return err
	}

	recorder, err := metrics.NewRecorder()
	if err != nil {
		return err
	}

	srv := server.New(svc, svc, db, recorder, logger, server.Options{
		UploadDir:      cfg.Server.UploadDir,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		ParseTimeout:   cfg.Server.ParseTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
}
