// Command pharmastore serves the store API and moves store data in and out of
// export documents from the command line.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pharmastore/m/internal/app"
	"pharmastore/m/internal/config"
	"pharmastore/m/internal/logging"
)

var (
	dsn      string
	lockPath string

	application *app.App
	logger      *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:               "pharmastore",
	Short:             "Pharmacy store data service",
	Long:              "pharmastore runs the store API and exports, validates and imports store data documents.",
	SilenceUsage:      true,
	PersistentPreRunE: openApp,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "database DSN (overrides DATABASE_DSN)")
	rootCmd.PersistentFlags().StringVar(&lockPath, "lock", "", "writer lock file (overrides LOCK_FILE)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(seedCmd)

	cobra.OnFinalize(closeApp)
}

// openApp loads configuration and opens the database for every subcommand
// except those that only read files.
func openApp(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	if lockPath != "" {
		cfg.LockFile = lockPath
	}

	var err error
	logger, err = logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}

	application = app.New(cfg, logger)
	if cmd.Annotations[annotationOffline] == "true" {
		return nil
	}
	if err := application.Open(cmd.Context()); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	return nil
}

// closeApp runs after every command, including failed ones.
func closeApp() {
	if application != nil && application.DB != nil {
		if err := application.Close(); err != nil {
			logger.Warn("close database", zap.Error(err))
		}
	}
	application = nil
	if logger != nil {
		_ = logger.Sync()
	}
}

// annotationOffline marks commands that never touch the database.
const annotationOffline = "offline"
