// Package app wires configuration, storage and the transfer services into one
// application object shared by the HTTP server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"pharmastore/m/internal/config"
	"pharmastore/m/internal/database"
	"pharmastore/m/internal/logging"
	"pharmastore/m/internal/metrics"
	"pharmastore/m/internal/migrations"
	"pharmastore/m/internal/repository"
	"pharmastore/m/internal/transfer"
)

var ErrNotOpen = errors.New("app is not open")

type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	DB        *sqlx.DB
	Repo      *repository.Repository
	Validator *transfer.Validator
	Exporter  *transfer.Exporter
	Importer  *transfer.Importer
	Lock      *database.WriterLock

	state State
}

// New builds an App from cfg. Nothing touches the database until Open; the
// validator is usable right away.
func New(cfg config.Config, logger *zap.Logger) *App {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	return &App{
		Config:    cfg,
		Logger:    logging.OrNop(logger),
		Registry:  reg,
		Metrics:   metrics.New(reg),
		Validator: transfer.NewValidator(),
		Lock:      database.NewWriterLock(cfg.LockFile),
	}
}

// Open connects to the database, applies migrations and builds the services.
// Calling it again after a successful Open does nothing.
func (a *App) Open(ctx context.Context) error {
	already, err := a.state.Init(func() error { return a.open(ctx) })
	if err != nil {
		return err
	}
	if already {
		a.Logger.Debug("app already open")
	}
	return nil
}

func (a *App) open(ctx context.Context) error {
	db, err := database.Connect(a.Config.DatabaseDSN)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping database: %w", err)
	}
	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return err
	}

	a.DB = db
	a.Repo = repository.New(a.Logger.Named("repository"))
	a.Exporter = transfer.NewExporter(db, a.Repo, transfer.ExporterConfig{
		ExportedBy: a.Config.ExportedBy,
		AppVersion: a.Config.AppVersion,
		Logger:     a.Logger.Named("export"),
		Metrics:    a.Metrics,
	})
	a.Importer = transfer.NewImporter(db, a.Repo, a.Validator, a.Logger.Named("import"), a.Metrics)

	a.Logger.Info("database ready", zap.String("dsn", a.Config.DatabaseDSN))
	return nil
}

// WithWriterLock runs fn while holding the cross-process writer lock.
func (a *App) WithWriterLock(ctx context.Context, fn func() error) error {
	if err := a.Lock.Lock(ctx); err != nil {
		return err
	}
	defer func() {
		if err := a.Lock.Unlock(); err != nil {
			a.Logger.Warn("release writer lock", zap.String("path", a.Lock.Path()), zap.Error(err))
		}
	}()
	return fn()
}

func (a *App) Close() error {
	if a.DB == nil {
		return ErrNotOpen
	}
	return a.DB.Close()
}
