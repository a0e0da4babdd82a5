package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"pharmastore/m/domain"
	"pharmastore/m/internal/database"
	"pharmastore/m/internal/logging"
	"pharmastore/m/internal/metrics"
	"pharmastore/m/internal/repository"
)

// Reader is the storage the exporter reads a store from.
type Reader interface {
	GetStore(ctx context.Context, q repository.Querier, id int64) (*domain.Store, error)
	ListDrugs(ctx context.Context, q repository.Querier, storeID int64) ([]domain.Drug, error)
	ListSales(ctx context.Context, q repository.Querier, storeID int64) ([]domain.Sale, error)
	ListSuppliers(ctx context.Context, q repository.Querier, storeID int64) ([]domain.Supplier, error)
	ListOrderListEntries(ctx context.Context, q repository.Querier, storeID int64) ([]domain.OrderListEntry, error)
	ListHistory(ctx context.Context, q repository.Querier, storeID int64, order repository.SortOrder, startDate, endDate string) ([]domain.HistoryEntry, error)
}

// DateRange bounds exported history entries, inclusive, as YYYY-MM-DD dates.
// Either side may be empty.
type DateRange struct {
	StartDate string
	EndDate   string
}

type ExportOptions struct {
	IncludeHistory bool
	DateRange      *DateRange
}

type ExporterConfig struct {
	ExportedBy string
	AppVersion string
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Exporter builds export documents from the database. It never writes.
type Exporter struct {
	db         *sqlx.DB
	repo       Reader
	exportedBy string
	appVersion string
	logger     *zap.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewExporter(db *sqlx.DB, repo Reader, cfg ExporterConfig) *Exporter {
	return &Exporter{
		db:         db,
		repo:       repo,
		exportedBy: cfg.ExportedBy,
		appVersion: cfg.AppVersion,
		logger:     logging.OrNop(cfg.Logger),
		metrics:    cfg.Metrics,
		now:        time.Now,
	}
}

// Build assembles the export document for storeID. All reads happen in one
// transaction so the document is a consistent snapshot.
func (e *Exporter) Build(ctx context.Context, storeID int64, opts ExportOptions) (*domain.ExportDocument, error) {
	if err := opts.DateRange.check(); err != nil {
		return nil, err
	}

	var doc *domain.ExportDocument
	err := database.WithTx(ctx, e.db, func(tx *sqlx.Tx) error {
		var err error
		doc, err = e.read(ctx, tx, storeID, opts)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.metrics.ExportBuilt()
	e.logger.Info("store exported",
		zap.Int64("store_id", storeID),
		zap.String("store_name", doc.Store.Name),
		zap.Int("total_records", doc.Metadata.TotalRecords),
	)
	return doc, nil
}

func (e *Exporter) read(ctx context.Context, q repository.Querier, storeID int64, opts ExportOptions) (*domain.ExportDocument, error) {
	store, err := e.repo.GetStore(ctx, q, storeID)
	if err != nil {
		return nil, err
	}

	// List queries never select store_id, so the records come back unscoped.
	drugs, err := e.repo.ListDrugs(ctx, q, storeID)
	if err != nil {
		return nil, err
	}
	sales, err := e.repo.ListSales(ctx, q, storeID)
	if err != nil {
		return nil, err
	}
	suppliers, err := e.repo.ListSuppliers(ctx, q, storeID)
	if err != nil {
		return nil, err
	}
	orderLists, err := e.repo.ListOrderListEntries(ctx, q, storeID)
	if err != nil {
		return nil, err
	}

	history := []domain.HistoryEntry{}
	if opts.IncludeHistory {
		var start, end string
		if opts.DateRange != nil {
			start, end = opts.DateRange.StartDate, opts.DateRange.EndDate
		}
		history, err = e.repo.ListHistory(ctx, q, storeID, repository.SortAsc, start, end)
		if err != nil {
			return nil, err
		}
	}

	doc := &domain.ExportDocument{
		Store: domain.StoreInfo{
			Name:            store.Name,
			ExportDate:      e.now().UTC().Format(repository.TimeLayout),
			Version:         domain.ExportVersion,
			OriginalStoreID: store.ID,
		},
		Drugs:      drugs,
		Sales:      sales,
		Suppliers:  suppliers,
		OrderLists: orderLists,
		History:    history,
		Metadata: domain.ExportMetadata{
			ExportedBy: e.exportedBy,
			AppVersion: e.appVersion,
		},
	}
	doc.Metadata.TotalRecords = doc.CountRecords()
	return doc, nil
}

// Write builds the export for storeID and writes it to w as indented JSON.
func (e *Exporter) Write(ctx context.Context, w io.Writer, storeID int64, opts ExportOptions) (*domain.ExportDocument, error) {
	doc, err := e.Build(ctx, storeID, opts)
	if err != nil {
		return nil, err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode export document: %w", err)
	}
	return doc, nil
}

const dateLayout = "2006-01-02"

func (r *DateRange) check() error {
	if r == nil {
		return nil
	}
	var start, end time.Time
	var err error
	if r.StartDate != "" {
		if start, err = time.Parse(dateLayout, r.StartDate); err != nil {
			return fmt.Errorf("%w: start date must be in YYYY-MM-DD format", ErrInvalidDateRange)
		}
	}
	if r.EndDate != "" {
		if end, err = time.Parse(dateLayout, r.EndDate); err != nil {
			return fmt.Errorf("%w: end date must be in YYYY-MM-DD format", ErrInvalidDateRange)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidDateRange, r.EndDate, r.StartDate)
	}
	return nil
}
