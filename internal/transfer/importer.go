package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"pharmastore/m/domain"
	"pharmastore/m/internal/database"
	"pharmastore/m/internal/logging"
	"pharmastore/m/internal/metrics"
	"pharmastore/m/internal/repository"
)

// Writer is the storage an import writes through.
type Writer interface {
	InsertStore(ctx context.Context, q repository.Querier, name string) (int64, error)
	InsertDrug(ctx context.Context, q repository.Querier, storeID int64, d domain.Drug) (int64, error)
	InsertSale(ctx context.Context, q repository.Querier, storeID int64, s domain.Sale) (int64, error)
	InsertSupplier(ctx context.Context, q repository.Querier, storeID int64, s domain.Supplier) (int64, error)
	InsertOrderListEntry(ctx context.Context, q repository.Querier, storeID int64, e domain.OrderListEntry) (int64, error)
	InsertHistoryEntry(ctx context.Context, q repository.Querier, storeID int64, e domain.HistoryEntry) (int64, error)
}

type ImportSummary struct {
	DrugsImported      int `json:"drugsImported"`
	SalesImported      int `json:"salesImported"`
	SuppliersImported  int `json:"suppliersImported"`
	OrderListsImported int `json:"orderListsImported"`
	HistoryImported    int `json:"historyImported"`
	// SalesSkipped counts sales dropped because their medicine was not imported.
	SalesSkipped int `json:"salesSkipped"`
}

type ImportResult struct {
	StoreID int64         `json:"storeId"`
	Summary ImportSummary `json:"summary"`
}

// Importer materializes export documents as new stores.
type Importer struct {
	db        *sqlx.DB
	repo      Writer
	validator *Validator
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewImporter(db *sqlx.DB, repo Writer, validator *Validator, logger *zap.Logger, m *metrics.Metrics) *Importer {
	if validator == nil {
		validator = NewValidator()
	}
	return &Importer{
		db:        db,
		repo:      repo,
		validator: validator,
		logger:    logging.OrNop(logger),
		metrics:   m,
	}
}

// ImportJSON parses and validates raw before importing it. A *ParseError is
// returned for input that is not JSON and a *ValidationError, listing every
// violation, for a document that fails validation. Nothing is written in
// either case.
func (i *Importer) ImportJSON(ctx context.Context, storeName string, raw []byte, onProgress ProgressFunc) (*ImportResult, error) {
	onProgress.report(PhaseValidation, "Validating import file")

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		i.logger.Warn("import file is not valid JSON", zap.Error(err))
		return nil, &ParseError{Err: err}
	}

	result := i.validator.Validate(raw)
	if !result.OK() {
		i.metrics.ValidationFailed()
		i.logger.Warn("import file failed validation", zap.Int("violations", len(result.Errors)))
		return nil, &ValidationError{Errors: result.Errors}
	}
	onProgress.report(PhaseValidation, "Validation passed")

	return i.Import(ctx, storeName, result.Document, onProgress)
}

// Import writes doc as a new store named storeName in a single transaction.
// doc must already have passed validation. On any failure the transaction is
// rolled back and an *ImportError is returned; no store or record from the
// attempt remains.
func (i *Importer) Import(ctx context.Context, storeName string, doc *domain.ExportDocument, onProgress ProgressFunc) (result *ImportResult, err error) {
	run := &importRun{
		repo:        i.repo,
		logger:      i.logger,
		doc:         doc,
		progress:    onProgress,
		phase:       PhaseStore,
		drugIDs:     make(map[int64]int64, len(docDrugs(doc))),
		saleIDs:     make(map[int64]int64),
		supplierIDs: make(map[int64]int64),
		orderIDs:    make(map[int64]int64),
		historyIDs:  make(map[int64]int64),
	}

	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &ImportError{Phase: run.phase, Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			i.logger.Error("store import failed", zap.String("store_name", storeName), zap.String("phase", string(run.phase)), zap.Error(err))
		}
		i.metrics.ImportFinished(err == nil)
	}()

	storeName = strings.TrimSpace(storeName)
	if storeName == "" {
		return nil, &ImportError{Phase: PhaseStore, Err: ErrStoreNameRequired}
	}
	if doc == nil {
		return nil, &ImportError{Phase: PhaseStore, Err: ErrNilDocument}
	}

	err = database.WithTx(ctx, i.db, func(tx *sqlx.Tx) error {
		return run.apply(ctx, tx, storeName)
	})
	if err != nil {
		var importErr *ImportError
		if !errors.As(err, &importErr) {
			err = &ImportError{Phase: run.phase, Err: err}
		}
		return nil, err
	}

	s := run.summary
	i.metrics.RecordsImported(string(PhaseDrugs), s.DrugsImported)
	i.metrics.RecordsImported(string(PhaseSales), s.SalesImported)
	i.metrics.RecordsImported(string(PhaseSuppliers), s.SuppliersImported)
	i.metrics.RecordsImported(string(PhaseOrderLists), s.OrderListsImported)
	i.metrics.RecordsImported(string(PhaseHistory), s.HistoryImported)
	i.metrics.SalesSkipped(s.SalesSkipped)

	i.logger.Info("store imported",
		zap.Int64("store_id", run.storeID),
		zap.String("store_name", storeName),
		zap.Int64("original_store_id", doc.Store.OriginalStoreID),
		zap.Int("drugs", s.DrugsImported),
		zap.Int("sales", s.SalesImported),
		zap.Int("sales_skipped", s.SalesSkipped),
		zap.Int("suppliers", s.SuppliersImported),
		zap.Int("order_lists", s.OrderListsImported),
		zap.Int("history", s.HistoryImported),
	)
	onProgress.report(PhaseComplete, fmt.Sprintf("Import complete: store %q created", storeName))

	return &ImportResult{StoreID: run.storeID, Summary: s}, nil
}

func docDrugs(doc *domain.ExportDocument) []domain.Drug {
	if doc == nil {
		return nil
	}
	return doc.Drugs
}

// importRun is the state of one import: the new store id and the old->new id
// maps for each entity type. It is discarded when the import returns.
type importRun struct {
	repo     Writer
	logger   *zap.Logger
	doc      *domain.ExportDocument
	progress ProgressFunc
	phase    Phase

	storeID     int64
	drugIDs     map[int64]int64
	saleIDs     map[int64]int64
	supplierIDs map[int64]int64
	orderIDs    map[int64]int64
	historyIDs  map[int64]int64
	summary     ImportSummary
}

// apply runs the phases in dependency order: sales need the drug id map.
func (r *importRun) apply(ctx context.Context, tx *sqlx.Tx, storeName string) error {
	steps := []struct {
		phase Phase
		fn    func(context.Context, *sqlx.Tx) error
	}{
		{PhaseStore, func(ctx context.Context, tx *sqlx.Tx) error { return r.createStore(ctx, tx, storeName) }},
		{PhaseDrugs, r.importDrugs},
		{PhaseSales, r.importSales},
		{PhaseSuppliers, r.importSuppliers},
		{PhaseOrderLists, r.importOrderLists},
		{PhaseHistory, r.importHistory},
	}
	for _, step := range steps {
		r.phase = step.phase
		if err := step.fn(ctx, tx); err != nil {
			return &ImportError{Phase: step.phase, Err: err}
		}
	}
	return nil
}

func (r *importRun) createStore(ctx context.Context, tx *sqlx.Tx, name string) error {
	r.progress.report(PhaseStore, fmt.Sprintf("Creating store %q", name))
	id, err := r.repo.InsertStore(ctx, tx, name)
	if err != nil {
		return err
	}
	r.storeID = id
	return nil
}

func (r *importRun) importDrugs(ctx context.Context, tx *sqlx.Tx) error {
	total := len(r.doc.Drugs)
	for _, drug := range r.doc.Drugs {
		oldID := drug.ID
		drug.ID = 0
		newID, err := r.repo.InsertDrug(ctx, tx, r.storeID, drug)
		if err != nil {
			return err
		}
		r.drugIDs[oldID] = newID
		r.summary.DrugsImported++
		r.progress.report(PhaseDrugs, fmt.Sprintf("Importing drugs: %d/%d", r.summary.DrugsImported, total))
	}
	r.progress.report(PhaseDrugs, fmt.Sprintf("Imported %d drugs", r.summary.DrugsImported))
	return nil
}

// importSales skips a sale whose medicine has no mapping instead of failing
// the import. Validation rejects such documents, so this only triggers for
// callers that import unvalidated documents.
func (r *importRun) importSales(ctx context.Context, tx *sqlx.Tx) error {
	total := len(r.doc.Sales)
	for _, sale := range r.doc.Sales {
		medicineID, ok := r.drugIDs[sale.MedicineID]
		if !ok {
			r.summary.SalesSkipped++
			r.logger.Warn("skipping sale that references a medicine missing from the import",
				zap.Int64("sale_id", sale.ID),
				zap.Int64("medicine_id", sale.MedicineID),
			)
			continue
		}
		oldID := sale.ID
		sale.ID = 0
		sale.MedicineID = medicineID
		newID, err := r.repo.InsertSale(ctx, tx, r.storeID, sale)
		if err != nil {
			return err
		}
		r.saleIDs[oldID] = newID
		r.summary.SalesImported++
		r.progress.report(PhaseSales, fmt.Sprintf("Importing sales: %d/%d", r.summary.SalesImported, total))
	}
	r.progress.report(PhaseSales, fmt.Sprintf("Imported %d sales", r.summary.SalesImported))
	return nil
}

func (r *importRun) importSuppliers(ctx context.Context, tx *sqlx.Tx) error {
	total := len(r.doc.Suppliers)
	for _, supplier := range r.doc.Suppliers {
		oldID := supplier.ID
		supplier.ID = nil
		newID, err := r.repo.InsertSupplier(ctx, tx, r.storeID, supplier)
		if err != nil {
			return err
		}
		if oldID != nil {
			r.supplierIDs[*oldID] = newID
		}
		r.summary.SuppliersImported++
		r.progress.report(PhaseSuppliers, fmt.Sprintf("Importing suppliers: %d/%d", r.summary.SuppliersImported, total))
	}
	r.progress.report(PhaseSuppliers, fmt.Sprintf("Imported %d suppliers", r.summary.SuppliersImported))
	return nil
}

func (r *importRun) importOrderLists(ctx context.Context, tx *sqlx.Tx) error {
	total := len(r.doc.OrderLists)
	for _, entry := range r.doc.OrderLists {
		oldID := entry.ID
		entry.ID = 0
		newID, err := r.repo.InsertOrderListEntry(ctx, tx, r.storeID, entry)
		if err != nil {
			return err
		}
		r.orderIDs[oldID] = newID
		r.summary.OrderListsImported++
		r.progress.report(PhaseOrderLists, fmt.Sprintf("Importing order lists: %d/%d", r.summary.OrderListsImported, total))
	}
	r.progress.report(PhaseOrderLists, fmt.Sprintf("Imported %d order list entries", r.summary.OrderListsImported))
	return nil
}

func (r *importRun) importHistory(ctx context.Context, tx *sqlx.Tx) error {
	total := len(r.doc.History)
	for _, entry := range r.doc.History {
		oldID := entry.ID
		entry.ID = 0
		newID, err := r.repo.InsertHistoryEntry(ctx, tx, r.storeID, entry)
		if err != nil {
			return err
		}
		r.historyIDs[oldID] = newID
		r.summary.HistoryImported++
		r.progress.report(PhaseHistory, fmt.Sprintf("Importing history: %d/%d", r.summary.HistoryImported, total))
	}
	r.progress.report(PhaseHistory, fmt.Sprintf("Imported %d history entries", r.summary.HistoryImported))
	return nil
}
