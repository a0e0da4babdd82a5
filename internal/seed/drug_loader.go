// Package seed bulk-loads drug stock for a store from a CSV file.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"pharmastore/m/domain"
	"pharmastore/m/internal/database"
	"pharmastore/m/internal/logging"
	"pharmastore/m/internal/repository"
)

// Expected column order. A header row is always skipped.
const (
	colName = iota
	colType
	colPrice
	colMRP
	colQuantity
	colUnitPerPackage
	colExpiryDate
	colBatchNo
	minColumns = colExpiryDate + 1
)

type DrugWriter interface {
	GetStore(ctx context.Context, q repository.Querier, id int64) (*domain.Store, error)
	InsertDrug(ctx context.Context, q repository.Querier, storeID int64, d domain.Drug) (int64, error)
}

// LoadDrugs inserts the drugs listed in csvPath into storeID in a single
// transaction and returns how many were inserted. Malformed rows are logged
// and skipped.
func LoadDrugs(ctx context.Context, db *sqlx.DB, repo DrugWriter, storeID int64, csvPath string, logger *zap.Logger) (int, error) {
	logger = logging.OrNop(logger)

	file, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("open drug list %s: %w", csvPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("read drug list header: %w", err)
	}

	rows := 0
	err = database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := repo.GetStore(ctx, tx, storeID); err != nil {
			return err
		}
		line := 1
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			line++
			if err != nil {
				logger.Warn("unable to read drug row", zap.Int("line", line), zap.Error(err))
				continue
			}
			drug, err := parseDrug(record)
			if err != nil {
				logger.Warn("skipping drug row", zap.Int("line", line), zap.Error(err))
				continue
			}
			if _, err := repo.InsertDrug(ctx, tx, storeID, drug); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			rows++
		}
	})
	if err != nil {
		return 0, err
	}

	logger.Info("seeded drugs", zap.Int64("store_id", storeID), zap.Int("rows", rows))
	return rows, nil
}

func parseDrug(record []string) (domain.Drug, error) {
	if len(record) < minColumns {
		return domain.Drug{}, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(record))
	}
	field := func(i int) string { return strings.TrimSpace(record[i]) }

	d := domain.Drug{
		MedicineName:   field(colName),
		MedicineType:   field(colType),
		ExpiryDate:     field(colExpiryDate),
		UnitPerPackage: 1,
	}
	if d.MedicineName == "" {
		return d, errors.New("medicine name is empty")
	}
	if d.MedicineType == "" {
		return d, errors.New("medicine type is empty")
	}
	if _, err := time.Parse("2006-01-02", d.ExpiryDate); err != nil {
		return d, fmt.Errorf("expiry date %q must be YYYY-MM-DD", d.ExpiryDate)
	}
	if len(record) > colBatchNo {
		d.BatchNo = field(colBatchNo)
	}

	var err error
	if d.Price, err = strconv.ParseFloat(field(colPrice), 64); err != nil || d.Price <= 0 {
		return d, fmt.Errorf("price %q must be a positive number", field(colPrice))
	}
	if d.MRP, err = strconv.ParseFloat(field(colMRP), 64); err != nil || d.MRP <= 0 {
		return d, fmt.Errorf("mrp %q must be a positive number", field(colMRP))
	}
	if d.Quantity, err = strconv.ParseInt(field(colQuantity), 10, 64); err != nil || d.Quantity < 0 {
		return d, fmt.Errorf("quantity %q must be a non-negative integer", field(colQuantity))
	}
	if raw := field(colUnitPerPackage); raw != "" {
		if d.UnitPerPackage, err = strconv.ParseInt(raw, 10, 64); err != nil || d.UnitPerPackage < 1 {
			return d, fmt.Errorf("unit per package %q must be at least 1", raw)
		}
	}
	return d, nil
}
