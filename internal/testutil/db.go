// Package testutil provides a migrated in-memory database and fixture data for tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"pharmastore/m/domain"
	"pharmastore/m/internal/database"
	"pharmastore/m/internal/migrations"
	"pharmastore/m/internal/repository"
)

// NewDB returns a fresh, migrated in-memory database closed at test cleanup.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Run(db))
	return db
}

// Counts reports row counts per table.
type Counts struct {
	Stores, Drugs, Sales, Suppliers, OrderLists, History int
}

func CountRows(t *testing.T, db *sqlx.DB) Counts {
	t.Helper()
	count := func(table string) int {
		var n int
		require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
		return n
	}
	return Counts{
		Stores:     count("stores"),
		Drugs:      count("drugs"),
		Sales:      count("sales"),
		Suppliers:  count("suppliers"),
		OrderLists: count("order_lists"),
		History:    count("history"),
	}
}

// Universe is the set of ids created by SeedStore.
type Universe struct {
	StoreID int64
	DrugIDs []int64
	SaleIDs []int64
}

// SeedStore creates a store holding the given numbers of records. Sales point at
// drugs round-robin, so drugs must be non-zero when sales are requested.
func SeedStore(t *testing.T, db *sqlx.DB, name string, drugs, sales, suppliers, orders, history int) Universe {
	t.Helper()
	ctx := context.Background()
	repo := repository.New(nil)

	storeID, err := repo.InsertStore(ctx, db, name)
	require.NoError(t, err)
	u := Universe{StoreID: storeID}

	for i := 0; i < drugs; i++ {
		id, err := repo.InsertDrug(ctx, db, storeID, Drug(fmt.Sprintf("Medicine %d", i+1)))
		require.NoError(t, err)
		u.DrugIDs = append(u.DrugIDs, id)
	}
	for i := 0; i < sales; i++ {
		drugID := u.DrugIDs[i%len(u.DrugIDs)]
		id, err := repo.InsertSale(ctx, db, storeID, domain.Sale{
			MedicineID:     drugID,
			MedicineName:   fmt.Sprintf("Medicine %d", i%len(u.DrugIDs)+1),
			Quantity:       int64(i + 1),
			UnitPerPackage: 10,
			Price:          2,
			MRP:            3,
		})
		require.NoError(t, err)
		u.SaleIDs = append(u.SaleIDs, id)
	}
	for i := 0; i < suppliers; i++ {
		_, err := repo.InsertSupplier(ctx, db, storeID, domain.Supplier{
			SupplierName: fmt.Sprintf("Supplier %d", i+1),
			Location:     "Kolkata",
			Phone:        fmt.Sprintf("98765432%02d", i%100),
		})
		require.NoError(t, err)
	}
	for i := 0; i < orders; i++ {
		_, err := repo.InsertOrderListEntry(ctx, db, storeID, domain.OrderListEntry{
			SupplierName: "Supplier 1",
			MedicineName: fmt.Sprintf("Medicine %d", i+1),
			Quantity:     int64(10 * (i + 1)),
		})
		require.NoError(t, err)
	}
	for i := 0; i < history; i++ {
		_, err := repo.InsertHistoryEntry(ctx, db, storeID, domain.HistoryEntry{
			Operation: fmt.Sprintf("operation %d", i+1),
			CreatedAt: fmt.Sprintf("2025-01-%02dT10:00:00.000Z", i%28+1),
		})
		require.NoError(t, err)
	}
	return u
}

// Drug returns a valid drug record with the given name.
func Drug(name string) domain.Drug {
	return domain.Drug{
		MedicineName:   name,
		Price:          2,
		MRP:            3,
		Quantity:       100,
		UnitPerPackage: 10,
		ExpiryDate:     "2026-01-01",
		MedicineType:   "Tablet",
	}
}

// ScenarioDocument is the single drug + single sale document used across tests.
func ScenarioDocument() domain.ExportDocument {
	return domain.ExportDocument{
		Store: domain.StoreInfo{
			Name:            "Main Street",
			ExportDate:      "2025-06-01T12:00:00.000Z",
			Version:         domain.ExportVersion,
			OriginalStoreID: 1,
		},
		Drugs: []domain.Drug{{
			ID: 1, MedicineName: "Paracetamol", Price: 2, MRP: 3, Quantity: 100,
			UnitPerPackage: 10, ExpiryDate: "2026-01-01", MedicineType: "Tablet",
		}},
		Sales: []domain.Sale{{
			ID: 1, MedicineID: 1, MedicineName: "Paracetamol", Quantity: 5,
			UnitPerPackage: 10, Price: 2, MRP: 3,
		}},
		Suppliers:  []domain.Supplier{},
		OrderLists: []domain.OrderListEntry{},
		History:    []domain.HistoryEntry{},
		Metadata:   domain.ExportMetadata{TotalRecords: 2, ExportedBy: "PharmaStore"},
	}
}
