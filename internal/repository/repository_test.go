package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmastore/m/domain"
	"pharmastore/m/internal/repository"
	"pharmastore/m/internal/testutil"
)

func TestStores(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.New(nil)
	ctx := context.Background()

	id, err := repo.InsertStore(ctx, db, "Main Street")
	require.NoError(t, err)

	store, err := repo.GetStore(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, "Main Street", store.Name)
	_, err = time.Parse(repository.TimeLayout, store.CreatedAt)
	assert.NoError(t, err)

	_, err = repo.InsertStore(ctx, db, "Main Street")
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = repo.GetStore(ctx, db, id+100)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	n, err := repo.CountStores(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stores, err := repo.ListStores(ctx, db)
	require.NoError(t, err)
	assert.Len(t, stores, 1)
}

func TestDrugsAndSalesAreStoreScoped(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.New(nil)
	ctx := context.Background()

	a := testutil.SeedStore(t, db, "A", 3, 4, 0, 0, 0)
	b := testutil.SeedStore(t, db, "B", 1, 1, 0, 0, 0)

	drugs, err := repo.ListDrugs(ctx, db, a.StoreID)
	require.NoError(t, err)
	require.Len(t, drugs, 3)
	assert.Equal(t, a.DrugIDs[0], drugs[0].ID)
	assert.Equal(t, "Tablet", drugs[0].MedicineType)
	assert.NotEmpty(t, drugs[0].CreatedAt)
	assert.Equal(t, drugs[0].CreatedAt, drugs[0].UpdatedAt)

	sales, err := repo.ListSales(ctx, db, a.StoreID)
	require.NoError(t, err)
	require.Len(t, sales, 4)
	assert.Equal(t, a.DrugIDs[0], sales[3].MedicineID)

	sales, err = repo.ListSales(ctx, db, b.StoreID)
	require.NoError(t, err)
	assert.Len(t, sales, 1)

	drug, err := repo.GetDrug(ctx, db, b.DrugIDs[0])
	require.NoError(t, err)
	assert.Equal(t, "Medicine 1", drug.MedicineName)
}

func TestInsertPreservesTimestamps(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.New(nil)
	ctx := context.Background()

	storeID, err := repo.InsertStore(ctx, db, "A")
	require.NoError(t, err)

	drug := testutil.Drug("Amoxicillin")
	drug.CreatedAt = "2024-03-01T09:00:00.000Z"
	drug.UpdatedAt = "2024-03-02T09:00:00.000Z"
	drug.RackNo = "R1"
	_, err = repo.InsertDrug(ctx, db, storeID, drug)
	require.NoError(t, err)

	drugs, err := repo.ListDrugs(ctx, db, storeID)
	require.NoError(t, err)
	require.Len(t, drugs, 1)
	assert.Equal(t, "2024-03-01T09:00:00.000Z", drugs[0].CreatedAt)
	assert.Equal(t, "2024-03-02T09:00:00.000Z", drugs[0].UpdatedAt)
	assert.Equal(t, "R1", drugs[0].RackNo)
}

func TestSaleRequiresExistingDrug(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.New(nil)
	ctx := context.Background()

	storeID, err := repo.InsertStore(ctx, db, "A")
	require.NoError(t, err)

	_, err = repo.InsertSale(ctx, db, storeID, domain.Sale{
		MedicineID: 999, MedicineName: "Ghost", Quantity: 1, UnitPerPackage: 1, Price: 1, MRP: 1,
	})
	assert.Error(t, err)
}

func TestSuppliersAndOrderLists(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.New(nil)
	ctx := context.Background()

	u := testutil.SeedStore(t, db, "A", 0, 0, 2, 3, 0)

	suppliers, err := repo.ListSuppliers(ctx, db, u.StoreID)
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	require.NotNil(t, suppliers[0].ID)
	assert.Equal(t, "Supplier 1", suppliers[0].SupplierName)
	assert.Len(t, suppliers[1].Phone, 10)

	orders, err := repo.ListOrderListEntries(ctx, db, u.StoreID)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, int64(30), orders[2].Quantity)
}

func TestListHistoryOrderAndRange(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.New(nil)
	ctx := context.Background()

	u := testutil.SeedStore(t, db, "A", 0, 0, 0, 0, 5)

	asc, err := repo.ListHistory(ctx, db, u.StoreID, repository.SortAsc, "", "")
	require.NoError(t, err)
	require.Len(t, asc, 5)
	assert.Equal(t, "operation 1", asc[0].Operation)

	desc, err := repo.ListHistory(ctx, db, u.StoreID, repository.SortDesc, "", "")
	require.NoError(t, err)
	require.Len(t, desc, 5)
	assert.Equal(t, "operation 5", desc[0].Operation)

	for i := 1; i < len(desc); i++ {
		assert.Greater(t, desc[i-1].ID, desc[i].ID, "descending order must hold for every column")
	}

	ranged, err := repo.ListHistory(ctx, db, u.StoreID, repository.SortAsc, "2025-01-02", "2025-01-04")
	require.NoError(t, err)
	require.Len(t, ranged, 3)
	assert.Equal(t, "operation 2", ranged[0].Operation)
	assert.Equal(t, "operation 4", ranged[2].Operation)
}

func TestUsers(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.New(nil)
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, db, domain.User{Username: "asha", Email: "Asha@Example.com", Password: "hash", Role: domain.RoleOwner})
	require.NoError(t, err)

	user, err := repo.GetUserByEmail(ctx, db, "ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, domain.RoleOwner, user.Role)

	_, err = repo.CreateUser(ctx, db, domain.User{Username: "dup", Email: "asha@example.com", Password: "x", Role: domain.RoleEmployee})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = repo.GetUserByEmail(ctx, db, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListHistoryDescBreaksTiesByIDDescending(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.New(nil)
	ctx := context.Background()

	storeID, err := repo.InsertStore(ctx, db, "A")
	require.NoError(t, err)
	for _, op := range []string{"first", "second", "third"} {
		_, err := repo.InsertHistoryEntry(ctx, db, storeID, domain.HistoryEntry{
			Operation: op,
			CreatedAt: "2025-03-01T09:00:00.000Z",
		})
		require.NoError(t, err)
	}
	_, err = repo.InsertHistoryEntry(ctx, db, storeID, domain.HistoryEntry{
		Operation: "earlier",
		CreatedAt: "2025-02-01T09:00:00.000Z",
	})
	require.NoError(t, err)

	desc, err := repo.ListHistory(ctx, db, storeID, repository.SortDesc, "", "")
	require.NoError(t, err)
	ops := make([]string, len(desc))
	for i, e := range desc {
		ops[i] = e.Operation
	}
	assert.Equal(t, []string{"third", "second", "first", "earlier"}, ops)

	asc, err := repo.ListHistory(ctx, db, storeID, repository.SortAsc, "", "")
	require.NoError(t, err)
	assert.Equal(t, "earlier", asc[0].Operation)
	assert.Equal(t, "third", asc[3].Operation)
}
