package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmastore/m/internal/repository"
	"pharmastore/m/internal/testutil"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drugs.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDrugs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.New(nil)
	ctx := context.Background()
	storeID, err := repo.InsertStore(ctx, db, "Main Street")
	require.NoError(t, err)

	path := writeCSV(t, `name,type,price,mrp,quantity,unitPerPackage,expiryDate,batchNo
Paracetamol,Tablet,2,3,100,10,2026-01-01,B-1
Cetirizine,Tablet,1.5,2,50,,2026-03-01
,Tablet,2,3,100,10,2026-01-01,B-2
Ibuprofen,Tablet,free,3,100,10,2026-01-01,B-3
Amoxicillin,Capsule,4,5,20,6,01/01/2026,B-4
Short,Row
Cough Syrup,Syrup,80,95,12,1,2025-11-30,S-9
`)

	n, err := LoadDrugs(ctx, db, repo, storeID, path, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	drugs, err := repo.ListDrugs(ctx, db, storeID)
	require.NoError(t, err)
	require.Len(t, drugs, 3)
	assert.Equal(t, "Paracetamol", drugs[0].MedicineName)
	assert.Equal(t, "B-1", drugs[0].BatchNo)
	assert.Equal(t, int64(1), drugs[1].UnitPerPackage)
	assert.Empty(t, drugs[1].BatchNo)
	assert.Equal(t, 95.0, drugs[2].MRP)
}

func TestLoadDrugsUnknownStore(t *testing.T) {
	db := testutil.NewDB(t)
	path := writeCSV(t, "name,type,price,mrp,quantity,unitPerPackage,expiryDate\nA,Tablet,1,2,3,1,2026-01-01\n")

	_, err := LoadDrugs(context.Background(), db, repository.New(nil), 42, path, nil)

	assert.True(t, errors.Is(err, repository.ErrNotFound))
	assert.Zero(t, testutil.CountRows(t, db).Drugs)
}

func TestLoadDrugsMissingFile(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := LoadDrugs(context.Background(), db, repository.New(nil), 1, filepath.Join(t.TempDir(), "missing.csv"), nil)

	assert.Error(t, err)
}
