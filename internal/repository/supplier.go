package repository

import (
	"context"
	"fmt"

	"pharmastore/m/domain"
)

var supplierColumns = []string{"id", "supplier_name", "location", "phone", "created_at", "updated_at"}

func (r *Repository) InsertSupplier(ctx context.Context, q Querier, storeID int64, s domain.Supplier) (int64, error) {
	createdAt, updatedAt := r.stamps(s.CreatedAt, s.UpdatedAt)

	ib := flavor.NewInsertBuilder()
	ib.InsertInto("suppliers").
		Cols("store_id", "supplier_name", "location", "phone", "created_at", "updated_at").
		Values(storeID, s.SupplierName, s.Location, s.Phone, createdAt, updatedAt)

	id, err := r.insert(ctx, q, ib)
	if err != nil {
		return 0, fmt.Errorf("insert supplier %q: %w", s.SupplierName, err)
	}
	return id, nil
}

func (r *Repository) ListSuppliers(ctx context.Context, q Querier, storeID int64) ([]domain.Supplier, error) {
	sb := flavor.NewSelectBuilder()
	sb.Select(supplierColumns...).From("suppliers").Where(sb.Equal("store_id", storeID)).OrderBy("id").Asc()

	suppliers := []domain.Supplier{}
	if err := r.selectAll(ctx, q, &suppliers, sb); err != nil {
		return nil, fmt.Errorf("list suppliers for store %d: %w", storeID, err)
	}
	return suppliers, nil
}
