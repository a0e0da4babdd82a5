package repository

import (
	"context"
	"fmt"

	"pharmastore/m/domain"
)

var saleColumns = []string{
	"id", "medicine_id", "medicine_name", "quantity", "unit_per_package", "price", "mrp",
	"created_at", "updated_at",
}

// InsertSale stores s under storeID. s.MedicineID must already be an id in this database.
func (r *Repository) InsertSale(ctx context.Context, q Querier, storeID int64, s domain.Sale) (int64, error) {
	createdAt, updatedAt := r.stamps(s.CreatedAt, s.UpdatedAt)

	ib := flavor.NewInsertBuilder()
	ib.InsertInto("sales").
		Cols("store_id", "medicine_id", "medicine_name", "quantity", "unit_per_package", "price", "mrp",
			"created_at", "updated_at").
		Values(storeID, s.MedicineID, s.MedicineName, s.Quantity, s.UnitPerPackage, s.Price, s.MRP,
			createdAt, updatedAt)

	id, err := r.insert(ctx, q, ib)
	if err != nil {
		return 0, fmt.Errorf("insert sale of %q: %w", s.MedicineName, err)
	}
	return id, nil
}

func (r *Repository) ListSales(ctx context.Context, q Querier, storeID int64) ([]domain.Sale, error) {
	sb := flavor.NewSelectBuilder()
	sb.Select(saleColumns...).From("sales").Where(sb.Equal("store_id", storeID)).OrderBy("id").Asc()

	sales := []domain.Sale{}
	if err := r.selectAll(ctx, q, &sales, sb); err != nil {
		return nil, fmt.Errorf("list sales for store %d: %w", storeID, err)
	}
	return sales, nil
}
