package repository

import (
	"context"
	"fmt"

	"pharmastore/m/domain"
)

var orderListColumns = []string{"id", "supplier_name", "medicine_name", "quantity", "created_at", "updated_at"}

func (r *Repository) InsertOrderListEntry(ctx context.Context, q Querier, storeID int64, e domain.OrderListEntry) (int64, error) {
	createdAt, updatedAt := r.stamps(e.CreatedAt, e.UpdatedAt)

	ib := flavor.NewInsertBuilder()
	ib.InsertInto("order_lists").
		Cols("store_id", "supplier_name", "medicine_name", "quantity", "created_at", "updated_at").
		Values(storeID, e.SupplierName, e.MedicineName, e.Quantity, createdAt, updatedAt)

	id, err := r.insert(ctx, q, ib)
	if err != nil {
		return 0, fmt.Errorf("insert order list entry %q: %w", e.MedicineName, err)
	}
	return id, nil
}

func (r *Repository) ListOrderListEntries(ctx context.Context, q Querier, storeID int64) ([]domain.OrderListEntry, error) {
	sb := flavor.NewSelectBuilder()
	sb.Select(orderListColumns...).From("order_lists").Where(sb.Equal("store_id", storeID)).OrderBy("id").Asc()

	entries := []domain.OrderListEntry{}
	if err := r.selectAll(ctx, q, &entries, sb); err != nil {
		return nil, fmt.Errorf("list order lists for store %d: %w", storeID, err)
	}
	return entries, nil
}
