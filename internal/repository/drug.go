package repository

import (
	"context"
	"fmt"

	"pharmastore/m/domain"
)

var drugColumns = []string{
	"id", "medicine_name", "price", "mrp", "quantity", "unit_per_package", "expiry_date",
	"medicine_type", "rack_no", "batch_no", "distributor_name", "purchase_invoice_number",
	"created_at", "updated_at",
}

// InsertDrug stores d under storeID. d.ID is ignored; the new id is returned.
func (r *Repository) InsertDrug(ctx context.Context, q Querier, storeID int64, d domain.Drug) (int64, error) {
	createdAt, updatedAt := r.stamps(d.CreatedAt, d.UpdatedAt)

	ib := flavor.NewInsertBuilder()
	ib.InsertInto("drugs").
		Cols("store_id", "medicine_name", "price", "mrp", "quantity", "unit_per_package", "expiry_date",
			"medicine_type", "rack_no", "batch_no", "distributor_name", "purchase_invoice_number",
			"created_at", "updated_at").
		Values(storeID, d.MedicineName, d.Price, d.MRP, d.Quantity, d.UnitPerPackage, d.ExpiryDate,
			d.MedicineType, d.RackNo, d.BatchNo, d.DistributorName, d.PurchaseInvoiceNumber,
			createdAt, updatedAt)

	id, err := r.insert(ctx, q, ib)
	if err != nil {
		return 0, fmt.Errorf("insert drug %q: %w", d.MedicineName, err)
	}
	return id, nil
}

func (r *Repository) ListDrugs(ctx context.Context, q Querier, storeID int64) ([]domain.Drug, error) {
	sb := flavor.NewSelectBuilder()
	sb.Select(drugColumns...).From("drugs").Where(sb.Equal("store_id", storeID)).OrderBy("id").Asc()

	drugs := []domain.Drug{}
	if err := r.selectAll(ctx, q, &drugs, sb); err != nil {
		return nil, fmt.Errorf("list drugs for store %d: %w", storeID, err)
	}
	return drugs, nil
}

func (r *Repository) GetDrug(ctx context.Context, q Querier, id int64) (*domain.Drug, error) {
	sb := flavor.NewSelectBuilder()
	sb.Select(drugColumns...).From("drugs").Where(sb.Equal("id", id))

	var drug domain.Drug
	if err := r.getOne(ctx, q, &drug, sb); err != nil {
		return nil, fmt.Errorf("get drug %d: %w", id, err)
	}
	return &drug, nil
}
