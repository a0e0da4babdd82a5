package domain

// OrderListEntry is a single medicine to reorder, optionally tied to a supplier by name.
type OrderListEntry struct {
	ID           int64  `db:"id" json:"id"`
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`
	MedicineName string `db:"medicine_name" json:"medicineName"`
	Quantity     int64  `db:"quantity" json:"quantity"`
	CreatedAt    string `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt    string `db:"updated_at" json:"updatedAt,omitempty"`
}
