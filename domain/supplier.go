package domain

// Supplier ids are optional in export documents, so ID is a pointer.
type Supplier struct {
	ID           *int64 `db:"id" json:"id,omitempty"`
	SupplierName string `db:"supplier_name" json:"supplierName"`
	Location     string `db:"location" json:"location"`
	Phone        string `db:"phone" json:"phone"`
	CreatedAt    string `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt    string `db:"updated_at" json:"updatedAt,omitempty"`
}
