package domain

// Drug is a stocked medicine batch.
type Drug struct {
	ID                    int64   `db:"id" json:"id"`
	MedicineName          string  `db:"medicine_name" json:"medicineName"`
	Price                 float64 `db:"price" json:"price"`
	MRP                   float64 `db:"mrp" json:"mrp"`
	Quantity              int64   `db:"quantity" json:"quantity"`
	UnitPerPackage        int64   `db:"unit_per_package" json:"unitPerPackage"`
	ExpiryDate            string  `db:"expiry_date" json:"expiryDate"`
	MedicineType          string  `db:"medicine_type" json:"medicineType"`
	RackNo                string  `db:"rack_no" json:"rackNo,omitempty"`
	BatchNo               string  `db:"batch_no" json:"batchNo,omitempty"`
	DistributorName       string  `db:"distributor_name" json:"distributorName,omitempty"`
	PurchaseInvoiceNumber string  `db:"purchase_invoice_number" json:"purchaseInvoiceNumber,omitempty"`
	CreatedAt             string  `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt             string  `db:"updated_at" json:"updatedAt,omitempty"`
}
