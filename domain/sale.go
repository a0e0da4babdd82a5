package domain

type Sale struct {
	ID             int64   `db:"id" json:"id"`
	MedicineID     int64   `db:"medicine_id" json:"medicineId"`
	MedicineName   string  `db:"medicine_name" json:"medicineName"`
	Quantity       int64   `db:"quantity" json:"quantity"`
	UnitPerPackage int64   `db:"unit_per_package" json:"unitPerPackage"`
	Price          float64 `db:"price" json:"price"`
	MRP            float64 `db:"mrp" json:"mrp"`
	CreatedAt      string  `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt      string  `db:"updated_at" json:"updatedAt,omitempty"`
}
