package core

import "time"

// SaleDateLayout is the calendar-date format accepted in uploads.
const SaleDateLayout = "2006-01-02"

// Sale is one committed sales record. Sales are only ever written in bulk
// by the importer, after the referenced product was confirmed to exist;
// they are not re-validated against the product afterwards.
type Sale struct {
	SaleDate   time.Time `json:"sale_date" bson:"sale_date"`
	ProductID  string    `json:"product_id" bson:"product_id" validate:"required"`
	Quantity   int       `json:"quantity" bson:"quantity" validate:"gte=0"`
	TotalValue float64   `json:"total_value" bson:"total_value" validate:"gte=0"`
}
