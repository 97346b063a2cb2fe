package models

import "time"

// Sale statuses. Deleting a sale cancels it instead of removing the row.
const (
	SaleStatusPending   = "pending"
	SaleStatusCancelled = "cancelled"
)

// Sale is a single-product sales order.
type Sale struct {
	ID              int64     `json:"id"`
	OrderNumber     string    `json:"order_number"`
	CustomerID      int64     `json:"customer_id"`
	ProductID       int64     `json:"product_id"`
	Quantity        int       `json:"quantity"`
	Size            string    `json:"size,omitempty"`
	Color           string    `json:"color,omitempty"`
	UnitPrice       float64   `json:"unit_price"`
	TotalPrice      float64   `json:"total_price"`
	Discount        float64   `json:"discount"`
	PaymentMethod   string    `json:"payment_method,omitempty"`
	ShippingAddress string    `json:"shipping_address,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Populated by list/get queries via joins; not columns of the sales table.
	CustomerName string `json:"customer_name,omitempty"`
	ProductName  string `json:"product_name,omitempty"`
}

// SalePatch carries the optional fields of a partial sale update. Nil means
// "leave unchanged". TotalPrice is recomputed by the caller when price or
// quantity change.
type SalePatch struct {
	Quantity        *int
	Size            *string
	Color           *string
	UnitPrice       *float64
	TotalPrice      *float64
	Discount        *float64
	Status          *string
	PaymentMethod   *string
	ShippingAddress *string
	Notes           *string
}
