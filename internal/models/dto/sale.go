package dto

// CreateSaleRequest is the payload for creating a sales order.
type CreateSaleRequest struct {
	CustomerID      int64    `json:"customer_id"`
	ProductID       int64    `json:"product_id"`
	Quantity        int      `json:"quantity"`
	Size            string   `json:"size"`
	Color           string   `json:"color"`
	UnitPrice       *float64 `json:"unit_price"`
	Discount        float64  `json:"discount"`
	PaymentMethod   string   `json:"payment_method"`
	ShippingAddress string   `json:"shipping_address"`
	Notes           string   `json:"notes"`
}

// UpdateSaleRequest is the partial-update payload; nil fields are left
// unchanged.
type UpdateSaleRequest struct {
	Quantity        *int     `json:"quantity"`
	Size            *string  `json:"size"`
	Color           *string  `json:"color"`
	UnitPrice       *float64 `json:"unit_price"`
	Discount        *float64 `json:"discount"`
	Status          *string  `json:"status"`
	PaymentMethod   *string  `json:"payment_method"`
	ShippingAddress *string  `json:"shipping_address"`
	Notes           *string  `json:"notes"`
}
