package models

import "time"

// Supplier is a product supplier. Rows are soft-deleted via Active.
type Supplier struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	LegalName    string    `json:"legal_name,omitempty"`
	TaxID        string    `json:"tax_id,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	PostalCode   string    `json:"postal_code,omitempty"`
	SupplyType   string    `json:"supply_type,omitempty"`
	DeliveryDays int       `json:"delivery_days"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
