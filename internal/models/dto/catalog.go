package dto

// CustomerRequest is the create/update payload for customers. Only Name is
// required; the remaining fields default to empty.
type CustomerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// SupplierRequest is the create/update payload for suppliers.
type SupplierRequest struct {
	Name         string `json:"name"`
	LegalName    string `json:"legal_name"`
	TaxID        string `json:"tax_id"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	SupplyType   string `json:"supply_type"`
	DeliveryDays int    `json:"delivery_days"`
}

// ProductRequest is the create/update payload for products. Price and Stock
// use pointers so that "missing" is distinguishable from zero.
type ProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    string   `json:"category"`
}
