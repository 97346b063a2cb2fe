// Package storage defines the persistence contracts consumed by handlers and
// the access middleware.
package storage

import (
	"context"
	"errors"

	"github.com/camisetaria/backend/internal/models"
)

// ErrNotFound indicates a record does not exist (or is soft-deleted).
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures identity persistence. FindByEmail returns the user
// regardless of active status and includes the password hash; it is the only
// read that does, and exists solely for login. FindActiveByID filters on
// active = true and backs the access middleware.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindActiveByID(ctx context.Context, id int64) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	TouchLastLogin(ctx context.Context, id int64) error
	ToggleActive(ctx context.Context, id int64) (models.User, error)
}

// CustomerStore persists customers. Reads only see active rows; Delete is a
// soft delete.
type CustomerStore interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id int64) (models.Customer, error)
	CreateCustomer(ctx context.Context, c models.Customer) (models.Customer, error)
	UpdateCustomer(ctx context.Context, c models.Customer) (models.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

// SupplierStore persists suppliers with the same soft-delete discipline.
type SupplierStore interface {
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	GetSupplier(ctx context.Context, id int64) (models.Supplier, error)
	CreateSupplier(ctx context.Context, s models.Supplier) (models.Supplier, error)
	UpdateSupplier(ctx context.Context, s models.Supplier) (models.Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error
}

// ProductStore persists catalog items with the same soft-delete discipline.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// SaleStore persists sales orders. CancelSale flips the status instead of
// deleting the row.
type SaleStore interface {
	ListSales(ctx context.Context) ([]models.Sale, error)
	GetSale(ctx context.Context, id int64) (models.Sale, error)
	CreateSale(ctx context.Context, s models.Sale) (models.Sale, error)
	UpdateSale(ctx context.Context, id int64, patch models.SalePatch) (models.Sale, error)
	CancelSale(ctx context.Context, id int64) (models.Sale, error)
}

// Store aggregates every persistence contract the server wires together.
type Store interface {
	UserStore
	CustomerStore
	SupplierStore
	ProductStore
	SaleStore
}
