package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/camisetaria/backend/internal/models"
	"github.com/camisetaria/backend/internal/storage"
)

const supplierColumns = "id, name, legal_name, tax_id, email, phone, address, city, state, postal_code, supply_type, delivery_days, active, created_at, updated_at"

// ListSuppliers returns active suppliers, newest first.
func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	const query = `SELECT ` + supplierColumns + ` FROM suppliers WHERE active = true ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := []models.Supplier{}
	for rows.Next() {
		sup, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, sup)
	}
	return suppliers, rows.Err()
}

// GetSupplier fetches an active supplier by id.
func (s *Store) GetSupplier(ctx context.Context, id int64) (models.Supplier, error) {
	const query = `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1 AND active = true`
	return scanSupplier(s.pool.QueryRow(ctx, query, id))
}

// CreateSupplier inserts a new supplier row.
func (s *Store) CreateSupplier(ctx context.Context, sup models.Supplier) (models.Supplier, error) {
	const query = `
		INSERT INTO suppliers (name, legal_name, tax_id, email, phone, address, city, state, postal_code, supply_type, delivery_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + supplierColumns
	row := s.pool.QueryRow(ctx, query, sup.Name, sup.LegalName, sup.TaxID, sup.Email, sup.Phone,
		sup.Address, sup.City, sup.State, sup.PostalCode, sup.SupplyType, sup.DeliveryDays)
	created, err := scanSupplier(row)
	if err != nil {
		return models.Supplier{}, mapError(err)
	}
	return created, nil
}

// UpdateSupplier replaces an active supplier's fields.
func (s *Store) UpdateSupplier(ctx context.Context, sup models.Supplier) (models.Supplier, error) {
	const query = `
		UPDATE suppliers
		SET name = $1, legal_name = $2, tax_id = $3, email = $4, phone = $5,
		    address = $6, city = $7, state = $8, postal_code = $9,
		    supply_type = $10, delivery_days = $11, updated_at = CURRENT_TIMESTAMP
		WHERE id = $12 AND active = true
		RETURNING ` + supplierColumns
	row := s.pool.QueryRow(ctx, query, sup.Name, sup.LegalName, sup.TaxID, sup.Email, sup.Phone,
		sup.Address, sup.City, sup.State, sup.PostalCode, sup.SupplyType, sup.DeliveryDays, sup.ID)
	return scanSupplier(row)
}

// DeleteSupplier soft-deletes a supplier.
func (s *Store) DeleteSupplier(ctx context.Context, id int64) error {
	const query = `
		UPDATE suppliers
		SET active = false, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND active = true`
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanSupplier(row pgx.Row) (models.Supplier, error) {
	var sup models.Supplier
	err := row.Scan(&sup.ID, &sup.Name, &sup.LegalName, &sup.TaxID, &sup.Email, &sup.Phone,
		&sup.Address, &sup.City, &sup.State, &sup.PostalCode, &sup.SupplyType,
		&sup.DeliveryDays, &sup.Active, &sup.CreatedAt, &sup.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Supplier{}, storage.ErrNotFound
		}
		return models.Supplier{}, err
	}
	return sup, nil
}
