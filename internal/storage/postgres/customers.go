package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/camisetaria/backend/internal/models"
	"github.com/camisetaria/backend/internal/storage"
)

const customerColumns = "id, name, email, phone, address, city, state, postal_code, active, created_at, updated_at"

// ListCustomers returns active customers, newest first.
func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers WHERE active = true ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// GetCustomer fetches an active customer by id.
func (s *Store) GetCustomer(ctx context.Context, id int64) (models.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND active = true`
	return scanCustomer(s.pool.QueryRow(ctx, query, id))
}

// CreateCustomer inserts a new customer row.
func (s *Store) CreateCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	const query = `
		INSERT INTO customers (name, email, phone, address, city, state, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + customerColumns
	row := s.pool.QueryRow(ctx, query, c.Name, c.Email, c.Phone, c.Address, c.City, c.State, c.PostalCode)
	created, err := scanCustomer(row)
	if err != nil {
		return models.Customer{}, mapError(err)
	}
	return created, nil
}

// UpdateCustomer replaces an active customer's fields.
func (s *Store) UpdateCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	const query = `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, address = $4, city = $5,
		    state = $6, postal_code = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $8 AND active = true
		RETURNING ` + customerColumns
	row := s.pool.QueryRow(ctx, query, c.Name, c.Email, c.Phone, c.Address, c.City, c.State, c.PostalCode, c.ID)
	return scanCustomer(row)
}

// DeleteCustomer soft-deletes a customer.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	const query = `
		UPDATE customers
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

func scanCustomer(row pgx.Row) (models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City,
		&c.State, &c.PostalCode, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Customer{}, storage.ErrNotFound
		}
		return models.Customer{}, err
	}
	return c, nil
}
