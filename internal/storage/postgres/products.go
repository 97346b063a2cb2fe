package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/camisetaria/backend/internal/models"
	"github.com/camisetaria/backend/internal/storage"
)

const productColumns = "id, name, description, price, stock, category, active, created_at, updated_at"

// ListProducts returns active products, newest first.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE active = true ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct fetches an active product by id.
func (s *Store) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND active = true`
	return scanProduct(s.pool.QueryRow(ctx, query, id))
}

// CreateProduct inserts a new catalog item.
func (s *Store) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	const query = `
		INSERT INTO products (name, description, price, stock, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + productColumns
	row := s.pool.QueryRow(ctx, query, p.Name, p.Description, p.Price, p.Stock, p.Category)
	created, err := scanProduct(row)
	if err != nil {
		return models.Product{}, mapError(err)
	}
	return created, nil
}

// UpdateProduct replaces an active product's fields.
func (s *Store) UpdateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	const query = `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, category = $5,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $6 AND active = true
		RETURNING ` + productColumns
	row := s.pool.QueryRow(ctx, query, p.Name, p.Description, p.Price, p.Stock, p.Category, p.ID)
	return scanProduct(row)
}

// DeleteProduct soft-deletes a product.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	const query = `
		UPDATE products
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

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.Category, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, storage.ErrNotFound
		}
		return models.Product{}, err
	}
	return p, nil
}
