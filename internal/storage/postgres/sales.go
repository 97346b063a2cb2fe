package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/camisetaria/backend/internal/models"
	"github.com/camisetaria/backend/internal/storage"
)

const saleColumns = "id, order_number, customer_id, product_id, quantity, size, color, unit_price, total_price, discount, payment_method, shipping_address, notes, status, created_at, updated_at"

const saleJoinedQuery = `
	SELECT s.id, s.order_number, s.customer_id, s.product_id, s.quantity, s.size, s.color,
	       s.unit_price, s.total_price, s.discount, s.payment_method, s.shipping_address,
	       s.notes, s.status, s.created_at, s.updated_at,
	       COALESCE(c.name, ''), COALESCE(p.name, '')
	FROM sales s
	LEFT JOIN customers c ON s.customer_id = c.id
	LEFT JOIN products p ON s.product_id = p.id`

// ListSales returns every sale with customer and product names, newest first.
func (s *Store) ListSales(ctx context.Context) ([]models.Sale, error) {
	rows, err := s.pool.Query(ctx, saleJoinedQuery+` ORDER BY s.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := []models.Sale{}
	for rows.Next() {
		sale, err := scanJoinedSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

// GetSale fetches a sale by id with customer and product names.
func (s *Store) GetSale(ctx context.Context, id int64) (models.Sale, error) {
	return scanJoinedSale(s.pool.QueryRow(ctx, saleJoinedQuery+` WHERE s.id = $1`, id))
}

// CreateSale inserts a new order row.
func (s *Store) CreateSale(ctx context.Context, sale models.Sale) (models.Sale, error) {
	const query = `
		INSERT INTO sales (order_number, customer_id, product_id, quantity, size, color,
		                   unit_price, total_price, discount, payment_method, shipping_address, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + saleColumns
	row := s.pool.QueryRow(ctx, query, sale.OrderNumber, sale.CustomerID, sale.ProductID,
		sale.Quantity, sale.Size, sale.Color, sale.UnitPrice, sale.TotalPrice, sale.Discount,
		sale.PaymentMethod, sale.ShippingAddress, sale.Notes)
	created, err := scanSale(row)
	if err != nil {
		return models.Sale{}, mapError(err)
	}
	return created, nil
}

// UpdateSale applies a partial update; nil patch fields are left unchanged.
// Column names are constants here, only values are parameterized.
func (s *Store) UpdateSale(ctx context.Context, id int64, patch models.SalePatch) (models.Sale, error) {
	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Quantity != nil {
		add("quantity", *patch.Quantity)
	}
	if patch.Size != nil {
		add("size", *patch.Size)
	}
	if patch.Color != nil {
		add("color", *patch.Color)
	}
	if patch.UnitPrice != nil {
		add("unit_price", *patch.UnitPrice)
	}
	if patch.TotalPrice != nil {
		add("total_price", *patch.TotalPrice)
	}
	if patch.Discount != nil {
		add("discount", *patch.Discount)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.PaymentMethod != nil {
		add("payment_method", *patch.PaymentMethod)
	}
	if patch.ShippingAddress != nil {
		add("shipping_address", *patch.ShippingAddress)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE sales SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), saleColumns)

	return scanSale(s.pool.QueryRow(ctx, query, args...))
}

// CancelSale marks the order cancelled instead of deleting it.
func (s *Store) CancelSale(ctx context.Context, id int64) (models.Sale, error) {
	const query = `
		UPDATE sales
		SET status = 'cancelled', updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + saleColumns
	return scanSale(s.pool.QueryRow(ctx, query, id))
}

func scanSale(row pgx.Row) (models.Sale, error) {
	var sale models.Sale
	err := row.Scan(&sale.ID, &sale.OrderNumber, &sale.CustomerID, &sale.ProductID,
		&sale.Quantity, &sale.Size, &sale.Color, &sale.UnitPrice, &sale.TotalPrice,
		&sale.Discount, &sale.PaymentMethod, &sale.ShippingAddress, &sale.Notes,
		&sale.Status, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Sale{}, storage.ErrNotFound
		}
		return models.Sale{}, err
	}
	return sale, nil
}

func scanJoinedSale(row pgx.Row) (models.Sale, error) {
	var sale models.Sale
	err := row.Scan(&sale.ID, &sale.OrderNumber, &sale.CustomerID, &sale.ProductID,
		&sale.Quantity, &sale.Size, &sale.Color, &sale.UnitPrice, &sale.TotalPrice,
		&sale.Discount, &sale.PaymentMethod, &sale.ShippingAddress, &sale.Notes,
		&sale.Status, &sale.CreatedAt, &sale.UpdatedAt, &sale.CustomerName, &sale.ProductName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Sale{}, storage.ErrNotFound
		}
		return models.Sale{}, err
	}
	return sale, nil
}
