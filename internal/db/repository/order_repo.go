package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wrenchworks/repair-shop-service/internal/models"
)

// OrderRepository handles service order data access
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create creates an order together with its lines inside one transaction.
// Each line decrements the referenced part's stock with a conditional
// UPDATE, so a part that cannot cover the requested quantity fails the
// whole order. No partial order is ever visible to concurrent readers.
func (r *OrderRepository) Create(ctx context.Context, order models.Order, lines []models.OrderLineRequest) (*models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	orderQuery := `
		INSERT INTO orders (order_number, client_id, created_by, status, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, order_number, client_id, created_by, status, description, total, created_at, updated_at
	`

	var createdOrder models.Order
	err = tx.GetContext(
		ctx,
		&createdOrder,
		orderQuery,
		order.OrderNumber,
		order.ClientID,
		order.CreatedBy,
		order.Status,
		order.Description,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	createdOrder.Lines = make([]models.OrderLine, 0, len(lines))

	for _, lineReq := range lines {
		var part struct {
			Name  string `db:"name"`
			Price int64  `db:"price"`
		}
		err = tx.GetContext(
			ctx,
			&part,
			"SELECT name, price FROM parts WHERE id = $1",
			lineReq.PartID,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				err = models.ErrNotFound
				return nil, err
			}
			return nil, fmt.Errorf("failed to get part: %w", err)
		}

		// Conditional decrement guards the stock invariant: if another
		// order already took the units, zero rows match and we abort.
		var result sql.Result
		result, err = tx.ExecContext(
			ctx,
			"UPDATE parts SET stock = stock - $2, updated_at = NOW() WHERE id = $1 AND stock >= $2",
			lineReq.PartID,
			lineReq.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}

		var rowsAffected int64
		rowsAffected, err = result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			err = &models.InsufficientStockError{PartName: part.Name}
			return nil, err
		}

		var createdLine models.OrderLine
		err = tx.GetContext(
			ctx,
			&createdLine,
			`INSERT INTO order_lines (order_id, part_id, quantity, price)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, order_id, part_id, quantity, price, created_at`,
			createdOrder.ID,
			lineReq.PartID,
			lineReq.Quantity,
			part.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create order line: %w", err)
		}

		createdLine.PartName = part.Name
		createdOrder.Lines = append(createdOrder.Lines, createdLine)
		createdOrder.Total += part.Price * int64(lineReq.Quantity)
	}

	_, err = tx.ExecContext(
		ctx,
		"UPDATE orders SET total = $1 WHERE id = $2",
		createdOrder.Total,
		createdOrder.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update order total: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &createdOrder, nil
}

// GetByID retrieves an order by ID, including its lines
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `
		SELECT o.id, o.order_number, o.client_id, o.created_by, o.status, o.description,
		       o.total, o.created_at, o.updated_at
		FROM orders o
		WHERE o.id = $1
	`

	var order models.Order
	err := r.db.GetContext(ctx, &order, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	lines, err := r.GetOrderLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	return &order, nil
}

// GetOrderLines retrieves lines for an order
func (r *OrderRepository) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error) {
	query := `
		SELECT ol.id, ol.order_id, ol.part_id, ol.quantity, ol.price, ol.created_at,
		       p.name as part_name
		FROM order_lines ol
		JOIN parts p ON ol.part_id = p.id
		WHERE ol.order_id = $1
		ORDER BY ol.created_at ASC
	`

	rows, err := r.db.QueryxContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order lines: %w", err)
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		var line models.OrderLine
		var partName string
		if err := rows.Scan(&line.ID, &line.OrderID, &line.PartID, &line.Quantity,
			&line.Price, &line.CreatedAt, &partName); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		line.PartName = partName
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// List retrieves orders, newest first
func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	query := `
		SELECT id, order_number, client_id, created_by, status, description, total, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT 100
	`

	var orders []models.Order
	err := r.db.SelectContext(ctx, &orders, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// ListByCreator retrieves orders filed by a specific user, newest first
func (r *OrderRepository) ListByCreator(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	query := `
		SELECT id, order_number, client_id, created_by, status, description, total, created_at, updated_at
		FROM orders
		WHERE created_by = $1
		ORDER BY created_at DESC
		LIMIT 100
	`

	var orders []models.Order
	err := r.db.SelectContext(ctx, &orders, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by creator: %w", err)
	}

	return orders, nil
}
