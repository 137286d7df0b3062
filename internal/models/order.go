package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the status of a service order
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order represents a service order filed against a client
type Order struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	OrderNumber string      `db:"order_number" json:"order_number"`
	ClientID    uuid.UUID   `db:"client_id" json:"client_id"`
	CreatedBy   uuid.UUID   `db:"created_by" json:"created_by"`
	Status      OrderStatus `db:"status" json:"status"`
	Description string      `db:"description" json:"description"`
	Total       int64       `db:"total" json:"total"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`

	// Not stored directly in the database
	Lines      []OrderLine `db:"-" json:"lines,omitempty"`
	ClientName string      `db:"-" json:"client_name,omitempty"`
}

// OrderLine is a part attached to an order with a quantity. Price is the
// unit price captured at the time the order was created.
type OrderLine struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OrderID   uuid.UUID `db:"order_id" json:"order_id"`
	PartID    uuid.UUID `db:"part_id" json:"part_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Price     int64     `db:"price" json:"price"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Not stored directly in the database
	PartName string `db:"-" json:"part_name"`
}

// OrderRequest is used for order creation
type OrderRequest struct {
	ClientID    uuid.UUID
	Description string
	Lines       []OrderLineRequest
}

// OrderLineRequest is used for order line creation
type OrderLineRequest struct {
	PartID   uuid.UUID
	Quantity int
}
