package models

import (
	"time"

	"github.com/google/uuid"
)

// Part is a warehouse inventory item. Price is whole currency units and
// Stock is a unit count; both are non-negative at all times.
type Part struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Price     int64     `db:"price" json:"price"`
	Stock     int       `db:"stock" json:"stock"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PartRequest carries the warehouse part creation form. Price and Stock
// arrive as raw form strings and are parsed by the service.
type PartRequest struct {
	Name  string
	Price string
	Stock string
}
