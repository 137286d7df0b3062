package models

import (
	"errors"
	"fmt"
)

// ErrNotFound covers missing Users, Clients, Parts, Vehicles and Orders
// referenced by id.
var ErrNotFound = errors.New("record not found")

// InsufficientStockError is returned by the order store when a part cannot
// cover the requested quantity. The whole order is rolled back.
type InsufficientStockError struct {
	PartName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for part %q", e.PartName)
}
