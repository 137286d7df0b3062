package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer record kept by the shop. Unlike User.Email, client
// phone and email carry no uniqueness constraint.
type Client struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Phone     string    `db:"phone" json:"phone"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Not stored directly in the database
	Vehicles []Vehicle `db:"-" json:"vehicles,omitempty"`
}

// ClientRequest carries the client creation form.
type ClientRequest struct {
	FullName string
	Phone    string
	Email    string
	Address  string
}

// Vehicle is a car owned by a client. The VIN is globally unique.
type Vehicle struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ClientID  uuid.UUID `db:"client_id" json:"client_id"`
	Make      string    `db:"make" json:"make"`
	Model     string    `db:"model" json:"model"`
	Year      int       `db:"year" json:"year"`
	VIN       string    `db:"vin" json:"vin"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// VehicleRequest carries the vehicle registration form.
type VehicleRequest struct {
	ClientID uuid.UUID
	Make     string
	Model    string
	Year     int
	VIN      string
}
