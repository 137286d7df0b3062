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

// ClientRepository handles client and vehicle data access
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// GetByID retrieves a client by ID, including its vehicles
func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	query := `
		SELECT id, full_name, phone, email, address, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	var client models.Client
	err := r.db.GetContext(ctx, &client, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	vehicles, err := r.ListVehicles(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	client.Vehicles = vehicles

	return &client, nil
}

// List retrieves all clients
func (r *ClientRepository) List(ctx context.Context) ([]models.Client, error) {
	query := `
		SELECT id, full_name, phone, email, address, created_at, updated_at
		FROM clients
		ORDER BY full_name ASC
	`

	var clients []models.Client
	err := r.db.SelectContext(ctx, &clients, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	return clients, nil
}

// Create creates a new client
func (r *ClientRepository) Create(ctx context.Context, client models.Client) (*models.Client, error) {
	query := `
		INSERT INTO clients (full_name, phone, email, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, full_name, phone, email, address, created_at, updated_at
	`

	var createdClient models.Client
	err := r.db.GetContext(
		ctx,
		&createdClient,
		query,
		client.FullName,
		client.Phone,
		client.Email,
		client.Address,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &createdClient, nil
}

// ListVehicles retrieves vehicles belonging to a client
func (r *ClientRepository) ListVehicles(ctx context.Context, clientID uuid.UUID) ([]models.Vehicle, error) {
	query := `
		SELECT id, client_id, make, model, year, vin, created_at
		FROM vehicles
		WHERE client_id = $1
		ORDER BY created_at ASC
	`

	var vehicles []models.Vehicle
	err := r.db.SelectContext(ctx, &vehicles, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	return vehicles, nil
}

// GetVehicleByVIN retrieves a vehicle by its VIN
func (r *ClientRepository) GetVehicleByVIN(ctx context.Context, vin string) (*models.Vehicle, error) {
	query := `
		SELECT id, client_id, make, model, year, vin, created_at
		FROM vehicles
		WHERE vin = $1
	`

	var vehicle models.Vehicle
	err := r.db.GetContext(ctx, &vehicle, query, vin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle by vin: %w", err)
	}

	return &vehicle, nil
}

// CreateVehicle creates a new vehicle for a client
func (r *ClientRepository) CreateVehicle(ctx context.Context, vehicle models.Vehicle) (*models.Vehicle, error) {
	query := `
		INSERT INTO vehicles (client_id, make, model, year, vin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, client_id, make, model, year, vin, created_at
	`

	var createdVehicle models.Vehicle
	err := r.db.GetContext(
		ctx,
		&createdVehicle,
		query,
		vehicle.ClientID,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.VIN,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	return &createdVehicle, nil
}
