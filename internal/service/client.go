package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wrenchworks/repair-shop-service/internal/models"
)

var (
	ErrClientFieldsRequired  = errors.New("full name and phone are required")
	ErrVehicleFieldsRequired = errors.New("make, model and VIN are required")
	ErrBadYear               = errors.New("vehicle year is out of range")
	ErrVINTaken              = errors.New("a vehicle with this VIN already exists")
)

// ClientDirectory is the full client/vehicle store behind the service.
type ClientDirectory interface {
	ClientStore
	List(ctx context.Context) ([]models.Client, error)
	Create(ctx context.Context, client models.Client) (*models.Client, error)
	ListVehicles(ctx context.Context, clientID uuid.UUID) ([]models.Vehicle, error)
	GetVehicleByVIN(ctx context.Context, vin string) (*models.Vehicle, error)
	CreateVehicle(ctx context.Context, vehicle models.Vehicle) (*models.Vehicle, error)
}

// ClientService handles client records and their vehicles.
type ClientService struct {
	clients ClientDirectory
}

// NewClientService creates a new client service
func NewClientService(clients ClientDirectory) *ClientService {
	return &ClientService{clients: clients}
}

// CreateClient creates a client record. Full name and phone are mandatory;
// email and address are optional and stored as NULL when blank. Client
// phone and email carry no uniqueness constraint.
func (s *ClientService) CreateClient(ctx context.Context, req models.ClientRequest) (*models.Client, error) {
	fullName := strings.TrimSpace(req.FullName)
	phone := strings.TrimSpace(req.Phone)
	if fullName == "" || phone == "" {
		return nil, ErrClientFieldsRequired
	}

	client := models.Client{
		FullName: fullName,
		Phone:    phone,
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		client.Email = &email
	}
	if address := strings.TrimSpace(req.Address); address != "" {
		client.Address = &address
	}

	created, err := s.clients.Create(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return created, nil
}

// GetClient retrieves a client with its vehicles
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return s.clients.GetByID(ctx, id)
}

// ListClients lists all clients
func (s *ClientService) ListClients(ctx context.Context) ([]models.Client, error) {
	return s.clients.List(ctx)
}

// AddVehicle registers a vehicle for an existing client. The VIN must be
// globally unique; the schema backs this check with a unique constraint.
func (s *ClientService) AddVehicle(ctx context.Context, req models.VehicleRequest) (*models.Vehicle, error) {
	make := strings.TrimSpace(req.Make)
	model := strings.TrimSpace(req.Model)
	vin := strings.ToUpper(strings.TrimSpace(req.VIN))
	if make == "" || model == "" || vin == "" {
		return nil, ErrVehicleFieldsRequired
	}
	if req.Year < 1900 || req.Year > time.Now().Year()+1 {
		return nil, ErrBadYear
	}

	if _, err := s.clients.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to check client: %w", err)
	}

	if _, err := s.clients.GetVehicleByVIN(ctx, vin); err == nil {
		return nil, ErrVINTaken
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check vin: %w", err)
	}

	vehicle := models.Vehicle{
		ClientID: req.ClientID,
		Make:     make,
		Model:    model,
		Year:     req.Year,
		VIN:      vin,
	}

	created, err := s.clients.CreateVehicle(ctx, vehicle)
	if err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return created, nil
}
