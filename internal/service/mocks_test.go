package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wrenchworks/repair-shop-service/internal/models"
)

type mockUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (m *mockUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *mockUserStore) List(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *mockUserStore) Create(_ context.Context, user models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = &user
	copied := user
	return &copied, nil
}

type mockClientStore struct {
	mu       sync.Mutex
	clients  map[uuid.UUID]*models.Client
	vehicles map[uuid.UUID]*models.Vehicle
}

func newMockClientStore() *mockClientStore {
	return &mockClientStore{
		clients:  make(map[uuid.UUID]*models.Client),
		vehicles: make(map[uuid.UUID]*models.Vehicle),
	}
}

func (m *mockClientStore) GetByID(_ context.Context, id uuid.UUID) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients[id]; ok {
		copied := *c
		for _, v := range m.vehicles {
			if v.ClientID == id {
				copied.Vehicles = append(copied.Vehicles, *v)
			}
		}
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

func (m *mockClientStore) List(_ context.Context) ([]models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clients := make([]models.Client, 0, len(m.clients))
	for _, c := range m.clients {
		clients = append(clients, *c)
	}
	return clients, nil
}

func (m *mockClientStore) Create(_ context.Context, client models.Client) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	client.ID = uuid.New()
	client.CreatedAt = time.Now()
	client.UpdatedAt = client.CreatedAt
	m.clients[client.ID] = &client
	copied := client
	return &copied, nil
}

func (m *mockClientStore) ListVehicles(_ context.Context, clientID uuid.UUID) ([]models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var vehicles []models.Vehicle
	for _, v := range m.vehicles {
		if v.ClientID == clientID {
			vehicles = append(vehicles, *v)
		}
	}
	return vehicles, nil
}

func (m *mockClientStore) GetVehicleByVIN(_ context.Context, vin string) (*models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.vehicles {
		if v.VIN == vin {
			copied := *v
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *mockClientStore) CreateVehicle(_ context.Context, vehicle models.Vehicle) (*models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vehicle.ID = uuid.New()
	vehicle.CreatedAt = time.Now()
	m.vehicles[vehicle.ID] = &vehicle
	copied := vehicle
	return &copied, nil
}

type mockPartStore struct {
	mu    sync.Mutex
	parts map[uuid.UUID]*models.Part
}

func newMockPartStore() *mockPartStore {
	return &mockPartStore{parts: make(map[uuid.UUID]*models.Part)}
}

func (m *mockPartStore) List(_ context.Context) ([]models.Part, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	parts := make([]models.Part, 0, len(m.parts))
	for _, p := range m.parts {
		parts = append(parts, *p)
	}
	return parts, nil
}

func (m *mockPartStore) Create(_ context.Context, part models.Part) (*models.Part, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	part.ID = uuid.New()
	part.CreatedAt = time.Now()
	part.UpdatedAt = part.CreatedAt
	m.parts[part.ID] = &part
	copied := part
	return &copied, nil
}

// mockOrderStore mirrors the transactional semantics of the SQL store:
// the order, its lines and the stock decrements commit together or not at
// all, and the conditional decrement refuses to drive stock negative.
type mockOrderStore struct {
	mu     sync.Mutex
	parts  *mockPartStore
	orders map[uuid.UUID]*models.Order
}

func newMockOrderStore(parts *mockPartStore) *mockOrderStore {
	return &mockOrderStore{parts: parts, orders: make(map[uuid.UUID]*models.Order)}
}

func (m *mockOrderStore) Create(_ context.Context, order models.Order, lines []models.OrderLineRequest) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parts.mu.Lock()
	defer m.parts.mu.Unlock()

	// Stage stock changes; commit only if every line fits.
	staged := make(map[uuid.UUID]int)
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	for _, line := range lines {
		part, ok := m.parts.parts[line.PartID]
		if !ok {
			return nil, models.ErrNotFound
		}
		if part.Stock-staged[part.ID] < line.Quantity {
			return nil, &models.InsufficientStockError{PartName: part.Name}
		}
		staged[part.ID] += line.Quantity
		order.Lines = append(order.Lines, models.OrderLine{
			ID:       uuid.New(),
			OrderID:  order.ID,
			PartID:   part.ID,
			Quantity: line.Quantity,
			Price:    part.Price,
			PartName: part.Name,
		})
		order.Total += part.Price * int64(line.Quantity)
	}

	for partID, taken := range staged {
		m.parts.parts[partID].Stock -= taken
	}
	m.orders[order.ID] = &order
	copied := order
	return &copied, nil
}

func (m *mockOrderStore) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

func (m *mockOrderStore) List(_ context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	orders := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, *o)
	}
	return orders, nil
}

func (m *mockOrderStore) ListByCreator(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []models.Order
	for _, o := range m.orders {
		if o.CreatedBy == userID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}
