package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wrenchworks/repair-shop-service/internal/models"
)

var (
	ErrNoParts        = errors.New("order needs at least one part")
	ErrBadQuantity    = errors.New("part quantity must be at least 1")
	ErrClientNotFound = errors.New("client not found")
	ErrUserNotFound   = errors.New("user not found")
)

// OrderStore persists orders. Create must be atomic: the order row, its
// lines and the matching stock decrements land together or not at all.
type OrderStore interface {
	Create(ctx context.Context, order models.Order, lines []models.OrderLineRequest) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

// ClientStore is the subset of client data access the order service needs.
type ClientStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
}

// OrderNotifier is told about committed orders. Delivery is best effort;
// a notifier never fails order creation.
type OrderNotifier interface {
	OrderCreated(order *models.Order)
}

// OrderService is the fulfillment engine: it validates an order request
// and hands the atomic create to the store.
type OrderService struct {
	orders   OrderStore
	clients  ClientStore
	users    UserStore
	notifier OrderNotifier
}

// NewOrderService creates a new order service. notifier may be nil.
func NewOrderService(orders OrderStore, clients ClientStore, users UserStore, notifier OrderNotifier) *OrderService {
	return &OrderService{orders: orders, clients: clients, users: users, notifier: notifier}
}

// CreateOrder files a service order for a client. Preconditions (existing
// client and creating user, at least one line, sane quantities) are checked
// before any mutation; the store then applies the order, its lines and the
// stock decrements as one unit. Insufficient stock for any line surfaces as
// *models.InsufficientStockError with nothing persisted.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req models.OrderRequest) (*models.Order, error) {
	if len(req.Lines) == 0 {
		return nil, ErrNoParts
	}

	lines := make([]models.OrderLineRequest, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.Quantity < 0 {
			return nil, ErrBadQuantity
		}
		if line.Quantity == 0 {
			line.Quantity = 1
		}
		lines = append(lines, line)
	}

	if _, err := s.clients.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to check client: %w", err)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to check user: %w", err)
	}

	order := models.Order{
		OrderNumber: time.Now().Format("20060102-") + uuid.New().String()[0:8],
		ClientID:    req.ClientID,
		CreatedBy:   userID,
		Status:      models.OrderStatusNew,
		Description: req.Description,
	}

	created, err := s.orders.Create(ctx, order, lines)
	if err != nil {
		var insufficient *models.InsufficientStockError
		if errors.As(err, &insufficient) || errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if s.notifier != nil {
		s.notifier.OrderCreated(created)
	}

	return created, nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListOrders lists all orders, for the manager and workshop views.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.List(ctx)
}

// ListMyOrders lists orders filed by the given user.
func (s *OrderService) ListMyOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.orders.ListByCreator(ctx, userID)
}
