package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wrenchworks/repair-shop-service/internal/handler"
	"github.com/wrenchworks/repair-shop-service/internal/models"
	"github.com/wrenchworks/repair-shop-service/internal/service"
	"github.com/wrenchworks/repair-shop-service/internal/session"
	"github.com/wrenchworks/repair-shop-service/internal/view"
	"github.com/wrenchworks/repair-shop-service/internal/websockets"
)

// memStore is an in-memory stand-in for the Postgres repositories, good
// enough to drive whole requests through the real router, guard, handlers
// and templates.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	clients  map[uuid.UUID]*models.Client
	vehicles map[uuid.UUID]*models.Vehicle
	parts    map[uuid.UUID]*models.Part
	orders   map[uuid.UUID]*models.Order
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]*models.User),
		clients:  make(map[uuid.UUID]*models.Client),
		vehicles: make(map[uuid.UUID]*models.Vehicle),
		parts:    make(map[uuid.UUID]*models.Part),
		orders:   make(map[uuid.UUID]*models.Order),
	}
}

type memUsers struct{ s *memStore }

func (m memUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if u, ok := m.s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

func (m memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m memUsers) List(_ context.Context) ([]models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	users := make([]models.User, 0, len(m.s.users))
	for _, u := range m.s.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m memUsers) Create(_ context.Context, user models.User) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.s.users[user.ID] = &user
	copied := user
	return &copied, nil
}

type memClients struct{ s *memStore }

func (m memClients) GetByID(_ context.Context, id uuid.UUID) (*models.Client, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if c, ok := m.s.clients[id]; ok {
		copied := *c
		for _, v := range m.s.vehicles {
			if v.ClientID == id {
				copied.Vehicles = append(copied.Vehicles, *v)
			}
		}
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

func (m memClients) List(_ context.Context) ([]models.Client, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	clients := make([]models.Client, 0, len(m.s.clients))
	for _, c := range m.s.clients {
		clients = append(clients, *c)
	}
	return clients, nil
}

func (m memClients) Create(_ context.Context, client models.Client) (*models.Client, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	client.ID = uuid.New()
	client.CreatedAt = time.Now()
	client.UpdatedAt = client.CreatedAt
	m.s.clients[client.ID] = &client
	copied := client
	return &copied, nil
}

func (m memClients) ListVehicles(_ context.Context, clientID uuid.UUID) ([]models.Vehicle, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var vehicles []models.Vehicle
	for _, v := range m.s.vehicles {
		if v.ClientID == clientID {
			vehicles = append(vehicles, *v)
		}
	}
	return vehicles, nil
}

func (m memClients) GetVehicleByVIN(_ context.Context, vin string) (*models.Vehicle, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, v := range m.s.vehicles {
		if v.VIN == vin {
			copied := *v
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m memClients) CreateVehicle(_ context.Context, vehicle models.Vehicle) (*models.Vehicle, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	vehicle.ID = uuid.New()
	vehicle.CreatedAt = time.Now()
	m.s.vehicles[vehicle.ID] = &vehicle
	copied := vehicle
	return &copied, nil
}

type memParts struct{ s *memStore }

func (m memParts) List(_ context.Context) ([]models.Part, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	parts := make([]models.Part, 0, len(m.s.parts))
	for _, p := range m.s.parts {
		parts = append(parts, *p)
	}
	return parts, nil
}

func (m memParts) Create(_ context.Context, part models.Part) (*models.Part, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	part.ID = uuid.New()
	part.CreatedAt = time.Now()
	part.UpdatedAt = part.CreatedAt
	m.s.parts[part.ID] = &part
	copied := part
	return &copied, nil
}

type memOrders struct{ s *memStore }

func (m memOrders) Create(_ context.Context, order models.Order, lines []models.OrderLineRequest) (*models.Order, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	staged := make(map[uuid.UUID]int)
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	for _, line := range lines {
		part, ok := m.s.parts[line.PartID]
		if !ok {
			return nil, models.ErrNotFound
		}
		if part.Stock-staged[part.ID] < line.Quantity {
			return nil, &models.InsufficientStockError{PartName: part.Name}
		}
		staged[part.ID] += line.Quantity
		order.Lines = append(order.Lines, models.OrderLine{
			ID: uuid.New(), OrderID: order.ID, PartID: part.ID,
			Quantity: line.Quantity, Price: part.Price, PartName: part.Name,
		})
		order.Total += part.Price * int64(line.Quantity)
	}
	for partID, taken := range staged {
		m.s.parts[partID].Stock -= taken
	}
	m.s.orders[order.ID] = &order
	copied := order
	return &copied, nil
}

func (m memOrders) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if o, ok := m.s.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

func (m memOrders) List(_ context.Context) ([]models.Order, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	orders := make([]models.Order, 0, len(m.s.orders))
	for _, o := range m.s.orders {
		orders = append(orders, *o)
	}
	return orders, nil
}

func (m memOrders) ListByCreator(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var orders []models.Order
	for _, o := range m.s.orders {
		if o.CreatedBy == userID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

type memStats struct{ s *memStore }

func (m memStats) CountClients(context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return len(m.s.clients), nil
}

func (m memStats) CountStaff(context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	n := 0
	for _, u := range m.s.users {
		if u.Role != models.RoleClient {
			n++
		}
	}
	return n, nil
}

func (m memStats) TotalPartStock(context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	total := 0
	for _, p := range m.s.parts {
		total += p.Stock
	}
	return total, nil
}

func (m memStats) CountOrders(context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return len(m.s.orders), nil
}

type app struct {
	router *Router
	store  *memStore
}

func newTestApp(t *testing.T) *app {
	t.Helper()

	log := zap.NewNop()
	store := newMemStore()

	v, err := view.New("../../web/templates", log)
	require.NoError(t, err)

	sessions := session.NewManager("test-secret", 1)
	hub := websockets.NewHub(log)
	go hub.Run()

	authSvc := service.NewAuthService(memUsers{store})
	clientSvc := service.NewClientService(memClients{store})
	partSvc := service.NewPartService(memParts{store})
	orderSvc := service.NewOrderService(memOrders{store}, memClients{store}, memUsers{store}, hub)
	reportSvc := service.NewReportService(memStats{store}, memOrders{store}, memClients{store}, nil)

	handlers := Handlers{
		Auth:    handler.NewAuthHandler(authSvc, sessions, v, log),
		Client:  handler.NewClientHandler(clientSvc, v, log),
		Part:    handler.NewPartHandler(partSvc, v, log),
		Order:   handler.NewOrderHandler(orderSvc, clientSvc, partSvc, v, log),
		User:    handler.NewUserHandler(authSvc, v, log),
		Report:  handler.NewReportHandler(reportSvc, orderSvc, "reports@x.com", v, log),
		OrderWS: handler.NewWSHandler(hub, log),
	}

	return &app{router: New(handlers, sessions, v, log), store: store}
}

func (a *app) do(t *testing.T, req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *app) postForm(t *testing.T, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(t, req, cookies)
}

// sessionCookies keeps the live cookies from a response, dropping deletions.
func sessionCookies(rec *httptest.ResponseRecorder) []*http.Cookie {
	var out []*http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 && c.Value != "" {
			out = append(out, c)
		}
	}
	return out
}

// login registers nothing; it drives the appropriate login form and
// returns the session cookies for follow-up requests.
func (a *app) login(t *testing.T, email, password string, staff bool) []*http.Cookie {
	t.Helper()
	path := "/login"
	if staff {
		path = "/staff/login"
	}
	rec := a.postForm(t, path, url.Values{"email": {email}, "password": {password}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code, "login should redirect: %s", rec.Body.String())
	cookies := sessionCookies(rec)
	require.NotEmpty(t, cookies)
	return cookies
}

func (a *app) seedStaff(t *testing.T, email string, role models.UserRole) {
	t.Helper()
	svc := service.NewAuthService(memUsers{a.store})
	_, err := svc.CreateStaff(context.Background(), models.StaffRequest{
		FullName: "Staff Member",
		Email:    email,
		Phone:    "555-0199",
		Password: "secret1",
		Role:     role,
	})
	require.NoError(t, err)
}

func TestRegisterThenLogin(t *testing.T) {
	a := newTestApp(t)

	rec := a.postForm(t, "/register", url.Values{
		"full_name":        {"Alice Smith"},
		"email":            {"alice@x.com"},
		"phone":            {"555-0101"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	cookies := a.login(t, "alice@x.com", "secret1", false)

	rec = a.do(t, httptest.NewRequest(http.MethodGet, "/profile", nil), cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alice Smith")
}

func TestRegister_PasswordMismatchRerendersForm(t *testing.T) {
	a := newTestApp(t)

	rec := a.postForm(t, "/register", url.Values{
		"full_name":        {"Alice Smith"},
		"email":            {"alice@x.com"},
		"phone":            {"555-0101"},
		"password":         {"secret1"},
		"confirm_password": {"other"},
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Passwords do not match")
	// Entered values survive the round trip.
	assert.Contains(t, rec.Body.String(), "alice@x.com")
}

func TestAnonymousRedirectedToLogin(t *testing.T) {
	a := newTestApp(t)

	for _, path := range []string{"/profile", "/orders/my", "/warehouse", "/users", "/dashboard"} {
		rec := a.do(t, httptest.NewRequest(http.MethodGet, path, nil), nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestMasterReachesWorkshopButNotUsers(t *testing.T) {
	a := newTestApp(t)
	a.seedStaff(t, "mia@x.com", models.RoleMaster)
	cookies := a.login(t, "mia@x.com", "secret1", true)

	rec := a.do(t, httptest.NewRequest(http.MethodGet, "/orders/workshop", nil), cookies)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, httptest.NewRequest(http.MethodGet, "/users", nil), cookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, httptest.NewRequest(http.MethodGet, "/warehouse/add", nil), cookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestClientSeesOwnOrdersOnly(t *testing.T) {
	a := newTestApp(t)

	rec := a.postForm(t, "/register", url.Values{
		"full_name":        {"Alice Smith"},
		"email":            {"alice@x.com"},
		"phone":            {"555-0101"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := a.login(t, "alice@x.com", "secret1", false)

	rec = a.do(t, httptest.NewRequest(http.MethodGet, "/orders/my", nil), cookies)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, path := range []string{"/orders/workshop", "/orders/all", "/warehouse", "/clients", "/users", "/reports"} {
		rec = a.do(t, httptest.NewRequest(http.MethodGet, path, nil), cookies)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestStaffLoginSurfaceSeparation(t *testing.T) {
	a := newTestApp(t)
	a.seedStaff(t, "mia@x.com", models.RoleMaster)

	// Staff credential on the client form is rejected with advice.
	rec := a.postForm(t, "/login", url.Values{
		"email": {"mia@x.com"}, "password": {"secret1"},
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "staff")
	assert.Empty(t, sessionCookies(rec), "no session issued")

	// Same credential on the staff form succeeds.
	cookies := a.login(t, "mia@x.com", "secret1", true)
	rec = a.do(t, httptest.NewRequest(http.MethodGet, "/dashboard", nil), cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOrderFlowThroughForms(t *testing.T) {
	a := newTestApp(t)
	a.seedStaff(t, "mia@x.com", models.RoleMaster)
	cookies := a.login(t, "mia@x.com", "secret1", true)

	rec := a.postForm(t, "/clients/add", url.Values{
		"full_name": {"Carl Client"}, "phone": {"555-0100"},
	}, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	var clientID, partID uuid.UUID
	a.store.mu.Lock()
	for id := range a.store.clients {
		clientID = id
	}
	a.store.mu.Unlock()

	part, err := memParts{a.store}.Create(context.Background(), models.Part{
		Name: "Brake Pad", Price: 1500, Stock: 3,
	})
	require.NoError(t, err)
	partID = part.ID

	rec = a.postForm(t, "/orders/add", url.Values{
		"client_id":              {clientID.String()},
		"description":            {"front brakes"},
		"part":                   {partID.String()},
		"qty_" + partID.String(): {"2"},
	}, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	a.store.mu.Lock()
	require.Len(t, a.store.orders, 1)
	assert.Equal(t, 1, a.store.parts[partID].Stock)
	a.store.mu.Unlock()

	// A second order for more than what is left re-presents the form.
	rec = a.postForm(t, "/orders/add", url.Values{
		"client_id":              {clientID.String()},
		"part":                   {partID.String()},
		"qty_" + partID.String(): {"5"},
	}, cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not enough Brake Pad in stock")

	a.store.mu.Lock()
	assert.Len(t, a.store.orders, 1)
	assert.Equal(t, 1, a.store.parts[partID].Stock)
	a.store.mu.Unlock()
}

func TestLogoutClearsSession(t *testing.T) {
	a := newTestApp(t)
	a.seedStaff(t, "mia@x.com", models.RoleMaster)
	cookies := a.login(t, "mia@x.com", "secret1", true)

	rec := a.do(t, httptest.NewRequest(http.MethodGet, "/logout", nil), cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	// The response deletes the session cookie; without it the same page
	// is out of reach again.
	rec = a.do(t, httptest.NewRequest(http.MethodGet, "/dashboard", nil), nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
