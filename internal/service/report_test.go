package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenchworks/repair-shop-service/internal/models"
)

type mockStatsStore struct {
	clients, staff, stock, orders int
}

func (m *mockStatsStore) CountClients(context.Context) (int, error)   { return m.clients, nil }
func (m *mockStatsStore) CountStaff(context.Context) (int, error)     { return m.staff, nil }
func (m *mockStatsStore) TotalPartStock(context.Context) (int, error) { return m.stock, nil }
func (m *mockStatsStore) CountOrders(context.Context) (int, error)    { return m.orders, nil }

type mockMailer struct {
	fail bool

	to, subject, body string
	sent              int
}

func (m *mockMailer) Send(to, subject, body string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.to, m.subject, m.body = to, subject, body
	m.sent++
	return nil
}

func reportFixture(t *testing.T, mailer Mailer) (*ReportService, *orderFixture, *models.Order) {
	t.Helper()

	f := newOrderFixture(t)
	padID := f.addPart(t, "Brake Pad", 1500, 10)

	order, err := f.svc.CreateOrder(context.Background(), f.userID, models.OrderRequest{
		ClientID:    f.clientID,
		Description: "front brakes",
		Lines:       []models.OrderLineRequest{{PartID: padID, Quantity: 2}},
	})
	require.NoError(t, err)

	svc := NewReportService(&mockStatsStore{clients: 1, staff: 1, stock: 8, orders: 1}, f.orders, f.clients, mailer)
	return svc, f, order
}

func TestReportService_Summary(t *testing.T) {
	svc := NewReportService(&mockStatsStore{clients: 4, staff: 3, stock: 120, orders: 9}, nil, nil, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Summary{Clients: 4, Staff: 3, TotalStock: 120, Orders: 9}, summary)
}

func TestReportService_BuildWorkReport(t *testing.T) {
	svc, _, order := reportFixture(t, nil)

	body, err := svc.BuildWorkReport(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Contains(t, body, "Work report for order "+order.OrderNumber)
	assert.Contains(t, body, "Client: Carl Client (555-0100)")
	assert.Contains(t, body, "Status: new")
	assert.Contains(t, body, "Description: front brakes")
	assert.Contains(t, body, "2 x Brake Pad @ 1500")
	assert.Contains(t, body, "Total: 3000")
}

func TestReportService_BuildWorkReport_UnknownOrder(t *testing.T) {
	svc, _, _ := reportFixture(t, nil)

	_, err := svc.BuildWorkReport(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReportService_EmailWorkReport(t *testing.T) {
	mailer := &mockMailer{}
	svc, _, order := reportFixture(t, mailer)

	err := svc.EmailWorkReport(context.Background(), order.ID, "boss@x.com")
	require.NoError(t, err)

	assert.Equal(t, 1, mailer.sent)
	assert.Equal(t, "boss@x.com", mailer.to)
	assert.Equal(t, "Work report "+order.OrderNumber, mailer.subject)
	assert.Contains(t, mailer.body, "Total: 3000")
}

func TestReportService_EmailWorkReport_DeliveryFailure(t *testing.T) {
	mailer := &mockMailer{fail: true}
	svc, _, order := reportFixture(t, mailer)

	err := svc.EmailWorkReport(context.Background(), order.ID, "boss@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}
