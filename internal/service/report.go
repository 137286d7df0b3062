package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// StatsStore runs the aggregate queries behind the reports page.
type StatsStore interface {
	CountClients(ctx context.Context) (int, error)
	CountStaff(ctx context.Context) (int, error)
	TotalPartStock(ctx context.Context) (int, error)
	CountOrders(ctx context.Context) (int, error)
}

// Mailer delivers a generated report. Failure is advisory: the report text
// is already built, delivery is not retried.
type Mailer interface {
	Send(to, subject, body string) error
}

// Summary holds the aggregate counts shown on the reports page.
type Summary struct {
	Clients    int
	Staff      int
	TotalStock int
	Orders     int
}

// ReportService builds aggregate summaries and per-order work reports.
type ReportService struct {
	stats   StatsStore
	orders  OrderStore
	clients ClientStore
	mailer  Mailer
}

// NewReportService creates a new report service. mailer may be nil when no
// SMTP collaborator is configured.
func NewReportService(stats StatsStore, orders OrderStore, clients ClientStore, mailer Mailer) *ReportService {
	return &ReportService{stats: stats, orders: orders, clients: clients, mailer: mailer}
}

// Summary aggregates the counts for the reports page.
func (s *ReportService) Summary(ctx context.Context) (*Summary, error) {
	clients, err := s.stats.CountClients(ctx)
	if err != nil {
		return nil, err
	}
	staff, err := s.stats.CountStaff(ctx)
	if err != nil {
		return nil, err
	}
	stock, err := s.stats.TotalPartStock(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.stats.CountOrders(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{Clients: clients, Staff: staff, TotalStock: stock, Orders: orders}, nil
}

// BuildWorkReport renders the plain-text work report for an order.
func (s *ReportService) BuildWorkReport(ctx context.Context, orderID uuid.UUID) (string, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	client, err := s.clients.GetByID(ctx, order.ClientID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Work report for order %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Client: %s (%s)\n", client.FullName, client.Phone)
	fmt.Fprintf(&b, "Status: %s\n", order.Status)
	fmt.Fprintf(&b, "Filed: %s\n\n", order.CreatedAt.Format("2006-01-02 15:04"))
	if order.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n\n", order.Description)
	}
	b.WriteString("Parts:\n")
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "  %d x %s @ %d\n", line.Quantity, line.PartName, line.Price)
	}
	fmt.Fprintf(&b, "\nTotal: %d\n", order.Total)

	return b.String(), nil
}

// EmailWorkReport builds the work report for an order and hands it to the
// mail collaborator.
func (s *ReportService) EmailWorkReport(ctx context.Context, orderID uuid.UUID, recipient string) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	body, err := s.BuildWorkReport(ctx, orderID)
	if err != nil {
		return err
	}

	if s.mailer == nil {
		return fmt.Errorf("no mailer configured")
	}
	if err := s.mailer.Send(recipient, "Work report "+order.OrderNumber, body); err != nil {
		return fmt.Errorf("failed to deliver report: %w", err)
	}
	return nil
}
