package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wrenchworks/repair-shop-service/internal/models"
	"github.com/wrenchworks/repair-shop-service/internal/service"
	"github.com/wrenchworks/repair-shop-service/internal/session"
	"github.com/wrenchworks/repair-shop-service/internal/view"
)

// ReportHandler serves the aggregate reports page and emailed work
// reports.
type ReportHandler struct {
	reports   *service.ReportService
	orders    *service.OrderService
	recipient string
	view      *view.Renderer
	log       *zap.Logger
}

// NewReportHandler creates a new report handler. recipient is the office
// mailbox work reports go to.
func NewReportHandler(reports *service.ReportService, orders *service.OrderService, recipient string, v *view.Renderer, log *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, orders: orders, recipient: recipient, view: v, log: log}
}

// Show renders the aggregate counts and the per-order report picker
func (h *ReportHandler) Show(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.Summary(r.Context())
	if err != nil {
		h.log.Error("failed to build summary", zap.Error(err))
		session.SetFlash(w, "danger", "Could not load reports.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		h.log.Error("failed to list orders", zap.Error(err))
		session.SetFlash(w, "danger", "Could not load reports.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.view.Render(w, r, http.StatusOK, "reports.html", map[string]any{
		"Summary": summary,
		"Orders":  orders,
	})
}

// Email builds the work report for the posted order and mails it to the
// office mailbox. The report itself is not lost on delivery failure, but
// delivery is not retried.
func (h *ReportHandler) Email(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		session.SetFlash(w, "danger", "Invalid form submission.")
		http.Redirect(w, r, "/reports", http.StatusSeeOther)
		return
	}

	orderID, err := uuid.Parse(r.PostFormValue("order_id"))
	if err != nil {
		session.SetFlash(w, "warning", "Order not found.")
		http.Redirect(w, r, "/reports", http.StatusSeeOther)
		return
	}

	if err := h.reports.EmailWorkReport(r.Context(), orderID, h.recipient); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			session.SetFlash(w, "warning", "Order not found.")
		} else {
			h.log.Warn("report delivery failed", zap.String("order_id", orderID.String()), zap.Error(err))
			session.SetFlash(w, "warning", "The report could not be delivered.")
		}
		http.Redirect(w, r, "/reports", http.StatusSeeOther)
		return
	}

	session.SetFlash(w, "success", "Work report sent to "+h.recipient+".")
	http.Redirect(w, r, "/reports", http.StatusSeeOther)
}
