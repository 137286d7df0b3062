package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wrenchworks/repair-shop-service/internal/middleware"
	"github.com/wrenchworks/repair-shop-service/internal/models"
	"github.com/wrenchworks/repair-shop-service/internal/service"
	"github.com/wrenchworks/repair-shop-service/internal/session"
	"github.com/wrenchworks/repair-shop-service/internal/view"
)

// OrderHandler serves order creation and the role-filtered order views.
type OrderHandler struct {
	orders  *service.OrderService
	clients *service.ClientService
	parts   *service.PartService
	view    *view.Renderer
	log     *zap.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *service.OrderService, clients *service.ClientService, parts *service.PartService, v *view.Renderer, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, clients: clients, parts: parts, view: v, log: log}
}

// AddForm renders the order form with the client and part pickers
func (h *OrderHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	data, ok := h.formData(w, r)
	if !ok {
		return
	}
	h.view.Render(w, r, http.StatusOK, "order_form.html", data)
}

// Add handles the order form post. Line items arrive as part checkboxes
// named "part" with per-part quantity fields named "qty_<part id>".
func (h *OrderHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.rerender(w, r, "danger", "Invalid form submission.")
		return
	}

	clientID, err := uuid.Parse(r.PostFormValue("client_id"))
	if err != nil {
		h.rerender(w, r, "danger", "Pick a client for the order.")
		return
	}

	req := models.OrderRequest{
		ClientID:    clientID,
		Description: r.PostFormValue("description"),
	}
	for _, partValue := range r.PostForm["part"] {
		partID, err := uuid.Parse(partValue)
		if err != nil {
			h.rerender(w, r, "danger", "Unknown part selected.")
			return
		}
		quantity := 1
		if raw := r.PostFormValue("qty_" + partValue); raw != "" {
			quantity, err = strconv.Atoi(raw)
			if err != nil {
				h.rerender(w, r, "danger", "Part quantity must be a number.")
				return
			}
		}
		req.Lines = append(req.Lines, models.OrderLineRequest{PartID: partID, Quantity: quantity})
	}

	order, err := h.orders.CreateOrder(r.Context(), identity.UserID, req)
	if err != nil {
		var insufficient *models.InsufficientStockError
		switch {
		case errors.As(err, &insufficient):
			h.rerender(w, r, "warning", "Not enough "+insufficient.PartName+" in stock.")
		case errors.Is(err, service.ErrNoParts), errors.Is(err, service.ErrBadQuantity):
			h.rerender(w, r, "danger", advisoryText(err))
		case errors.Is(err, service.ErrClientNotFound):
			h.rerender(w, r, "danger", "Client not found.")
		case errors.Is(err, service.ErrUserNotFound):
			session.SetFlash(w, "warning", "Please log in again.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		case errors.Is(err, models.ErrNotFound):
			h.rerender(w, r, "danger", "One of the selected parts no longer exists.")
		default:
			h.log.Error("failed to create order", zap.Error(err))
			h.rerender(w, r, "danger", "Something went wrong, please try again.")
		}
		return
	}

	session.SetFlash(w, "success", "Order "+order.OrderNumber+" created.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// My renders orders filed by the authenticated client
func (h *OrderHandler) My(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	orders, err := h.orders.ListMyOrders(r.Context(), identity.UserID)
	if err != nil {
		h.log.Error("failed to list orders", zap.Error(err))
		session.SetFlash(w, "danger", "Could not load orders.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.view.Render(w, r, http.StatusOK, "orders.html", map[string]any{
		"Title":  "My orders",
		"Orders": orders,
	})
}

// Workshop renders the full order list for masters
func (h *OrderHandler) Workshop(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "Workshop orders")
}

// All renders the full order list for managers
func (h *OrderHandler) All(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "All orders")
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request, title string) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		h.log.Error("failed to list orders", zap.Error(err))
		session.SetFlash(w, "danger", "Could not load orders.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.view.Render(w, r, http.StatusOK, "orders.html", map[string]any{
		"Title":  title,
		"Orders": orders,
	})
}

// formData loads the client and part pickers for the order form.
func (h *OrderHandler) formData(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	clients, err := h.clients.ListClients(r.Context())
	if err != nil {
		h.log.Error("failed to list clients", zap.Error(err))
		session.SetFlash(w, "danger", "Could not load the order form.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	parts, err := h.parts.ListParts(r.Context())
	if err != nil {
		h.log.Error("failed to list parts", zap.Error(err))
		session.SetFlash(w, "danger", "Could not load the order form.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}

	return map[string]any{"Clients": clients, "Parts": parts}, true
}

// rerender shows the order form again with an advisory after a rejected
// submission. Nothing has been persisted at this point.
func (h *OrderHandler) rerender(w http.ResponseWriter, r *http.Request, level, message string) {
	data, ok := h.formData(w, r)
	if !ok {
		return
	}
	data["Flash"] = &session.Flash{Level: level, Message: message}
	h.view.Render(w, r, http.StatusOK, "order_form.html", data)
}
