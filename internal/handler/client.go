package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wrenchworks/repair-shop-service/internal/models"
	"github.com/wrenchworks/repair-shop-service/internal/service"
	"github.com/wrenchworks/repair-shop-service/internal/session"
	"github.com/wrenchworks/repair-shop-service/internal/view"
)

// ClientHandler serves the client list and the client/vehicle forms.
type ClientHandler struct {
	clients *service.ClientService
	view    *view.Renderer
	log     *zap.Logger
}

// NewClientHandler creates a new client handler
func NewClientHandler(clients *service.ClientService, v *view.Renderer, log *zap.Logger) *ClientHandler {
	return &ClientHandler{clients: clients, view: v, log: log}
}

// List renders the client list
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.ListClients(r.Context())
	if err != nil {
		h.log.Error("failed to list clients", zap.Error(err))
		session.SetFlash(w, "danger", "Could not load clients.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.view.Render(w, r, http.StatusOK, "clients.html", map[string]any{"Clients": clients})
}

// AddForm renders the client creation form
func (h *ClientHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusOK, "client_form.html", nil)
}

// Add handles the client creation form post
func (h *ClientHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.Render(w, r, http.StatusBadRequest, "client_form.html", advisory("danger", "Invalid form submission."))
		return
	}

	req := models.ClientRequest{
		FullName: r.PostFormValue("full_name"),
		Phone:    r.PostFormValue("phone"),
		Email:    r.PostFormValue("email"),
		Address:  r.PostFormValue("address"),
	}

	if _, err := h.clients.CreateClient(r.Context(), req); err != nil {
		if errors.Is(err, service.ErrClientFieldsRequired) {
			data := advisory("danger", advisoryText(err))
			data["Form"] = req
			h.view.Render(w, r, http.StatusOK, "client_form.html", data)
			return
		}
		h.log.Error("failed to create client", zap.Error(err))
		h.view.Render(w, r, http.StatusInternalServerError, "client_form.html",
			advisory("danger", "Something went wrong, please try again."))
		return
	}

	session.SetFlash(w, "success", "Client added.")
	http.Redirect(w, r, "/clients", http.StatusSeeOther)
}

// AddVehicleForm renders the vehicle registration form for a client
func (h *ClientHandler) AddVehicleForm(w http.ResponseWriter, r *http.Request) {
	client, ok := h.pathClient(w, r)
	if !ok {
		return
	}
	h.view.Render(w, r, http.StatusOK, "vehicle_form.html", map[string]any{"Client": client})
}

// AddVehicle handles the vehicle registration form post
func (h *ClientHandler) AddVehicle(w http.ResponseWriter, r *http.Request) {
	client, ok := h.pathClient(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.view.Render(w, r, http.StatusBadRequest, "vehicle_form.html",
			withClient(client, advisory("danger", "Invalid form submission.")))
		return
	}

	year, _ := strconv.Atoi(r.PostFormValue("year"))
	req := models.VehicleRequest{
		ClientID: client.ID,
		Make:     r.PostFormValue("make"),
		Model:    r.PostFormValue("model"),
		Year:     year,
		VIN:      r.PostFormValue("vin"),
	}

	if _, err := h.clients.AddVehicle(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrVehicleFieldsRequired),
			errors.Is(err, service.ErrBadYear),
			errors.Is(err, service.ErrVINTaken):
			data := withClient(client, advisory("danger", advisoryText(err)))
			data["Form"] = req
			h.view.Render(w, r, http.StatusOK, "vehicle_form.html", data)
		case errors.Is(err, service.ErrClientNotFound):
			session.SetFlash(w, "warning", "Client not found.")
			http.Redirect(w, r, "/clients", http.StatusSeeOther)
		default:
			h.log.Error("failed to add vehicle", zap.Error(err))
			h.view.Render(w, r, http.StatusInternalServerError, "vehicle_form.html",
				withClient(client, advisory("danger", "Something went wrong, please try again.")))
		}
		return
	}

	session.SetFlash(w, "success", "Vehicle registered.")
	http.Redirect(w, r, "/clients", http.StatusSeeOther)
}

// pathClient resolves the {id} path segment to a client, redirecting with
// an advisory when it is missing or malformed.
func (h *ClientHandler) pathClient(w http.ResponseWriter, r *http.Request) (*models.Client, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		session.SetFlash(w, "warning", "Client not found.")
		http.Redirect(w, r, "/clients", http.StatusSeeOther)
		return nil, false
	}

	client, err := h.clients.GetClient(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			session.SetFlash(w, "warning", "Client not found.")
		} else {
			h.log.Error("failed to get client", zap.Error(err))
			session.SetFlash(w, "danger", "Could not load client.")
		}
		http.Redirect(w, r, "/clients", http.StatusSeeOther)
		return nil, false
	}

	return client, true
}

func withClient(client *models.Client, data map[string]any) map[string]any {
	data["Client"] = client
	return data
}
