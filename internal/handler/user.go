package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/wrenchworks/repair-shop-service/internal/models"
	"github.com/wrenchworks/repair-shop-service/internal/service"
	"github.com/wrenchworks/repair-shop-service/internal/session"
	"github.com/wrenchworks/repair-shop-service/internal/view"
)

// UserHandler serves the admin-only staff management pages.
type UserHandler struct {
	auth *service.AuthService
	view *view.Renderer
	log  *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(auth *service.AuthService, v *view.Renderer, log *zap.Logger) *UserHandler {
	return &UserHandler{auth: auth, view: v, log: log}
}

// List renders all accounts
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		h.log.Error("failed to list users", zap.Error(err))
		session.SetFlash(w, "danger", "Could not load users.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.view.Render(w, r, http.StatusOK, "users.html", map[string]any{"Users": users})
}

// CreateForm renders the staff creation form
func (h *UserHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusOK, "staff_form.html", nil)
}

// Create handles the staff creation form post. Only manager and master
// roles can be granted here; the admin role never is.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.Render(w, r, http.StatusBadRequest, "staff_form.html", advisory("danger", "Invalid form submission."))
		return
	}

	req := models.StaffRequest{
		FullName: r.PostFormValue("full_name"),
		Email:    r.PostFormValue("email"),
		Phone:    r.PostFormValue("phone"),
		Password: r.PostFormValue("password"),
		Role:     models.UserRole(r.PostFormValue("role")),
	}

	created, err := h.auth.CreateStaff(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFieldsRequired),
			errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrEmailTaken),
			errors.Is(err, service.ErrInvalidStaffRole):
			data := advisory("danger", advisoryText(err))
			data["Form"] = req
			h.view.Render(w, r, http.StatusOK, "staff_form.html", data)
		default:
			h.log.Error("failed to create staff", zap.Error(err))
			h.view.Render(w, r, http.StatusInternalServerError, "staff_form.html",
				advisory("danger", "Something went wrong, please try again."))
		}
		return
	}

	session.SetFlash(w, "success", "Staff member "+created.FullName+" created.")
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}
