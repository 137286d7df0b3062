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

// AuthHandler serves registration, both login surfaces, logout and the
// profile page.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *session.Manager
	view     *view.Renderer
	log      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService, sessions *session.Manager, v *view.Renderer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, view: v, log: log}
}

// Index renders the landing page
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusOK, "index.html", nil)
}

// RegisterForm renders the public registration form
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusOK, "register.html", nil)
}

// Register handles the registration form post
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.Render(w, r, http.StatusBadRequest, "register.html", advisory("danger", "Invalid form submission."))
		return
	}

	req := models.RegisterRequest{
		FullName:        r.PostFormValue("full_name"),
		Email:           r.PostFormValue("email"),
		Phone:           r.PostFormValue("phone"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	if _, err := h.auth.Register(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrFieldsRequired),
			errors.Is(err, service.ErrPasswordMismatch),
			errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrEmailTaken):
			data := advisory("danger", advisoryText(err))
			data["Form"] = req
			h.view.Render(w, r, http.StatusOK, "register.html", data)
		default:
			h.log.Error("registration failed", zap.Error(err))
			h.view.Render(w, r, http.StatusInternalServerError, "register.html",
				advisory("danger", "Something went wrong, please try again."))
		}
		return
	}

	session.SetFlash(w, "success", "Registration complete, you can now log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginForm renders the client login surface
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusOK, "login.html", nil)
}

// Login handles the client login surface post
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, false, "login.html")
}

// StaffLoginForm renders the staff login surface
func (h *AuthHandler) StaffLoginForm(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusOK, "staff_login.html", nil)
}

// StaffLogin handles the staff login surface post
func (h *AuthHandler) StaffLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, true, "staff_login.html")
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, staffSurface bool, page string) {
	if err := r.ParseForm(); err != nil {
		h.view.Render(w, r, http.StatusBadRequest, page, advisory("danger", "Invalid form submission."))
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	user, err := h.auth.Login(r.Context(), email, password, staffSurface)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			h.view.Render(w, r, http.StatusOK, page, advisory("danger", advisoryText(err)))
		case errors.Is(err, service.ErrStaffSurface), errors.Is(err, service.ErrClientSurface):
			h.view.Render(w, r, http.StatusOK, page, advisory("warning", advisoryText(err)))
		default:
			h.log.Error("login failed", zap.Error(err))
			h.view.Render(w, r, http.StatusInternalServerError, page,
				advisory("danger", "Something went wrong, please try again."))
		}
		return
	}

	if err := h.sessions.Issue(w, user); err != nil {
		h.log.Error("failed to issue session", zap.Error(err))
		h.view.Render(w, r, http.StatusInternalServerError, page,
			advisory("danger", "Something went wrong, please try again."))
		return
	}

	session.SetFlash(w, "success", "Welcome, "+user.FullName+"!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	session.SetFlash(w, "info", "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Profile renders the profile page for the authenticated identity
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusOK, "profile.html", nil)
}

// Dashboard renders the staff dashboard with the live order feed
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusOK, "dashboard.html", nil)
}
