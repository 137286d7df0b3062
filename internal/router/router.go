package router

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/wrenchworks/repair-shop-service/internal/authz"
	"github.com/wrenchworks/repair-shop-service/internal/handler"
	"github.com/wrenchworks/repair-shop-service/internal/middleware"
	"github.com/wrenchworks/repair-shop-service/internal/models"
	"github.com/wrenchworks/repair-shop-service/internal/session"
	"github.com/wrenchworks/repair-shop-service/internal/view"
)

// Handlers bundles the page handlers the router dispatches to.
type Handlers struct {
	Auth    *handler.AuthHandler
	Client  *handler.ClientHandler
	Part    *handler.PartHandler
	Order   *handler.OrderHandler
	User    *handler.UserHandler
	Report  *handler.ReportHandler
	OrderWS *handler.WSHandler
}

// Router handles HTTP routing
type Router struct {
	mux      *http.ServeMux
	handlers Handlers
	sessions *session.Manager
	view     *view.Renderer
	log      *zap.Logger

	chain http.Handler
}

// New creates a new router
func New(handlers Handlers, sessions *session.Manager, v *view.Renderer, log *zap.Logger) *Router {
	r := &Router{
		mux:      http.NewServeMux(),
		handlers: handlers,
		sessions: sessions,
		view:     v,
		log:      log,
	}

	r.setupRoutes()

	r.chain = middleware.Logger(log)(middleware.Session(sessions)(r.mux))

	return r
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.chain.ServeHTTP(w, req)
}

// setupRoutes sets up the routes for the router. Every route is wrapped in
// a guard consulting the authz decision table for its action tag.
func (r *Router) setupRoutes() {
	h := r.handlers

	r.mux.Handle("GET /{$}", r.guard(authz.ActionIndex, h.Auth.Index))

	r.mux.Handle("GET /register", r.guard(authz.ActionRegister, h.Auth.RegisterForm))
	r.mux.Handle("POST /register", r.guard(authz.ActionRegister, h.Auth.Register))
	r.mux.Handle("GET /login", r.guard(authz.ActionLogin, h.Auth.LoginForm))
	r.mux.Handle("POST /login", r.guard(authz.ActionLogin, h.Auth.Login))
	r.mux.Handle("GET /staff/login", r.guard(authz.ActionStaffLogin, h.Auth.StaffLoginForm))
	r.mux.Handle("POST /staff/login", r.guard(authz.ActionStaffLogin, h.Auth.StaffLogin))
	r.mux.Handle("GET /logout", r.guard(authz.ActionLogout, h.Auth.Logout))
	r.mux.Handle("GET /profile", r.guard(authz.ActionProfile, h.Auth.Profile))
	r.mux.Handle("GET /dashboard", r.guard(authz.ActionDashboard, h.Auth.Dashboard))

	r.mux.Handle("GET /clients", r.guard(authz.ActionClients, h.Client.List))
	r.mux.Handle("GET /clients/add", r.guard(authz.ActionAddClient, h.Client.AddForm))
	r.mux.Handle("POST /clients/add", r.guard(authz.ActionAddClient, h.Client.Add))
	r.mux.Handle("GET /clients/{id}/vehicles/add", r.guard(authz.ActionAddVehicle, h.Client.AddVehicleForm))
	r.mux.Handle("POST /clients/{id}/vehicles/add", r.guard(authz.ActionAddVehicle, h.Client.AddVehicle))

	r.mux.Handle("GET /warehouse", r.guard(authz.ActionWarehouse, h.Part.List))
	r.mux.Handle("GET /warehouse/add", r.guard(authz.ActionAddPart, h.Part.AddForm))
	r.mux.Handle("POST /warehouse/add", r.guard(authz.ActionAddPart, h.Part.Add))

	r.mux.Handle("GET /orders/add", r.guard(authz.ActionAddOrder, h.Order.AddForm))
	r.mux.Handle("POST /orders/add", r.guard(authz.ActionAddOrder, h.Order.Add))
	r.mux.Handle("GET /orders/my", r.guard(authz.ActionMyOrders, h.Order.My))
	r.mux.Handle("GET /orders/workshop", r.guard(authz.ActionWorkshopOrders, h.Order.Workshop))
	r.mux.Handle("GET /orders/all", r.guard(authz.ActionAllOrders, h.Order.All))

	r.mux.Handle("GET /users", r.guard(authz.ActionUsers, h.User.List))
	r.mux.Handle("GET /users/create", r.guard(authz.ActionCreateUser, h.User.CreateForm))
	r.mux.Handle("POST /users/create", r.guard(authz.ActionCreateUser, h.User.Create))

	r.mux.Handle("GET /reports", r.guard(authz.ActionReports, h.Report.Show))
	r.mux.Handle("POST /reports/email", r.guard(authz.ActionReports, h.Report.Email))

	r.mux.Handle("GET /ws/orders", r.guard(authz.ActionOrderFeed, h.OrderWS.OrderFeed))
}

// guard wraps a handler behind the authz decision for its action. Denied
// anonymous requests are redirected to login; denied authenticated ones
// get an explicit forbidden page, both with an advisory.
func (r *Router) guard(action authz.Action, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var role *models.UserRole
		if identity, ok := middleware.GetIdentity(req.Context()); ok {
			role = &identity.Role
		}

		decision := authz.Authorize(role, action)
		if decision.Allowed {
			next(w, req)
			return
		}

		if decision.Redirect != "" {
			session.SetFlash(w, "warning", decision.Message)
			http.Redirect(w, req, decision.Redirect, decision.Status)
			return
		}

		r.view.Render(w, req, decision.Status, "forbidden.html", map[string]any{
			"Message": decision.Message,
		})
	})
}
