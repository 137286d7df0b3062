// Package authz holds the role/action decision table. Every route handler
// consults Authorize through the router guard, so the whole access policy
// lives in one place and can be tested without HTTP plumbing.
package authz

import (
	"net/http"

	"github.com/wrenchworks/repair-shop-service/internal/models"
)

// Action tags a routable operation for the decision table.
type Action string

const (
	ActionIndex          Action = "index"
	ActionRegister       Action = "register"
	ActionLogin          Action = "login"
	ActionStaffLogin     Action = "staff_login"
	ActionLogout         Action = "logout"
	ActionProfile        Action = "profile"
	ActionDashboard      Action = "dashboard"
	ActionMyOrders       Action = "my_orders"
	ActionWorkshopOrders Action = "workshop_orders"
	ActionAllOrders      Action = "all_orders"
	ActionAddOrder       Action = "add_order"
	ActionClients        Action = "clients"
	ActionAddClient      Action = "add_client"
	ActionAddVehicle     Action = "add_vehicle"
	ActionWarehouse      Action = "warehouse"
	ActionAddPart        Action = "add_part"
	ActionUsers          Action = "users"
	ActionCreateUser     Action = "create_user"
	ActionReports        Action = "reports"
	ActionOrderFeed      Action = "order_feed"
)

// Decision is the outcome of an authorization check. A denied decision
// always carries a user-facing advisory and either a redirect target (for
// unauthenticated visitors) or a forbidden status.
type Decision struct {
	Allowed  bool
	Status   int
	Redirect string
	Message  string
}

var allow = Decision{Allowed: true}

func denyLogin() Decision {
	return Decision{
		Status:   http.StatusSeeOther,
		Redirect: "/login",
		Message:  "Please log in first.",
	}
}

func denyForbidden() Decision {
	return Decision{
		Status:  http.StatusForbidden,
		Message: "You do not have access to this section.",
	}
}

// public actions are reachable without a session.
var public = map[Action]bool{
	ActionIndex:      true,
	ActionRegister:   true,
	ActionLogin:      true,
	ActionStaffLogin: true,
}

// rolePermissions maps each authenticated role to its allowed actions.
// Actions shared by every authenticated role (index, logout, profile,
// add_order) are listed explicitly so the table stays exhaustive.
var rolePermissions = map[models.UserRole]map[Action]bool{
	models.RoleClient: {
		ActionIndex:    true,
		ActionLogout:   true,
		ActionProfile:  true,
		ActionMyOrders: true,
		ActionAddOrder: true,
	},
	models.RoleMaster: {
		ActionIndex:          true,
		ActionLogout:         true,
		ActionProfile:        true,
		ActionAddOrder:       true,
		ActionDashboard:      true,
		ActionWorkshopOrders: true,
		ActionWarehouse:      true,
		ActionClients:        true,
		ActionAddClient:      true,
		ActionAddVehicle:     true,
		ActionReports:        true,
		ActionOrderFeed:      true,
	},
	models.RoleManager: {
		ActionIndex:      true,
		ActionLogout:     true,
		ActionProfile:    true,
		ActionAddOrder:   true,
		ActionDashboard:  true,
		ActionAllOrders:  true,
		ActionWarehouse:  true,
		ActionAddPart:    true,
		ActionClients:    true,
		ActionAddClient:  true,
		ActionAddVehicle: true,
		ActionReports:    true,
		ActionOrderFeed:  true,
	},
	models.RoleAdmin: {
		ActionIndex:          true,
		ActionLogout:         true,
		ActionProfile:        true,
		ActionAddOrder:       true,
		ActionDashboard:      true,
		ActionWorkshopOrders: true,
		ActionAllOrders:      true,
		ActionWarehouse:      true,
		ActionAddPart:        true,
		ActionClients:        true,
		ActionAddClient:      true,
		ActionAddVehicle:     true,
		ActionUsers:          true,
		ActionCreateUser:     true,
		ActionReports:        true,
		ActionOrderFeed:      true,
	},
}

// Authorize decides whether the given role may perform the action. A nil
// role means no authenticated session. The function is pure: it touches no
// storage and never fails.
func Authorize(role *models.UserRole, action Action) Decision {
	if role == nil {
		if public[action] {
			return allow
		}
		return denyLogin()
	}

	perms, ok := rolePermissions[*role]
	if !ok {
		// Unknown role in the session cookie; treat as unauthenticated.
		return denyLogin()
	}

	if perms[action] {
		return allow
	}
	return denyForbidden()
}

// LoginSurfaceAllows reports whether a credential with the given role may
// authenticate on the staff or client login surface. The two surfaces are
// disjoint: staff credentials are rejected on the client form and client
// credentials on the staff form.
func LoginSurfaceAllows(role models.UserRole, staffSurface bool) bool {
	if staffSurface {
		return role.IsStaff()
	}
	return !role.IsStaff()
}
