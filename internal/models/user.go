package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleMaster  UserRole = "master"
	RoleClient  UserRole = "client"
)

// IsStaff reports whether the role belongs to shop personnel.
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleMaster
}

// User is an authenticated account: either a shop employee or a customer
// who registered through the public form.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"full_name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password_hash" json:"-"` // Never expose in JSON
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// RegisterRequest carries the public registration form.
type RegisterRequest struct {
	FullName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// StaffRequest carries the admin-only staff creation form.
type StaffRequest struct {
	FullName string
	Email    string
	Phone    string
	Password string
	Role     UserRole
}
