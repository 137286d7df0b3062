package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wrenchworks/repair-shop-service/internal/authz"
	"github.com/wrenchworks/repair-shop-service/internal/models"
)

var (
	ErrFieldsRequired     = errors.New("all fields are required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidEmail       = errors.New("email address is malformed")
	ErrEmailTaken         = errors.New("email address is already in use")
	ErrInvalidStaffRole   = errors.New("staff role must be manager or master")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Dual login surfaces: a valid credential on the wrong form is
	// rejected with a pointer to the right one.
	ErrStaffSurface  = errors.New("staff must log in through the staff form")
	ErrClientSurface = errors.New("only staff may use the staff login form")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserStore is the credential store behind the auth service.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user models.User) (*models.User, error)
}

// AuthService handles registration, staff creation and the two login
// surfaces.
type AuthService struct {
	users UserStore
}

// NewAuthService creates a new authentication service
func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates a client account from the public registration form.
// Validation short-circuits in a fixed order: required fields, password
// confirmation, email shape, email uniqueness. The role is always forced
// to client; this path can never mint staff.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)

	if fullName == "" || email == "" || phone == "" || req.Password == "" {
		return nil, ErrFieldsRequired
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		FullName:     fullName,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         models.RoleClient,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// CreateStaff creates a manager or master account. Admin gating happens in
// the authz layer; this validates the form and the role whitelist. An
// admin role can never be granted through this path.
func (s *AuthService) CreateStaff(ctx context.Context, req models.StaffRequest) (*models.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)

	if fullName == "" || email == "" || phone == "" || req.Password == "" {
		return nil, ErrFieldsRequired
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if req.Role != models.RoleManager && req.Role != models.RoleMaster {
		return nil, ErrInvalidStaffRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		FullName:     fullName,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         req.Role,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}
	return created, nil
}

// Login authenticates a credential against one of the two login surfaces.
// staffSurface selects the staff form; a credential whose role does not
// match the surface fails even when the password check passes.
func (s *AuthService) Login(ctx context.Context, email, password string, staffSurface bool) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !authz.LoginSurfaceAllows(user.Role, staffSurface) {
		if staffSurface {
			return nil, ErrClientSurface
		}
		return nil, ErrStaffSurface
	}

	return user, nil
}

// ListUsers lists all accounts for the admin user list.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}
