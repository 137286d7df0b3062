// Package session manages the signed session cookie and flash advisories.
// The cookie carries only the authenticated identity (id, display name,
// role); domain state never rides in it.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/wrenchworks/repair-shop-service/internal/models"
)

const (
	sessionCookie = "session"
	flashCookie   = "flash"
)

var ErrNoSession = errors.New("no session")

// Identity is the per-request authenticated identity extracted from the
// session cookie.
type Identity struct {
	UserID   uuid.UUID
	FullName string
	Role     models.UserRole
}

// Claims represents session cookie JWT claims
type Claims struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues, reads and clears session cookies.
type Manager struct {
	secret    []byte
	expiresIn time.Duration
}

// NewManager creates a session manager. expiresIn is in hours.
func NewManager(secret string, expiresIn int) *Manager {
	return &Manager{
		secret:    []byte(secret),
		expiresIn: time.Duration(expiresIn) * time.Hour,
	}
}

// Issue writes a session cookie for the user.
func (m *Manager) Issue(w http.ResponseWriter, user *models.User) error {
	now := time.Now()
	claims := &Claims{
		FullName: user.FullName,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("failed to sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    tokenString,
		Path:     "/",
		Expires:  now.Add(m.expiresIn),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear removes the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Identity extracts the authenticated identity from the request cookie.
// Returns ErrNoSession when the cookie is absent, expired or tampered.
func (m *Manager) Identity(r *http.Request) (*Identity, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, ErrNoSession
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrNoSession
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrNoSession
	}

	return &Identity{
		UserID:   userID,
		FullName: claims.FullName,
		Role:     models.UserRole(claims.Role),
	}, nil
}

// Flash is a one-shot advisory shown on the next rendered page.
type Flash struct {
	Level   string // success, info, warning, danger
	Message string
}

// SetFlash queues an advisory for the next render.
func SetFlash(w http.ResponseWriter, level, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(level + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads and clears the pending advisory, if any.
func PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}

	level, message, ok := strings.Cut(raw, "|")
	if !ok {
		return &Flash{Level: "info", Message: raw}
	}
	return &Flash{Level: level, Message: message}
}
