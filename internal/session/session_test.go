package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenchworks/repair-shop-service/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		FullName: "Mia Master",
		Email:    "mia@x.com",
		Role:     models.RoleMaster,
	}
}

// requestWithCookies carries the cookies a recorder wrote into a fresh request.
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}
	return req
}

func TestManager_IssueAndIdentity(t *testing.T) {
	m := NewManager("test-secret", 24)
	user := testUser()

	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, user))

	identity, err := m.Identity(requestWithCookies(t, rec))
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, "Mia Master", identity.FullName)
	assert.Equal(t, models.RoleMaster, identity.Role)
}

func TestManager_Identity_NoCookie(t *testing.T) {
	m := NewManager("test-secret", 24)

	_, err := m.Identity(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_Identity_TamperedToken(t *testing.T) {
	m := NewManager("test-secret", 24)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, testUser()))

	cookie := rec.Result().Cookies()[0]
	cookie.Value = cookie.Value[:len(cookie.Value)-2] + "xx"

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	_, err := m.Identity(req)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_Identity_WrongSecret(t *testing.T) {
	issuer := NewManager("one-secret", 24)
	reader := NewManager("another-secret", 24)

	rec := httptest.NewRecorder()
	require.NoError(t, issuer.Issue(rec, testUser()))

	_, err := reader.Identity(requestWithCookies(t, rec))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_Clear(t *testing.T) {
	m := NewManager("test-secret", 24)

	rec := httptest.NewRecorder()
	m.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)

	// A request left with only the cleared cookie has no identity.
	_, err := m.Identity(requestWithCookies(t, rec))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFlash_RoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	SetFlash(rec, "success", "Order 20240101-abcd1234 created")

	req := requestWithCookies(t, rec)
	pop := httptest.NewRecorder()
	flash := PopFlash(pop, req)

	require.NotNil(t, flash)
	assert.Equal(t, "success", flash.Level)
	assert.Equal(t, "Order 20240101-abcd1234 created", flash.Message)

	// Popping clears the cookie.
	found := false
	for _, c := range pop.Result().Cookies() {
		if c.Name == "flash" {
			found = true
			assert.Negative(t, c.MaxAge)
		}
	}
	assert.True(t, found)
}

func TestFlash_MessageWithSeparator(t *testing.T) {
	rec := httptest.NewRecorder()
	SetFlash(rec, "warning", "stock | price mismatch")

	flash := PopFlash(httptest.NewRecorder(), requestWithCookies(t, rec))
	require.NotNil(t, flash)
	assert.Equal(t, "warning", flash.Level)
	assert.Equal(t, "stock | price mismatch", flash.Message)
}

func TestFlash_Absent(t *testing.T) {
	flash := PopFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Nil(t, flash)
}

func TestIssue_CookieAttributes(t *testing.T) {
	m := NewManager("test-secret", 24)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, testUser()))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "session", c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/", c.Path)
	assert.True(t, strings.Count(c.Value, ".") == 2, "value is a compact JWT")
}
