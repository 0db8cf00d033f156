package delivery

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDefaultsToUserRole(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/api/auth/register", "", gin.H{
		"email":    "user@demo.com",
		"password": "password123",
		"name":     "Demo User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "User created successfully", body["message"])
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "user@demo.com", user["email"])
	assert.Equal(t, "USER", user["role"])
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.registerUser(t, "user@demo.com", "USER")

	w := ts.do(t, "POST", "/api/auth/register", "", gin.H{
		"email":    "user@demo.com",
		"password": "password123",
		"name":     "Someone Else",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/api/auth/register", "", gin.H{
		"email":    "user@demo.com",
		"password": "password123",
		"name":     "Demo User",
		"role":     "SUPERUSER",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.registerUser(t, "user@demo.com", "USER")

	w := ts.do(t, "POST", "/api/auth/login", "", gin.H{
		"email":    "user@demo.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["token"])

	// Wrong password and unknown email share one generic message.
	w = ts.do(t, "POST", "/api/auth/login", "", gin.H{
		"email":    "user@demo.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")

	w = ts.do(t, "POST", "/api/auth/login", "", gin.H{
		"email":    "nobody@demo.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestProfileAndVerify(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerUser(t, "user@demo.com", "USER")

	w := ts.do(t, "GET", "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "user@demo.com", body["email"])
	assert.NotContains(t, w.Body.String(), "password")

	w = ts.do(t, "GET", "/api/auth/verify", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decodeBody(t, w)["user"].(map[string]any)
	assert.Equal(t, "user@demo.com", user["email"])

	w = ts.do(t, "GET", "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsersNeverLeaksPasswordHash(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerUser(t, "user@demo.com", "USER")

	w := ts.do(t, "GET", "/api/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user@demo.com")
	assert.NotContains(t, w.Body.String(), "password")

	w = ts.do(t, "GET", "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserByIDNotFound(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerUser(t, "user@demo.com", "USER")

	w := ts.do(t, "GET", "/api/users/00000000-0000-0000-0000-000000000000", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
