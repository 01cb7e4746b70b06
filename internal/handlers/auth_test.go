package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andika-Pratama/be_dashboard_proyek/internal/middleware"
)

func postJSON(t *testing.T, path string, body interface{}) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func putJSON(t *testing.T, path string, body interface{}) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookieName {
			return ck
		}
	}
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "andika@example.com")

	// login dulu untuk dapat idToken
	resp, err := env.App.Test(postJSON(t, "/api/auth/login", map[string]string{
		"email":    "andika@example.com",
		"password": "rahasia123",
	}))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])
	idToken := body["data"].(map[string]interface{})["idToken"].(string)
	require.NotEmpty(t, idToken)

	// POST /api/auth/session -> cookie HTTP-only
	resp, err = env.App.Test(postJSON(t, "/api/auth/session", map[string]string{"idToken": idToken}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ck := sessionCookie(resp)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, idToken, ck.Value)

	// GET dengan cookie -> authenticated + user lengkap
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(ck)
	resp, err = env.App.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body = decodeBody(t, resp)
	assert.Equal(t, true, body["authenticated"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "andika@example.com", user["email"])

	// DELETE -> cookie dihapus
	req = httptest.NewRequest(http.MethodDelete, "/api/auth/session", nil)
	req.AddCookie(ck)
	resp, err = env.App.Test(req)
	require.NoError(t, err)

	cleared := sessionCookie(resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	// tanpa cookie -> 401
	resp, err = env.App.Test(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, false, body["authenticated"])
}

func TestCreateSessionRejectsBadToken(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.App.Test(postJSON(t, "/api/auth/session", map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = env.App.Test(postJSON(t, "/api/auth/session", map[string]string{"idToken": "bukan.jwt.valid"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "andika@example.com")

	resp, err := env.App.Test(postJSON(t, "/api/auth/login", map[string]string{
		"email":    "andika@example.com",
		"password": "salah",
	}))
	require.NoError(t, err)
	// selalu 200, FE baca field success
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Email atau password salah", body["message"])
}

func TestLoginRateLimited(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "andika@example.com")

	bad := map[string]string{"email": "andika@example.com", "password": "salah"}
	for i := 0; i < maxLoginAttempts; i++ {
		resp, err := env.App.Test(postJSON(t, "/api/auth/login", bad))
		require.NoError(t, err)
		body := decodeBody(t, resp)
		assert.Equal(t, false, body["success"])
	}

	// percobaan ke-6 ditolak walau password benar
	resp, err := env.App.Test(postJSON(t, "/api/auth/login", map[string]string{
		"email":    "andika@example.com",
		"password": "rahasia123",
	}))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "Terlalu banyak percobaan login")
}

func TestLoginInactiveAccount(t *testing.T) {
	env := newTestEnv(t)
	u, _ := env.seedUser(t, "andika@example.com")
	require.NoError(t, env.DB.Model(u).Update("is_active", false).Error)

	resp, err := env.App.Test(postJSON(t, "/api/auth/login", map[string]string{
		"email":    "andika@example.com",
		"password": "rahasia123",
	}))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Akun dinonaktifkan. Hubungi administrator", body["message"])
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.App.Test(postJSON(t, "/api/auth/register", map[string]string{
		"displayName": "",
		"email":       "bukan-email",
		"password":    "123",
	}))
	require.NoError(t, err)
	// validation error tetap 200 dengan map errors per field
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "displayName")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "andika@example.com")

	resp, err := env.App.Test(postJSON(t, "/api/auth/register", map[string]string{
		"displayName": "Andika",
		"email":       "andika@example.com",
		"password":    "rahasia123",
	}))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.App.Test(httptest.NewRequest(http.MethodGet, "/api/proyek", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
