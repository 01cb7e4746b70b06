package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andika-Pratama/be_dashboard_proyek/internal/utils"
)

const testSecret = "test-secret"

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", SessionFromCookie(testSecret), AttachSessionLocals(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": c.Locals("userId")})
	})
	app.Get("/signin", RedirectIfAuthenticated(testSecret, "/dashboard"), func(c *fiber.Ctx) error {
		return c.SendString("signin page")
	})
	return app
}

func TestSessionFromCookieRejectsMissingCookie(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionFromCookieRejectsBadToken(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "rusak.token.nih"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionFromCookieAcceptsValidToken(t *testing.T) {
	app := newApp()

	token, err := utils.SignSessionToken(testSecret, "uid-123", "user", 5)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRedirectIfAuthenticated(t *testing.T) {
	app := newApp()

	// tanpa sesi: halaman signin tampil
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/signin", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// dengan sesi valid: ditendang ke dashboard
	token, err := utils.SignSessionToken(testSecret, "uid-123", "user", 5)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/signin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	// sesi rusak: cookie dibersihkan, tetap di signin
	req = httptest.NewRequest(http.MethodGet, "/signin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "rusak"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
