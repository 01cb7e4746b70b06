package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Andika-Pratama/be_dashboard_proyek/internal/utils"
)

// RedirectIfAuthenticated mengusir user yang sudah login dari halaman signin.
// Catatan: ini satu-satunya aturan gate di level route — akses tanpa sesi ke
// halaman lain tetap diteruskan apa adanya; API dilindungi SessionFromCookie.
func RedirectIfAuthenticated(secret string, dashboardURL string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(SessionCookieName)
		if tokenStr == "" {
			return c.Next()
		}

		token, err := jwt.ParseWithClaims(tokenStr, &utils.Claims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			// sesi rusak: bersihkan cookie lalu lanjut ke signin
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookieName,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HTTPOnly: true,
				SameSite: "Lax",
			})
			return c.Next()
		}

		return c.Redirect(dashboardURL, fiber.StatusTemporaryRedirect)
	}
}
