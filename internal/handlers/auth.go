package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Andika-Pratama/be_dashboard_proyek/internal/middleware"
	"github.com/Andika-Pratama/be_dashboard_proyek/internal/models"
	"github.com/Andika-Pratama/be_dashboard_proyek/internal/utils"
)

const (
	maxLoginAttempts  = 5
	loginAttemptsTTL  = 15 * time.Minute
	loginAttemptsPref = "login_attempts:"
)

type AuthHandler struct {
	DB          *gorm.DB
	RDB         *redis.Client
	JWTSecret   string
	ExpiresDays int
}

type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func validationFail(c *fiber.Ctx, errs FieldErrors) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": false,
		"message": "Validation error",
		"errors":  errs,
	})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   h.ExpiresDays * 24 * 60 * 60,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
	})
}

type RegisterReq struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// Register membuat akun dashboard. Role selalu "user" — tidak ada role lain.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	name := strings.TrimSpace(req.DisplayName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errors := FieldErrors{}
	if name == "" {
		errors.Add("displayName", "Nama wajib diisi")
	}
	if email == "" {
		errors.Add("email", "Email wajib diisi")
	} else if !strings.Contains(email, "@") {
		errors.Add("email", "Format email tidak valid")
	}
	if password == "" {
		errors.Add("password", "Password wajib diisi")
	} else if len(password) < 6 {
		errors.Add("password", "Password minimal 6 karakter")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	var existing models.User
	if err := h.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		errs := FieldErrors{}
		errs.Add("email", "Email sudah terdaftar")
		return validationFail(c, errs)
	} else if err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Terjadi kesalahan server",
		})
	}

	pw, err := utils.HashPassword(password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal memproses password",
		})
	}

	u := models.User{
		DisplayName: name,
		Email:       email,
		Password:    pw,
		Role:        models.RoleUser,
		IsActive:    true,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Gagal register",
		})
	}

	token, err := utils.SignSessionToken(h.JWTSecret, u.UID.String(), string(u.Role), h.ExpiresDays)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal membuat token",
		})
	}
	h.setSessionCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Register berhasil",
		"data": fiber.Map{
			"idToken": token,
			"user":    userOut(&u),
		},
	})
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "Invalid body",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errors := FieldErrors{}
	if email == "" {
		errors.Add("email", "Email wajib diisi")
	}
	if password == "" {
		errors.Add("password", "Password wajib diisi")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	// batasi percobaan login per email, TTL 15 menit
	attemptsKey := loginAttemptsPref + email
	if h.RDB != nil {
		attempts, _ := h.RDB.Get(c.Context(), attemptsKey).Int()
		if attempts >= maxLoginAttempts {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"success": false,
				"message": "Terlalu banyak percobaan login. Coba lagi beberapa menit lagi",
			})
		}
	}

	recordFailure := func() {
		if h.RDB == nil {
			return
		}
		h.RDB.Incr(c.Context(), attemptsKey)
		h.RDB.Expire(c.Context(), attemptsKey, loginAttemptsTTL)
	}

	var u models.User
	if err := h.DB.Where("email = ?", email).First(&u).Error; err != nil {
		recordFailure()
		// email tidak ditemukan -> tetap 200 agar FE tidak error
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "Email atau password salah",
		})
	}

	if !u.IsActive {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "Akun dinonaktifkan. Hubungi administrator",
		})
	}

	if !utils.CheckPassword(u.Password, password) {
		recordFailure()
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "Email atau password salah",
		})
	}

	if h.RDB != nil {
		h.RDB.Del(c.Context(), attemptsKey)
	}

	token, err := utils.SignSessionToken(h.JWTSecret, u.UID.String(), string(u.Role), h.ExpiresDays)
	if err != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "Gagal membuat token",
		})
	}
	h.setSessionCookie(c, token)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Selamat datang, " + u.DisplayName + "!",
		"data": fiber.Map{
			"idToken": token,
			"user":    userOut(&u),
		},
	})
}

type SessionReq struct {
	IDToken string `json:"idToken"`
}

// CreateSession menukar idToken hasil login dengan cookie sesi HTTP-only.
func (h *AuthHandler) CreateSession(c *fiber.Ctx) error {
	var req SessionReq
	if err := c.BodyParser(&req); err != nil || req.IDToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "No token provided",
		})
	}

	claims, err := utils.ParseSessionToken(h.JWTSecret, req.IDToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Token tidak valid",
		})
	}

	h.setSessionCookie(c, req.IDToken)

	return c.JSON(fiber.Map{
		"success": true,
		"uid":     claims.UserID,
	})
}

// GetSession memverifikasi cookie sesi dan mengembalikan user-nya.
func (h *AuthHandler) GetSession(c *fiber.Ctx) error {
	tokenStr := c.Cookies(middleware.SessionCookieName)
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"authenticated": false,
		})
	}

	claims, err := utils.ParseSessionToken(h.JWTSecret, tokenStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"authenticated": false,
		})
	}

	var u models.User
	if err := h.DB.First(&u, "uid = ?", claims.UserID).Error; err != nil {
		// sesi valid tapi datanya tidak kebaca — tetap authenticated
		return c.JSON(fiber.Map{
			"authenticated": true,
			"uid":           claims.UserID,
			"user":          nil,
		})
	}

	return c.JSON(fiber.Map{
		"authenticated": true,
		"uid":           claims.UserID,
		"user":          userOut(&u),
	})
}

// DeleteSession menghapus cookie sesi (logout).
func (h *AuthHandler) DeleteSession(c *fiber.Ctx) error {
	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logout berhasil",
	})
}

func userOut(u *models.User) fiber.Map {
	return fiber.Map{
		"uid":         u.UID,
		"email":       u.Email,
		"displayName": u.DisplayName,
		"role":        u.Role,
		"photo_url":   u.PhotoURL,
		"isActive":    u.IsActive,
		"createdAt":   u.CreatedAt,
		"updatedAt":   u.UpdatedAt,
	}
}
