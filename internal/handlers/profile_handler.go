package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Andika-Pratama/be_dashboard_proyek/internal/models"
	"github.com/Andika-Pratama/be_dashboard_proyek/internal/utils"
)

type ProfileHandler struct {
	DB *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{DB: db}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	var u models.User
	if err := h.DB.First(&u, "uid = ?", uid).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User tidak ditemukan",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    userOut(&u),
	})
}

type ProfileUpdateReq struct {
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photo_url"`
	Password    string `json:"password"`
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	var u models.User
	if err := h.DB.First(&u, "uid = ?", uid).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User tidak ditemukan",
		})
	}

	var req ProfileUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Body request tidak valid",
		})
	}

	if name := strings.TrimSpace(req.DisplayName); name != "" {
		u.DisplayName = name
	}
	if req.PhotoURL != "" {
		u.PhotoURL = req.PhotoURL
	}
	if pw := strings.TrimSpace(req.Password); pw != "" {
		if len(pw) < 6 {
			errs := FieldErrors{}
			errs.Add("password", "Password minimal 6 karakter")
			return validationFail(c, errs)
		}
		hashed, err := utils.HashPassword(pw)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Gagal memproses password",
			})
		}
		u.Password = hashed
	}

	if err := h.DB.Save(&u).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengubah profil",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profil berhasil diubah",
		"data":    userOut(&u),
	})
}
