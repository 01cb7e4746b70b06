package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Andika-Pratama/be_dashboard_proyek/internal/listview"
	"github.com/Andika-Pratama/be_dashboard_proyek/internal/models"
	"github.com/Andika-Pratama/be_dashboard_proyek/internal/realtime"
)

// AccountHandler mengelola akun layanan yang dicatat tim (email + password
// yang memang disimpan terbaca, lihat catatan di model).
type AccountHandler struct {
	DB     *gorm.DB
	Bridge *realtime.Bridge
}

func NewAccountHandler(db *gorm.DB, bridge *realtime.Bridge) *AccountHandler {
	return &AccountHandler{DB: db, Bridge: bridge}
}

type AccountReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`

	// Provider dan Type dikirim sebagai id; disimpan sebagai nama.
	Provider string `json:"provider"`
	Type     string `json:"type"`
}

func resolveProviderName(db *gorm.DB, raw string) string {
	id, err := uuid.Parse(raw)
	if err != nil {
		return raw
	}
	var p models.AccountProvider
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return raw
	}
	return p.Provider
}

func resolveTypeName(db *gorm.DB, raw string) string {
	id, err := uuid.Parse(raw)
	if err != nil {
		return raw
	}
	var t models.AccountType
	if err := db.First(&t, "id = ?", id).Error; err != nil {
		return raw
	}
	return t.Type
}

func (h *AccountHandler) List(c *fiber.Ctx) error {
	var accounts []models.ManagementAccount
	if err := h.DB.Order("created_at DESC").Find(&accounts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengambil akun",
		})
	}

	filtered := listview.Filter(accounts,
		listview.Equals(c.Query("provider", "all"), func(a models.ManagementAccount) string { return a.Provider }),
		listview.Equals(c.Query("type", "all"), func(a models.ManagementAccount) string { return a.Type }),
		listview.Contains(c.Query("q"), func(a models.ManagementAccount) string { return a.Name }),
	)

	pageItems, page, totalPages := listview.Paginate(filtered, c.QueryInt("page", 1), taxonomyPerPage)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pageItems,
		"meta": fiber.Map{
			"page":        page,
			"per_page":    taxonomyPerPage,
			"total_items": len(filtered),
			"total_pages": totalPages,
		},
	})
}

func (h *AccountHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "ID akun tidak valid",
		})
	}

	var acc models.ManagementAccount
	if err := h.DB.First(&acc, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Akun tidak ditemukan",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    acc,
	})
}

func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var req AccountReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Body request tidak valid",
		})
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Nama dan email wajib diisi",
		})
	}

	acc := models.ManagementAccount{
		Name:     name,
		Email:    email,
		Password: req.Password,
		Provider: resolveProviderName(h.DB, req.Provider),
		Type:     resolveTypeName(h.DB, req.Type),
	}
	if err := h.DB.Create(&acc).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal menambah akun",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "management_accounts")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Akun berhasil ditambahkan",
		"data":    acc,
	})
}

func (h *AccountHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "ID akun tidak valid",
		})
	}

	var acc models.ManagementAccount
	if err := h.DB.First(&acc, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Akun tidak ditemukan",
		})
	}

	var req AccountReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Body request tidak valid",
		})
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Nama dan email wajib diisi",
		})
	}

	acc.Name = name
	acc.Email = email
	acc.Password = req.Password
	acc.Provider = resolveProviderName(h.DB, req.Provider)
	acc.Type = resolveTypeName(h.DB, req.Type)

	if err := h.DB.Save(&acc).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengubah akun",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "management_accounts")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Akun berhasil diubah",
		"data":    acc,
	})
}

func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "ID akun tidak valid",
		})
	}

	var acc models.ManagementAccount
	if err := h.DB.First(&acc, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Akun tidak ditemukan",
		})
	}

	if err := h.DB.Delete(&acc).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal menghapus akun",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "management_accounts")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Akun berhasil dihapus",
	})
}
