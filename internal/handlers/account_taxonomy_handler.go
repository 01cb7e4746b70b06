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

// AccountTaxonomyHandler mengelola dua taksonomi akun: tipe dan provider.
type AccountTaxonomyHandler struct {
	DB     *gorm.DB
	Bridge *realtime.Bridge
}

func NewAccountTaxonomyHandler(db *gorm.DB, bridge *realtime.Bridge) *AccountTaxonomyHandler {
	return &AccountTaxonomyHandler{DB: db, Bridge: bridge}
}

// ==== ACCOUNT TYPES ====

func (h *AccountTaxonomyHandler) ListTypes(c *fiber.Ctx) error {
	var types []models.AccountType
	if err := h.DB.Order("created_at DESC").Find(&types).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengambil tipe akun",
		})
	}

	filtered := listview.Filter(types,
		listview.Contains(c.Query("q"), func(t models.AccountType) string { return t.Type }),
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

type AccountTypeReq struct {
	Type string `json:"type"`
}

func (h *AccountTaxonomyHandler) CreateType(c *fiber.Ctx) error {
	var req AccountTypeReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Body request tidak valid",
		})
	}

	name := strings.TrimSpace(req.Type)
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Tipe akun wajib diisi",
		})
	}

	t := models.AccountType{Type: name}
	if err := h.DB.Create(&t).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal menambah tipe akun",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "account_types")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Tipe akun berhasil ditambahkan",
		"data":    t,
	})
}

func (h *AccountTaxonomyHandler) DeleteType(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "ID tipe akun tidak valid",
		})
	}

	var t models.AccountType
	if err := h.DB.First(&t, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Tipe akun tidak ditemukan",
		})
	}

	if err := h.DB.Delete(&t).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal menghapus tipe akun",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "account_types")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Tipe akun berhasil dihapus",
	})
}

// ==== ACCOUNT PROVIDERS ====

func (h *AccountTaxonomyHandler) ListProviders(c *fiber.Ctx) error {
	var providers []models.AccountProvider
	if err := h.DB.Order("created_at DESC").Find(&providers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengambil provider akun",
		})
	}

	filtered := listview.Filter(providers,
		listview.Contains(c.Query("q"), func(p models.AccountProvider) string { return p.Provider }),
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

type AccountProviderReq struct {
	Provider string `json:"provider"`
}

func (h *AccountTaxonomyHandler) CreateProvider(c *fiber.Ctx) error {
	var req AccountProviderReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Body request tidak valid",
		})
	}

	name := strings.TrimSpace(req.Provider)
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Provider akun wajib diisi",
		})
	}

	p := models.AccountProvider{Provider: name}
	if err := h.DB.Create(&p).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal menambah provider akun",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "account_providers")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Provider akun berhasil ditambahkan",
		"data":    p,
	})
}

func (h *AccountTaxonomyHandler) DeleteProvider(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "ID provider tidak valid",
		})
	}

	var p models.AccountProvider
	if err := h.DB.First(&p, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Provider akun tidak ditemukan",
		})
	}

	if err := h.DB.Delete(&p).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal menghapus provider akun",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "account_providers")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Provider akun berhasil dihapus",
	})
}
