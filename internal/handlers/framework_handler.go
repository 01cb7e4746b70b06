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

type FrameworkHandler struct {
	DB     *gorm.DB
	Bridge *realtime.Bridge
}

func NewFrameworkHandler(db *gorm.DB, bridge *realtime.Bridge) *FrameworkHandler {
	return &FrameworkHandler{DB: db, Bridge: bridge}
}

func (h *FrameworkHandler) List(c *fiber.Ctx) error {
	var frameworks []models.Framework
	if err := h.DB.Order("created_at DESC").Find(&frameworks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengambil framework",
		})
	}

	filtered := listview.Filter(frameworks,
		listview.Contains(c.Query("q"), func(fw models.Framework) string { return fw.Name }),
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

type FrameworkReq struct {
	Name string `json:"name"`
}

func (h *FrameworkHandler) Create(c *fiber.Ctx) error {
	var req FrameworkReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Body request tidak valid",
		})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Nama framework wajib diisi",
		})
	}

	fw := models.Framework{Name: name}
	if err := h.DB.Create(&fw).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal menambah framework",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "frameworks")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Framework berhasil ditambahkan",
		"data":    fw,
	})
}

func (h *FrameworkHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "ID framework tidak valid",
		})
	}

	var fw models.Framework
	if err := h.DB.First(&fw, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Framework tidak ditemukan",
		})
	}

	var req FrameworkReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Body request tidak valid",
		})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Nama framework wajib diisi",
		})
	}

	fw.Name = name
	if err := h.DB.Save(&fw).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengubah framework",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "frameworks")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Framework berhasil diubah",
		"data":    fw,
	})
}

func (h *FrameworkHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "ID framework tidak valid",
		})
	}

	var fw models.Framework
	if err := h.DB.First(&fw, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Framework tidak ditemukan",
		})
	}

	if err := h.DB.Delete(&fw).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal menghapus framework",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "frameworks")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Framework berhasil dihapus",
	})
}
