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

const taxonomyPerPage = 10

type CategoryHandler struct {
	DB     *gorm.DB
	Bridge *realtime.Bridge
}

func NewCategoryHandler(db *gorm.DB, bridge *realtime.Bridge) *CategoryHandler {
	return &CategoryHandler{DB: db, Bridge: bridge}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	var categories []models.Category
	if err := h.DB.Order("created_at DESC").Find(&categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengambil kategori",
		})
	}

	filtered := listview.Filter(categories,
		listview.Contains(c.Query("q"), func(cat models.Category) string { return cat.Name }),
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

type CategoryReq struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req CategoryReq
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
			"message": "Nama kategori wajib diisi",
		})
	}

	cat := models.Category{Name: name}
	if err := h.DB.Create(&cat).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal menambah kategori",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "categories")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Kategori berhasil ditambahkan",
		"data":    cat,
	})
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "ID kategori tidak valid",
		})
	}

	var cat models.Category
	if err := h.DB.First(&cat, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Kategori tidak ditemukan",
		})
	}

	var req CategoryReq
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
			"message": "Nama kategori wajib diisi",
		})
	}

	// Rename tidak menyentuh proyek lama: nama yang sudah tersimpan di
	// proyek tetap apa adanya.
	cat.Name = name
	if err := h.DB.Save(&cat).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengubah kategori",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "categories")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Kategori berhasil diubah",
		"data":    cat,
	})
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "ID kategori tidak valid",
		})
	}

	var cat models.Category
	if err := h.DB.First(&cat, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Kategori tidak ditemukan",
		})
	}

	if err := h.DB.Delete(&cat).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal menghapus kategori",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "categories")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Kategori berhasil dihapus",
	})
}
