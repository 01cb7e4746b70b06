package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Andika-Pratama/be_dashboard_proyek/internal/models"
)

// DashboardHandler menghitung statistik ringkas untuk halaman utama.
type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

// Stats mengembalikan total proyek, sebaran status/progres, total nilai,
// dan deret bulanan untuk chart. Agregasi dilakukan di memori karena
// jumlah proyek kecil, sama seperti list.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	var proyeks []models.Proyek
	if err := h.DB.Order("created_at ASC").Find(&proyeks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengambil statistik",
		})
	}

	byStatus := map[string]int{}
	byProgres := map[string]int{}
	byCategory := map[string]int{}
	monthly := map[string]int{}
	var totalPrice int64

	for _, p := range proyeks {
		byStatus[string(p.Status)]++
		byProgres[string(p.Progres)]++
		if p.Category != "" {
			byCategory[p.Category]++
		}
		monthly[p.CreatedAt.Format("2006-01")]++
		totalPrice += p.Price
	}

	var accountCount, categoryCount, frameworkCount int64
	if err := h.DB.Model(&models.ManagementAccount{}).Count(&accountCount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengambil statistik",
		})
	}
	if err := h.DB.Model(&models.Category{}).Count(&categoryCount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengambil statistik",
		})
	}
	if err := h.DB.Model(&models.Framework{}).Count(&frameworkCount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengambil statistik",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_proyek":     len(proyeks),
			"total_accounts":   accountCount,
			"total_categories": categoryCount,
			"total_frameworks": frameworkCount,
			"total_price":      totalPrice,
			"by_status":        byStatus,
			"by_progres":       byProgres,
			"by_category":      byCategory,
			"monthly":          monthly,
		},
	})
}
