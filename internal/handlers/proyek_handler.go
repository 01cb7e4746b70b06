package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Andika-Pratama/be_dashboard_proyek/internal/listview"
	"github.com/Andika-Pratama/be_dashboard_proyek/internal/models"
	"github.com/Andika-Pratama/be_dashboard_proyek/internal/realtime"
)

// Kartu proyek ditampilkan 4 per halaman.
const proyekPerPage = 4

type ProyekHandler struct {
	DB     *gorm.DB
	Bridge *realtime.Bridge
}

func NewProyekHandler(db *gorm.DB, bridge *realtime.Bridge) *ProyekHandler {
	return &ProyekHandler{DB: db, Bridge: bridge}
}

// ==== REQUEST STRUCTS ====

type LinkReq struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

type DepositReq struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Price   int64   `json:"price"`
	Percent float64 `json:"percent"`
}

type CredentialReq struct {
	Label    string `json:"label"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProyekReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
	Progres     string `json:"progres"`

	// Category dan Framework dikirim sebagai id; di-resolve ke nama saat submit.
	Category  string   `json:"category"`
	Framework []string `json:"framework"`

	Thumbnail string          `json:"thumbnail"` // URL hasil upload sebelumnya
	Accounts  []CredentialReq `json:"accounts"`
	Price     int64           `json:"price"`
	Deposit   []DepositReq    `json:"deposit"`
	Link      []LinkReq       `json:"link"`
}

// ==== RESOLVERS ====

// resolveCategoryName menukar id kategori dengan nama tampilannya.
// Kalau tidak ketemu, nilai mentah dipakai apa adanya (perilaku lama).
func resolveCategoryName(db *gorm.DB, raw string) string {
	id, err := uuid.Parse(raw)
	if err != nil {
		return raw
	}
	var cat models.Category
	if err := db.First(&cat, "id = ?", id).Error; err != nil {
		return raw
	}
	return cat.Name
}

// resolveFrameworkItems menukar daftar id framework dengan [{ name }].
func resolveFrameworkItems(db *gorm.DB, raws []string) []models.FrameworkItem {
	out := make([]models.FrameworkItem, 0, len(raws))
	for _, raw := range raws {
		name := raw
		if id, err := uuid.Parse(raw); err == nil {
			var fw models.Framework
			if err := db.First(&fw, "id = ?", id).Error; err == nil {
				name = fw.Name
			}
		}
		out = append(out, models.FrameworkItem{Name: name})
	}
	return out
}

func buildLinks(reqs []LinkReq, existing []models.LinkItem) []models.LinkItem {
	prev := make(map[string]models.LinkItem, len(existing))
	for _, l := range existing {
		prev[l.ID] = l
	}

	now := time.Now()
	out := make([]models.LinkItem, 0, len(reqs))
	for _, r := range reqs {
		item := models.LinkItem{
			ID:        r.ID,
			Label:     r.Label,
			URL:       r.URL,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		} else if old, ok := prev[item.ID]; ok {
			item.CreatedAt = old.CreatedAt
		}
		out = append(out, item)
	}
	return out
}

func buildDeposits(reqs []DepositReq) []models.DepositItem {
	out := make([]models.DepositItem, 0, len(reqs))
	for _, r := range reqs {
		item := models.DepositItem{
			ID:      r.ID,
			Label:   r.Label,
			Price:   r.Price,
			Percent: r.Percent,
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		out = append(out, item)
	}
	return out
}

func buildCredentials(reqs []CredentialReq) []models.CredentialItem {
	out := make([]models.CredentialItem, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, models.CredentialItem{
			Label:    r.Label,
			Email:    r.Email,
			Password: r.Password,
		})
	}
	return out
}

func (h *ProyekHandler) applyRequest(p *models.Proyek, req *ProyekReq) error {
	p.Title = req.Title
	p.Description = req.Description
	p.Price = req.Price
	p.Thumbnail = req.Thumbnail

	if req.StartDate != "" {
		t, err := parseDate(req.StartDate)
		if err != nil {
			return err
		}
		p.StartDate = t
	}
	if req.EndDate != "" {
		t, err := parseDate(req.EndDate)
		if err != nil {
			return err
		}
		p.EndDate = t
	}

	if req.Status != "" {
		p.Status = models.ProyekStatus(req.Status)
	}
	if req.Progres != "" {
		p.Progres = models.Progres(req.Progres)
	}

	// Simpan nama, bukan id
	p.Category = resolveCategoryName(h.DB, req.Category)

	frameworkJSON, err := json.Marshal(resolveFrameworkItems(h.DB, req.Framework))
	if err != nil {
		return err
	}
	p.Framework = datatypes.JSON(frameworkJSON)

	accountsJSON, err := json.Marshal(buildCredentials(req.Accounts))
	if err != nil {
		return err
	}
	p.Accounts = datatypes.JSON(accountsJSON)

	depositJSON, err := json.Marshal(buildDeposits(req.Deposit))
	if err != nil {
		return err
	}
	p.Deposit = datatypes.JSON(depositJSON)

	var existingLinks []models.LinkItem
	if len(p.Link) > 0 {
		_ = json.Unmarshal(p.Link, &existingLinks)
	}
	linkJSON, err := json.Marshal(buildLinks(req.Link, existingLinks))
	if err != nil {
		return err
	}
	p.Link = datatypes.JSON(linkJSON)

	return nil
}

// ==== HANDLERS ====

// List mengembalikan snapshot proyek terurut createdAt desc, difilter dan
// dipaginasi dengan aritmetika yang sama seperti di sisi klien.
func (h *ProyekHandler) List(c *fiber.Ctx) error {
	var proyeks []models.Proyek
	if err := h.DB.Order("created_at DESC").Find(&proyeks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengambil proyek",
		})
	}

	filtered := listview.Filter(proyeks,
		listview.Equals(c.Query("category", "all"), func(p models.Proyek) string { return p.Category }),
		listview.Equals(c.Query("progres", "all"), func(p models.Proyek) string { return string(p.Progres) }),
		listview.Equals(c.Query("status", "all"), func(p models.Proyek) string { return string(p.Status) }),
		listview.Contains(c.Query("q"), func(p models.Proyek) string { return p.Title }),
	)

	pageItems, page, totalPages := listview.Paginate(filtered, c.QueryInt("page", 1), proyekPerPage)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pageItems,
		"meta": fiber.Map{
			"page":        page,
			"per_page":    proyekPerPage,
			"total_items": len(filtered),
			"total_pages": totalPages,
		},
	})
}

func (h *ProyekHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "ID proyek tidak valid",
		})
	}

	var proyek models.Proyek
	if err := h.DB.First(&proyek, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Proyek tidak ditemukan",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    proyek,
	})
}

func (h *ProyekHandler) Create(c *fiber.Ctx) error {
	var req ProyekReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Body request tidak valid",
		})
	}

	if req.Title == "" || req.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Judul dan kategori wajib diisi",
		})
	}

	uid, err := getUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Anda harus login untuk menambah proyek",
		})
	}

	proyek := models.Proyek{UID: uid}
	if err := h.applyRequest(&proyek, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Gagal memproses data proyek",
		})
	}

	if err := h.DB.Create(&proyek).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal menambah proyek",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "proyek")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Proyek berhasil ditambahkan",
		"data":    proyek,
	})
}

func (h *ProyekHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "ID proyek tidak valid",
		})
	}

	var proyek models.Proyek
	if err := h.DB.First(&proyek, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Proyek tidak ditemukan",
		})
	}

	var req ProyekReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Body request tidak valid",
		})
	}

	if err := h.applyRequest(&proyek, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Gagal memproses data proyek",
		})
	}

	if err := h.DB.Save(&proyek).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal mengubah proyek",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "proyek")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Proyek berhasil diubah",
		"data":    proyek,
	})
}

func (h *ProyekHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "ID proyek tidak valid",
		})
	}

	var proyek models.Proyek
	if err := h.DB.First(&proyek, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Proyek tidak ditemukan",
		})
	}

	if err := h.DB.Delete(&proyek).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Gagal menghapus proyek",
		})
	}

	h.Bridge.NotifyChanged(c.Context(), "proyek")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Proyek berhasil dihapus",
	})
}
