package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProyekStatus string

const (
	StatusDraft     ProyekStatus = "draft"
	StatusPublished ProyekStatus = "published"
	StatusArchived  ProyekStatus = "archived"
)

type Progres string

const (
	ProgresPending  Progres = "pending"
	ProgresProgress Progres = "progress"
	ProgresRevisi   Progres = "revisi"
	ProgresSelesai  Progres = "selesai"
)

// FrameworkItem disimpan sebagai { name } — nama framework, bukan id.
type FrameworkItem struct {
	Name string `json:"name"`
}

// CredentialItem adalah akun milik klien yang menempel di proyek.
type CredentialItem struct {
	Label    string `json:"label"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DepositItem struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Price   int64   `json:"price"`
	Percent float64 `json:"percent"`
}

type LinkItem struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Proyek struct {
	ID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UID uuid.UUID `gorm:"type:uuid;index" json:"uid"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	Status  ProyekStatus `gorm:"type:varchar(20);default:'draft'" json:"status"`
	Progres Progres      `gorm:"type:varchar(20);default:'pending'" json:"progres"`

	// Category menyimpan nama kategori hasil resolve saat submit, bukan id.
	// Rename kategori tidak menjalar ke proyek lama (tradeoff yang disengaja).
	Category  string `json:"category"`
	Thumbnail string `gorm:"type:text" json:"thumbnail"`

	Framework datatypes.JSON `json:"framework"` // [{ name }]
	Accounts  datatypes.JSON `json:"accounts"`  // [{ label, email, password }]
	Price     int64          `json:"price"`
	Deposit   datatypes.JSON `json:"deposit"` // [{ id, label, price, percent }]
	Link      datatypes.JSON `json:"link"`    // [{ id, label, url, createdAt, updatedAt }]

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Proyek) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
