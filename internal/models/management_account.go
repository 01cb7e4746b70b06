package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ManagementAccount adalah akun layanan eksternal yang dicatat admin
// (hosting, domain, email, dsb). Password di sini memang plaintext —
// ini kredensial yang harus bisa dibaca kembali, bukan password login.
type ManagementAccount struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	Email    string    `gorm:"not null" json:"email"`
	Password string    `gorm:"not null" json:"password"`

	// Provider dan Type menyimpan nama hasil resolve saat submit, bukan id.
	Provider string `json:"provider"`
	Type     string `json:"type"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *ManagementAccount) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
