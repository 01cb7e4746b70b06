package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser Role = "user"
)

// User adalah akun dashboard (bukan akun klien yang dikelola).
type User struct {
	UID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"uid"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string    `gorm:"not null" json:"displayName"`
	Password    string    `gorm:"not null" json:"-"`
	Role        Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	PhotoURL    string    `gorm:"type:text" json:"photo_url"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.UID == uuid.Nil {
		u.UID = uuid.New()
	}
	return
}
