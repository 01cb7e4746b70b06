package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

type Framework struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (f *Framework) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}

type AccountType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Type      string    `gorm:"not null" json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t *AccountType) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

type AccountProvider struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Provider  string    `gorm:"not null" json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *AccountProvider) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
