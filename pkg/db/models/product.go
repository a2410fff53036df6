package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product groups purchasable variants under one listing.
type Product struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	Title     string        `gorm:"column:title;not null"`
	Variants  []Purchasable `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
