package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaxCategory classifies purchasables for tax calculation.
type TaxCategory struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Handle    string    `gorm:"column:handle;not null;uniqueIndex:idx_tax_categories_handle"`
	Name      string    `gorm:"column:name;not null"`
	IsDefault bool      `gorm:"column:is_default;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (c *TaxCategory) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// ShippingCategory classifies purchasables for shipping rules.
type ShippingCategory struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Handle    string    `gorm:"column:handle;not null;uniqueIndex:idx_shipping_categories_handle"`
	Name      string    `gorm:"column:name;not null"`
	IsDefault bool      `gorm:"column:is_default;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (c *ShippingCategory) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
