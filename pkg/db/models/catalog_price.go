package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogPrice is a price rule that overrides the stored store price.
// A nil UserID applies to every shopper; a nil date bound is open-ended.
type CatalogPrice struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	PurchasableID uuid.UUID       `gorm:"column:purchasable_id;type:uuid;not null;index:idx_catalog_prices_lookup"`
	StoreID       uuid.UUID       `gorm:"column:store_id;type:uuid;not null;index:idx_catalog_prices_lookup"`
	UserID        *uuid.UUID      `gorm:"column:user_id;type:uuid"`
	IsPromotional bool            `gorm:"column:is_promotional;not null;index:idx_catalog_prices_lookup"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(14,4);not null"`
	DateFrom      *time.Time      `gorm:"column:date_from"`
	DateTo        *time.Time      `gorm:"column:date_to"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (c *CatalogPrice) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
