package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/purchasables/pkg/enums"
)

// Sale is a discount rule applied to matching purchasables in matching stores.
// ApplyAmount is a positive fraction for percent types (0.15 = 15%) and a currency amount otherwise.
type Sale struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name            string              `gorm:"column:name;not null"`
	Enabled         bool                `gorm:"column:enabled;not null"`
	DateFrom        *time.Time          `gorm:"column:date_from"`
	DateTo          *time.Time          `gorm:"column:date_to"`
	ApplyType       enums.SaleApplyType `gorm:"column:apply_type;not null"`
	ApplyAmount     decimal.Decimal     `gorm:"column:apply_amount;type:numeric(14,4);not null"`
	SortOrder       int                 `gorm:"column:sort_order;not null"`
	StopProcessing  bool                `gorm:"column:stop_processing;not null"`
	IgnorePrevious  bool                `gorm:"column:ignore_previous;not null"`
	AllPurchasables bool                `gorm:"column:all_purchasables;not null"`
	AllStores       bool                `gorm:"column:all_stores;not null"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Sale) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// ActiveAt reports whether the sale is enabled and its window contains at.
func (s Sale) ActiveAt(at time.Time) bool {
	if !s.Enabled {
		return false
	}
	if s.DateFrom != nil && at.Before(*s.DateFrom) {
		return false
	}
	if s.DateTo != nil && !at.Before(*s.DateTo) {
		return false
	}
	return true
}

// SalePurchasable links a sale to an explicitly targeted purchasable.
type SalePurchasable struct {
	SaleID        uuid.UUID `gorm:"column:sale_id;type:uuid;primaryKey"`
	PurchasableID uuid.UUID `gorm:"column:purchasable_id;type:uuid;primaryKey"`
}

// SaleStore links a sale to an explicitly targeted store.
type SaleStore struct {
	SaleID  uuid.UUID `gorm:"column:sale_id;type:uuid;primaryKey"`
	StoreID uuid.UUID `gorm:"column:store_id;type:uuid;primaryKey"`
}
