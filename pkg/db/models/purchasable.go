package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/purchasables/pkg/enums"
)

// Purchasable is a sellable item with per-store pricing and stock.
type Purchasable struct {
	ID                 uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	ProductID          *uuid.UUID              `gorm:"column:product_id;type:uuid;index:idx_purchasables_product"`
	SKU                string                  `gorm:"column:sku;not null"`
	Status             enums.PurchasableStatus `gorm:"column:status;not null"`
	Width              decimal.NullDecimal     `gorm:"column:width;type:numeric(14,4)"`
	Height             decimal.NullDecimal     `gorm:"column:height;type:numeric(14,4)"`
	Length             decimal.NullDecimal     `gorm:"column:length;type:numeric(14,4)"`
	Weight             decimal.NullDecimal     `gorm:"column:weight;type:numeric(14,4)"`
	TaxCategoryID      *uuid.UUID              `gorm:"column:tax_category_id;type:uuid"`
	ShippingCategoryID *uuid.UUID              `gorm:"column:shipping_category_id;type:uuid"`
	Stores             []PurchasableStore      `gorm:"foreignKey:PurchasableID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Purchasable) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// IsLive reports whether the purchasable is live and subject to full validation.
func (p *Purchasable) IsLive() bool {
	return p != nil && p.Status == enums.PurchasableStatusLive
}

// IsPersisted reports whether the purchasable already has an identifier.
func (p *Purchasable) IsPersisted() bool {
	return p != nil && p.ID != uuid.Nil
}

// StoreOverride returns the override for storeID, or nil when none exists.
func (p *Purchasable) StoreOverride(storeID uuid.UUID) *PurchasableStore {
	if p == nil {
		return nil
	}
	for i := range p.Stores {
		if p.Stores[i].StoreID == storeID {
			return &p.Stores[i]
		}
	}
	return nil
}

// EnsureStoreOverride returns the override for storeID, creating an empty one when missing.
func (p *Purchasable) EnsureStoreOverride(storeID uuid.UUID) *PurchasableStore {
	if existing := p.StoreOverride(storeID); existing != nil {
		return existing
	}
	p.Stores = append(p.Stores, NewPurchasableStore(p.ID, storeID))
	return &p.Stores[len(p.Stores)-1]
}

// PurchasableStore holds the store-specific values of a purchasable.
type PurchasableStore struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	PurchasableID        uuid.UUID           `gorm:"column:purchasable_id;type:uuid;not null;uniqueIndex:idx_purchasable_stores_item_store"`
	StoreID              uuid.UUID           `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_purchasable_stores_item_store"`
	Price                decimal.NullDecimal `gorm:"column:price;type:numeric(14,4)"`
	PromotionalPrice     decimal.NullDecimal `gorm:"column:promotional_price;type:numeric(14,4)"`
	Stock                int                 `gorm:"column:stock;not null"`
	HasUnlimitedStock    bool                `gorm:"column:has_unlimited_stock;not null"`
	MinQty               *int                `gorm:"column:min_qty"`
	MaxQty               *int                `gorm:"column:max_qty"`
	Promotable           bool                `gorm:"column:promotable;not null"`
	AvailableForPurchase bool                `gorm:"column:available_for_purchase;not null"`
	FreeShipping         bool                `gorm:"column:free_shipping;not null"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// NewPurchasableStore returns an override carrying the defaults of a freshly created store row.
func NewPurchasableStore(purchasableID, storeID uuid.UUID) PurchasableStore {
	return PurchasableStore{
		PurchasableID:        purchasableID,
		StoreID:              storeID,
		Promotable:           true,
		AvailableForPurchase: true,
	}
}

func (s *PurchasableStore) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
