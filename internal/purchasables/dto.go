package purchasable

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/purchasables/pkg/db/models"
	"github.com/angelmondragon/purchasables/pkg/enums"
)

// SaveInput carries the editable state of a purchasable. Stores maps a store handle
// to the store fields to write; fields not listed keep their current value.
type SaveInput struct {
	SKU                string
	Status             enums.PurchasableStatus
	ProductID          *uuid.UUID
	Width              decimal.NullDecimal
	Height             decimal.NullDecimal
	Length             decimal.NullDecimal
	Weight             decimal.NullDecimal
	TaxCategoryID      *uuid.UUID
	ShippingCategoryID *uuid.UUID
	Stores             map[string]map[string]any
}

// ListInput holds list filters and pagination.
type ListInput struct {
	Status    *enums.PurchasableStatus
	ProductID *uuid.UUID
	Limit     int
	Cursor    string
}

// ListResult is one page of purchasables.
type ListResult struct {
	Items      []PurchasableDTO `json:"items"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// PurchasableDTO is the API view of a purchasable.
type PurchasableDTO struct {
	ID                 uuid.UUID               `json:"id"`
	ProductID          *uuid.UUID              `json:"productId,omitempty"`
	SKU                string                  `json:"sku"`
	Status             enums.PurchasableStatus `json:"status"`
	Width              decimal.NullDecimal     `json:"width"`
	Height             decimal.NullDecimal     `json:"height"`
	Length             decimal.NullDecimal     `json:"length"`
	Weight             decimal.NullDecimal     `json:"weight"`
	TaxCategoryID      *uuid.UUID              `json:"taxCategoryId,omitempty"`
	ShippingCategoryID *uuid.UUID              `json:"shippingCategoryId,omitempty"`
	Stores             []StoreValuesDTO        `json:"stores"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
}

// StoreValuesDTO is the API view of one store override.
type StoreValuesDTO struct {
	StoreID              uuid.UUID           `json:"storeId"`
	Store                string              `json:"store,omitempty"`
	Price                decimal.NullDecimal `json:"price"`
	PromotionalPrice     decimal.NullDecimal `json:"promotionalPrice"`
	Stock                int                 `json:"stock"`
	HasUnlimitedStock    bool                `json:"hasUnlimitedStock"`
	MinQty               *int                `json:"minQty"`
	MaxQty               *int                `json:"maxQty"`
	Promotable           bool                `json:"promotable"`
	AvailableForPurchase bool                `json:"availableForPurchase"`
	FreeShipping         bool                `json:"freeShipping"`
}

// NewPurchasableDTO maps the model to its API view. storeHandles is optional.
func NewPurchasableDTO(item *models.Purchasable, storeHandles map[uuid.UUID]string) PurchasableDTO {
	dto := PurchasableDTO{
		ID:                 item.ID,
		ProductID:          item.ProductID,
		SKU:                item.SKU,
		Status:             item.Status,
		Width:              item.Width,
		Height:             item.Height,
		Length:             item.Length,
		Weight:             item.Weight,
		TaxCategoryID:      item.TaxCategoryID,
		ShippingCategoryID: item.ShippingCategoryID,
		Stores:             make([]StoreValuesDTO, 0, len(item.Stores)),
		CreatedAt:          item.CreatedAt,
		UpdatedAt:          item.UpdatedAt,
	}
	for _, o := range item.Stores {
		dto.Stores = append(dto.Stores, StoreValuesDTO{
			StoreID:              o.StoreID,
			Store:                storeHandles[o.StoreID],
			Price:                o.Price,
			PromotionalPrice:     o.PromotionalPrice,
			Stock:                o.Stock,
			HasUnlimitedStock:    o.HasUnlimitedStock,
			MinQty:               o.MinQty,
			MaxQty:               o.MaxQty,
			Promotable:           o.Promotable,
			AvailableForPurchase: o.AvailableForPurchase,
			FreeShipping:         o.FreeShipping,
		})
	}
	return dto
}
