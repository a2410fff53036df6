package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/purchasables/pkg/db/models"
	"github.com/angelmondragon/purchasables/pkg/enums"
)

// Snapshot is the resolved pricing and availability of a purchasable in one store.
type Snapshot struct {
	PurchasableID        uuid.UUID           `json:"purchasableId"`
	Store                string              `json:"store"`
	Price                decimal.NullDecimal `json:"price"`
	PromotionalPrice     decimal.NullDecimal `json:"promotionalPrice"`
	SalePrice            decimal.Decimal     `json:"salePrice"`
	OnSale               bool                `json:"onSale"`
	HasStock             bool                `json:"hasStock"`
	AvailableForPurchase bool                `json:"availableForPurchase"`
	FreeShipping         bool                `json:"freeShipping"`
	MinQty               *int                `json:"minQty"`
	MaxQty               *int                `json:"maxQty"`
	Sales                []SaleSummary       `json:"sales"`
}

// SaleSummary describes a sale applied to the sale price.
type SaleSummary struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	ApplyType   enums.SaleApplyType `json:"applyType"`
	ApplyAmount decimal.Decimal     `json:"applyAmount"`
}

// Snapshot gathers every resolved value of item in store.
func (r *Resolver) Snapshot(ctx context.Context, item *models.Purchasable, store *models.Store) (*Snapshot, error) {
	price, err := r.Price(ctx, item, store)
	if err != nil {
		return nil, err
	}
	promotional, err := r.PromotionalPrice(ctx, item, store)
	if err != nil {
		return nil, err
	}
	salePrice, err := r.SalePrice(ctx, item, store)
	if err != nil {
		return nil, err
	}
	onSale, err := r.OnSale(ctx, item, store)
	if err != nil {
		return nil, err
	}
	sales, err := r.Sales(ctx, item, store)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		PurchasableID:    item.ID,
		Store:            store.Handle,
		Price:            price,
		PromotionalPrice: promotional,
		SalePrice:        salePrice,
		OnSale:           onSale,
		HasStock:         r.HasStock(item, store),
		Sales:            make([]SaleSummary, 0, len(sales)),
	}
	if override := item.StoreOverride(store.ID); override != nil {
		snap.AvailableForPurchase = override.AvailableForPurchase
		snap.FreeShipping = override.FreeShipping
		snap.MinQty = override.MinQty
		snap.MaxQty = override.MaxQty
	}
	for _, sale := range sales {
		snap.Sales = append(snap.Sales, SaleSummary{
			ID:          sale.ID,
			Name:        sale.Name,
			ApplyType:   sale.ApplyType,
			ApplyAmount: sale.ApplyAmount,
		})
	}
	return snap, nil
}
