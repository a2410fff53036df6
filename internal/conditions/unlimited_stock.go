// Package conditions holds query rules that filter products by variant state.
package conditions

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/purchasables/pkg/db/models"
)

// UnlimitedStockRule filters products by the unlimited stock flag of their variants.
// A nil StoreID matches overrides in any store.
type UnlimitedStockRule struct {
	StoreID *uuid.UUID
}

// ModifyQuery narrows a products query to products with at least one variant whose
// override carries has_unlimited_stock = value.
func (r UnlimitedStockRule) ModifyQuery(query *gorm.DB, value bool) *gorm.DB {
	sub := query.Session(&gorm.Session{NewDB: true}).
		Table("purchasables AS p").
		Select("1").
		Joins("JOIN purchasable_stores ps ON ps.purchasable_id = p.id").
		Where("p.product_id = products.id").
		Where("ps.has_unlimited_stock = ?", value)
	if r.StoreID != nil {
		sub = sub.Where("ps.store_id = ?", *r.StoreID)
	}
	return query.Where("EXISTS (?)", sub)
}

// Matches reports whether any variant of product satisfies the rule. Variants must be
// loaded with their store overrides.
func (r UnlimitedStockRule) Matches(product *models.Product, value bool) bool {
	if product == nil {
		return false
	}
	for _, variant := range product.Variants {
		for _, override := range variant.Stores {
			if r.StoreID != nil && override.StoreID != *r.StoreID {
				continue
			}
			if override.HasUnlimitedStock == value {
				return true
			}
		}
	}
	return false
}
