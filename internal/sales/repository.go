package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/purchasables/internal/repo"
	"github.com/angelmondragon/purchasables/pkg/db/models"
)

// Repository loads sale rules and their targets.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to sale persistence.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a sale with its explicit purchasable and store targets.
func (r *Repository) Create(ctx context.Context, sale *models.Sale, purchasableIDs, storeIDs []uuid.UUID) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sale).Error; err != nil {
			return err
		}
		for _, id := range purchasableIDs {
			if err := tx.Create(&models.SalePurchasable{SaleID: sale.ID, PurchasableID: id}).Error; err != nil {
				return err
			}
		}
		for _, id := range storeIDs {
			if err := tx.Create(&models.SaleStore{SaleID: sale.ID, StoreID: id}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ActiveFor returns the enabled sales running at at that target the item in the store,
// in the order they are applied.
func (r *Repository) ActiveFor(ctx context.Context, itemID, storeID uuid.UUID, at time.Time) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.DB(ctx).
		Where("enabled = ?", true).
		Where("date_from IS NULL OR date_from <= ?", at).
		Where("date_to IS NULL OR date_to > ?", at).
		Where("all_purchasables = ? OR EXISTS (SELECT 1 FROM sale_purchasables sp WHERE sp.sale_id = sales.id AND sp.purchasable_id = ?)", true, itemID).
		Where("all_stores = ? OR EXISTS (SELECT 1 FROM sale_stores ss WHERE ss.sale_id = sales.id AND ss.store_id = ?)", true, storeID).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

// DisableExpired switches off enabled sales whose window closed at or before cutoff.
func (r *Repository) DisableExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	conn := r.DB(ctx)
	if tx != nil {
		conn = tx.WithContext(ctx)
	}
	res := conn.Model(&models.Sale{}).
		Where("enabled = ? AND date_to IS NOT NULL AND date_to <= ?", true, cutoff).
		Updates(map[string]any{"enabled": false, "updated_at": cutoff})
	return res.RowsAffected, res.Error
}
