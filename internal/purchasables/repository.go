package purchasable

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/purchasables/internal/repo"
	"github.com/angelmondragon/purchasables/pkg/db/models"
	"github.com/angelmondragon/purchasables/pkg/enums"
	"github.com/angelmondragon/purchasables/pkg/pagination"
)

// Repository persists purchasables together with their store overrides.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to purchasable persistence.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// FindByID loads a purchasable with every store override.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Purchasable, error) {
	var item models.Purchasable
	if err := r.DB(ctx).
		Preload("Stores", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindOverride loads the override of one purchasable for one store.
func (r *Repository) FindOverride(ctx context.Context, purchasableID, storeID uuid.UUID) (*models.PurchasableStore, error) {
	var override models.PurchasableStore
	if err := r.DB(ctx).
		Where("purchasable_id = ? AND store_id = ?", purchasableID, storeID).
		First(&override).Error; err != nil {
		return nil, err
	}
	return &override, nil
}

// Create inserts the purchasable and its overrides.
func (r *Repository) Create(ctx context.Context, item *models.Purchasable) error {
	if err := r.DB(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return err
	}
	return r.saveOverrides(ctx, item)
}

// Update saves the purchasable columns and upserts its overrides.
func (r *Repository) Update(ctx context.Context, item *models.Purchasable) error {
	if err := r.DB(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		return err
	}
	return r.saveOverrides(ctx, item)
}

func (r *Repository) saveOverrides(ctx context.Context, item *models.Purchasable) error {
	for i := range item.Stores {
		override := &item.Stores[i]
		override.PurchasableID = item.ID
		if err := r.UpsertOverride(ctx, override); err != nil {
			return err
		}
	}
	return nil
}

// UpsertOverride inserts a new override or saves an existing one.
func (r *Repository) UpsertOverride(ctx context.Context, override *models.PurchasableStore) error {
	if override.ID == uuid.Nil {
		return r.DB(ctx).Create(override).Error
	}
	return r.DB(ctx).Save(override).Error
}

// Delete removes the purchasable, its overrides, catalog prices and sale links.
// Callers run it inside a transaction so the cascade is all-or-nothing.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	db := r.DB(ctx)
	if err := db.Where("purchasable_id = ?", id).Delete(&models.PurchasableStore{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("purchasable_id = ?", id).Delete(&models.CatalogPrice{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("purchasable_id = ?", id).Delete(&models.SalePurchasable{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("id = ?", id).Delete(&models.Purchasable{})
	return res.RowsAffected, res.Error
}

// SKUExists reports whether another live purchasable uses sku, ignoring case.
func (r *Repository) SKUExists(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error) {
	query := r.DB(ctx).
		Model(&models.Purchasable{}).
		Where("LOWER(sku) = ?", strings.ToLower(strings.TrimSpace(sku))).
		Where("status = ?", enums.PurchasableStatusLive)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListFilter narrows purchasable listings.
type ListFilter struct {
	Status    *enums.PurchasableStatus
	ProductID *uuid.UUID
	Limit     int
	Cursor    *pagination.Cursor
}

// List returns purchasables newest first using keyset pagination.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Purchasable, error) {
	query := r.DB(ctx).
		Preload("Stores").
		Scopes(pagination.Keyset("purchasables", filter.Cursor, filter.Limit))

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}

	var items []models.Purchasable
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Touch bumps updated_at, used after store-only edits.
func (r *Repository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB(ctx).Model(&models.Purchasable{}).Where("id = ?", id).Update("updated_at", at).Error
}
