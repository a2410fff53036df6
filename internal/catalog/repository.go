package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/purchasables/internal/repo"
	"github.com/angelmondragon/purchasables/pkg/db/models"
)

// Repository reads and prunes catalog price rules.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to catalog price persistence.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a catalog price rule.
func (r *Repository) Create(ctx context.Context, price *models.CatalogPrice) error {
	return r.DB(ctx).Create(price).Error
}

// LowestPrice returns the cheapest rule for the item and store that applies to userID at at.
func (r *Repository) LowestPrice(ctx context.Context, itemID, storeID uuid.UUID, userID *uuid.UUID, promotional bool, at time.Time) (decimal.NullDecimal, error) {
	query := r.rules(ctx, itemID, storeID, userID, promotional).
		Where("date_from IS NULL OR date_from <= ?", at).
		Where("date_to IS NULL OR date_to > ?", at)

	var rows []models.CatalogPrice
	if err := query.Order("price ASC").Limit(1).Find(&rows).Error; err != nil {
		return decimal.NullDecimal{}, err
	}
	if len(rows) == 0 {
		return decimal.NullDecimal{}, nil
	}
	return decimal.NewNullDecimal(rows[0].Price), nil
}

// NextChange returns the first instant after at when the set of rules visible to the lookup
// changes: an active rule ends or a scheduled one starts. Nil means no change is scheduled.
func (r *Repository) NextChange(ctx context.Context, itemID, storeID uuid.UUID, userID *uuid.UUID, promotional bool, at time.Time) (*time.Time, error) {
	var ending []models.CatalogPrice
	if err := r.rules(ctx, itemID, storeID, userID, promotional).
		Where("date_from IS NULL OR date_from <= ?", at).
		Where("date_to IS NOT NULL AND date_to > ?", at).
		Order("date_to ASC").Limit(1).Find(&ending).Error; err != nil {
		return nil, err
	}
	var starting []models.CatalogPrice
	if err := r.rules(ctx, itemID, storeID, userID, promotional).
		Where("date_from IS NOT NULL AND date_from > ?", at).
		Order("date_from ASC").Limit(1).Find(&starting).Error; err != nil {
		return nil, err
	}

	var next *time.Time
	if len(ending) == 1 {
		next = ending[0].DateTo
	}
	if len(starting) == 1 && (next == nil || starting[0].DateFrom.Before(*next)) {
		next = starting[0].DateFrom
	}
	return next, nil
}

// rules scopes catalog rows to one lookup key. Rules without a user apply to everyone;
// anonymous lookups only see those.
func (r *Repository) rules(ctx context.Context, itemID, storeID uuid.UUID, userID *uuid.UUID, promotional bool) *gorm.DB {
	query := r.DB(ctx).
		Model(&models.CatalogPrice{}).
		Where("purchasable_id = ? AND store_id = ? AND is_promotional = ?", itemID, storeID, promotional)
	if userID != nil {
		return query.Where("user_id IS NULL OR user_id = ?", *userID)
	}
	return query.Where("user_id IS NULL")
}

// DeleteExpired removes rules whose window closed before cutoff.
func (r *Repository) DeleteExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	conn := r.DB(ctx)
	if tx != nil {
		conn = tx.WithContext(ctx)
	}
	res := conn.Where("date_to IS NOT NULL AND date_to < ?", cutoff).Delete(&models.CatalogPrice{})
	return res.RowsAffected, res.Error
}
