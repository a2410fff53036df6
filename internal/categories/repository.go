package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/purchasables/internal/repo"
	"github.com/angelmondragon/purchasables/pkg/db/models"
)

// Repository reads tax and shipping categories.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to category lookups.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateTaxCategory persists a tax category.
func (r *Repository) CreateTaxCategory(ctx context.Context, category *models.TaxCategory) error {
	return r.DB(ctx).Create(category).Error
}

// CreateShippingCategory persists a shipping category.
func (r *Repository) CreateShippingCategory(ctx context.Context, category *models.ShippingCategory) error {
	return r.DB(ctx).Create(category).Error
}

// DefaultTaxCategory returns the tax category flagged as default.
func (r *Repository) DefaultTaxCategory(ctx context.Context) (*models.TaxCategory, error) {
	var category models.TaxCategory
	if err := r.DB(ctx).Where("is_default = ?", true).Order("created_at ASC").First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DefaultShippingCategory returns the shipping category flagged as default.
func (r *Repository) DefaultShippingCategory(ctx context.Context) (*models.ShippingCategory, error) {
	var category models.ShippingCategory
	if err := r.DB(ctx).Where("is_default = ?", true).Order("created_at ASC").First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// TaxCategoryExists reports whether a tax category with id exists.
func (r *Repository) TaxCategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.TaxCategory{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ShippingCategoryExists reports whether a shipping category with id exists.
func (r *Repository) ShippingCategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.ShippingCategory{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
