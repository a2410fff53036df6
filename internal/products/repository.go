package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/purchasables/internal/conditions"
	"github.com/angelmondragon/purchasables/internal/repo"
	"github.com/angelmondragon/purchasables/pkg/db/models"
	"github.com/angelmondragon/purchasables/pkg/pagination"
)

// Repository persists products and loads them with their variants.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// Create inserts the product row only; variants are managed as purchasables.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Omit("Variants").Create(product).Error
}

// FindByID loads the product with variants and their store overrides.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := withVariants(r.DB(ctx)).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListFilter narrows product listings.
type ListFilter struct {
	HasUnlimitedStock *bool
	StoreID           *uuid.UUID
	Limit             int
	Cursor            *pagination.Cursor
}

// List returns products newest first using keyset pagination.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	query := withVariants(r.DB(ctx).Model(&models.Product{})).
		Scopes(pagination.Keyset("products", filter.Cursor, filter.Limit))

	if filter.HasUnlimitedStock != nil {
		query = conditions.UnlimitedStockRule{StoreID: filter.StoreID}.ModifyQuery(query, *filter.HasUnlimitedStock)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func withVariants(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Variants.Stores")
}
